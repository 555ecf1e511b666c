package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// documents — операции над коллекцией корзин, которые нужны CartRepo.
type documents interface {
	Set(ctx context.Context, id string, doc cartDocument) error
	ByOwner(ctx context.Context, ownerID string) ([]cartDocument, error)
	Delete(ctx context.Context, id string) error
}

type collectionDocuments struct {
	col *firestore.CollectionRef
}

func (d *collectionDocuments) Set(ctx context.Context, id string, doc cartDocument) error {
	_, err := d.col.Doc(id).Set(ctx, doc)
	return err
}

func (d *collectionDocuments) ByOwner(ctx context.Context, ownerID string) ([]cartDocument, error) {
	iter := d.col.Where("userId", "==", ownerID).Documents(ctx)
	defer iter.Stop()

	result := make([]cartDocument, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return result, nil
		}
		if err != nil {
			return nil, err
		}

		var doc cartDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
}

func (d *collectionDocuments) Delete(ctx context.Context, id string) error {
	_, err := d.col.Doc(id).Delete(ctx)
	return err
}
