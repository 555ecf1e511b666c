package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/DRSN-tech/go-cart/internal/domain"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CartRepo — вариант Collection: документ на позицию, поле userId группирует позиции владельца.
// Своего TTL у документов нет; очистку делает TTL-политика по полю expireAt, если она настроена.
type CartRepo struct {
	docs documents
}

func NewCartRepo(client *firestore.Client, collection string) *CartRepo {
	return &CartRepo{
		docs: &collectionDocuments{col: client.Collection(collection)},
	}
}

func (c *CartRepo) Upsert(ctx context.Context, entry *domain.CartEntry) error {
	if err := c.docs.Set(ctx, documentID(entry.OwnerID, entry.ItemID), toDocument(entry)); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}

// QueryByOwner возвращает документы владельца, отсортированные по itemId.
func (c *CartRepo) QueryByOwner(ctx context.Context, ownerID string) ([]domain.CartEntry, error) {
	docs, err := c.docs.ByOwner(ctx, ownerID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	result := make([]domain.CartEntry, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.toEntity())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ItemID < result[j].ItemID })

	return result, nil
}

func (c *CartRepo) DeleteByKey(ctx context.Context, ownerID, itemID string) error {
	if err := c.docs.Delete(ctx, documentID(ownerID, itemID)); err != nil {
		if isNotFound(err) {
			return nil
		}
		return e.Wrap(whereami.WhereAmI(), e.WithKind(e.ErrStoreUnavailable, err))
	}

	return nil
}

// documentID — id документа для пары (владелец, товар). Длина владельца входит в хэш,
// так что разные пары не совпадают даже при "_" внутри идентификаторов.
// Внешний id позиции остаётся domain.CartEntryID.
func documentID(ownerID, itemID string) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(len(ownerID)) + ":" + ownerID + itemID))
	return hex.EncodeToString(sum[:])
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
