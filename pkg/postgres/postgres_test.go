package postgres

import (
	"io/fs"
	"testing"

	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&cfg.PGDBCfg{
		Host:     "db",
		Port:     "5432",
		User:     "cart",
		Password: "secret",
		DBName:   "catalog",
		SSLMode:  "require",
	})

	assert.Equal(t, "host=db port=5432 user=cart password=secret dbname=catalog sslmode=require", dsn)
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "migrations/000001_create_products.up.sql")
	assert.Contains(t, names, "migrations/000001_create_products.down.sql")
}
