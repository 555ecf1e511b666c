package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/go-cart/db"
	"github.com/DRSN-tech/go-cart/internal/cfg"
	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/jitter"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	connectAttempts = 5
	backoffBase     = 200 * time.Millisecond
	backoffMax      = 3 * time.Second
	pingTimeout     = 5 * time.Second
)

// PgDatabase инкапсулирует пул соединений каталога и управление миграциями.
type PgDatabase struct {
	Pool *pgxpool.Pool
	dsn  string
}

// DSN собирает строку подключения в формате key=value.
func DSN(cfg *cfg.PGDBCfg) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// Connect создаёт пул и ждёт, пока база ответит на ping.
// Неудачные попытки повторяются с экспоненциальной задержкой и джиттером.
func Connect(ctx context.Context, cfg *cfg.PGDBCfg, log logger.Logger) (*PgDatabase, error) {
	const op = "PgDatabase.Connect"
	dsn := DSN(cfg)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	db := &PgDatabase{Pool: pool, dsn: dsn}
	for attempt := 0; ; attempt++ {
		err = db.Ping(ctx)
		if err == nil {
			return db, nil
		}
		if attempt == connectAttempts-1 {
			break
		}

		delay := jitter.ExponentialBackoff(backoffBase, backoffMax, attempt, jitter.DefaultJitter)
		log.Warnf("postgres is not ready (attempt %d/%d), retrying in %s: %v", attempt+1, connectAttempts, delay, err)

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, e.Wrap(op, ctx.Err())
		case <-time.After(delay):
		}
	}

	pool.Close()
	return nil, e.Wrap(op, err)
}

func (db *PgDatabase) Ping(ctx context.Context) error {
	const op = "PgDatabase.Ping"
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// Close корректно закрывает пул соединений к базе данных.
func (db *PgDatabase) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// RunMigrations применяет ожидающие миграции, встроенные в бинарник (db/migrations).
func (db *PgDatabase) RunMigrations(logger logger.Logger) error {
	const (
		op                 = "PgDatabase.RunMigrations"
		driverName         = "pgx"
		databaseDriverName = "postgres"
		sourceName         = "iofs"
		migrationsDir      = "migrations"
	)

	sqlDb, err := sql.Open(driverName, db.dsn)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer sqlDb.Close()

	driver, err := postgres.WithInstance(sqlDb, &postgres.Config{})
	if err != nil {
		return e.Wrap(op, err)
	}

	source, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return e.Wrap(op, err)
	}

	m, err := migrate.NewWithInstance(sourceName, source, databaseDriverName, driver)
	if err != nil {
		return e.Wrap(op, err)
	}

	err = m.Up()
	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Infof("catalog schema is up to date")
			return nil
		}
		return e.Wrap(op, err)
	}

	logger.Infof("migrations applied successfully")
	return nil
}

var migrationsFS = db.Migrations
