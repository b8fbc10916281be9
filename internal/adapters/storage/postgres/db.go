package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"

	"pet-adoption/internal/adapters/storage/sqlstore"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	return db, nil
}

// NewStore devuelve el kv.Store respaldado por la tabla kv_store.
func NewStore(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	s, err := sqlstore.New(ctx, db, sqlstore.Postgres)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
