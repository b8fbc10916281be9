// Package sqlite abre el archivo sqlite del dispositivo y expone el kv.Store sobre él.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"pet-adoption/internal/adapters/storage/sqlstore"
)

// Open abre (o crea) la base sqlite en path. Crea el directorio si hace falta.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create sqlite directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// Un solo escritor: sqlite serializa igual y así evitamos SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}

	return db, nil
}

func NewStore(ctx context.Context, path string) (*sqlstore.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	s, err := sqlstore.New(ctx, db, sqlstore.SQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
