// Package sqlstore implementa kv.Store sobre una tabla SQL (sqlite o postgres).
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"pet-adoption/internal/ports/kv"
)

const table = "kv_store"

// Dialect agrupa lo que cambia entre motores.
type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
	BlobType    string
	TimeType    string
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: sq.Question,
		BlobType:    "BLOB",
		TimeType:    "TIMESTAMP",
	}
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: sq.Dollar,
		BlobType:    "BYTEA",
		TimeType:    "TIMESTAMPTZ",
	}
)

type Store struct {
	db      *sql.DB
	dialect Dialect
	sb      sq.StatementBuilderType
	now     func() time.Time
}

var _ kv.Store = (*Store)(nil)

// New crea la tabla si no existe y devuelve el store listo para usar.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{
		db:      db,
		dialect: dialect,
		sb:      sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		now:     time.Now,
	}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key_name   TEXT PRIMARY KEY,
		payload    %s NOT NULL,
		updated_at %s NOT NULL
	)`, table, s.dialect.BlobType, s.dialect.TimeType)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrapf(err, "%s: create %s", s.dialect.Name, table)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	q, args, err := s.sb.Select("payload").From(table).Where(sq.Eq{"key_name": key}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get")
	}

	var payload []byte
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, errors.Wrapf(err, "%s: get %q", s.dialect.Name, key)
	}
	return payload, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}

	q, args, err := s.sb.Insert(table).
		Columns("key_name", "payload", "updated_at").
		Values(key, value, s.now().UTC()).
		Suffix("ON CONFLICT (key_name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build set")
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrapf(err, "%s: set %q", s.dialect.Name, key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	q, args, err := s.sb.Delete(table).Where(sq.Eq{"key_name": keys}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete")
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return errors.Wrapf(err, "%s: delete %d keys", s.dialect.Name, len(keys))
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	b := s.sb.Select("key_name").From(table)
	if prefix != "" {
		b = b.Where(sq.Expr(`key_name LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%"))
	}

	q, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build keys")
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: keys %q", s.dialect.Name, prefix)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, errors.Wrap(err, "scan key")
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate keys")
	}

	// El orden de ORDER BY depende del collation del motor; ordenamos en Go.
	sort.Strings(out)
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
