// Package storage elige el backend kv.Store según la configuración.
package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"pet-adoption/internal/adapters/storage/memory"
	"pet-adoption/internal/adapters/storage/postgres"
	redisx "pet-adoption/internal/adapters/storage/redis"
	"pet-adoption/internal/adapters/storage/sqlite"
	"pet-adoption/internal/config"
	"pet-adoption/internal/ports/kv"
)

// Open abre el backend configurado y comprueba que responde.
func Open(ctx context.Context, cfg config.StorageConfig) (kv.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil

	case config.DriverSQLite, "":
		return sqlite.NewStore(ctx, cfg.SQLite.Path)

	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.Postgres.DSN)

	case config.DriverRedis:
		s := redisx.New(redisx.Config{
			Addr:      cfg.Redis.Addr,
			DB:        cfg.Redis.DB,
			Password:  cfg.Redis.Password,
			Namespace: cfg.Redis.Namespace,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := s.Ping(pingCtx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil

	default:
		return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
