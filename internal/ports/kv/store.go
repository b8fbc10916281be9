package kv

import (
	"context"
	"errors"
)

// ErrNotFound se devuelve cuando la clave no existe.
var ErrNotFound = errors.New("kv: key not found")

// Store es el almacenamiento clave-valor persistente del dispositivo.
// Los valores son opacos (JSON en la práctica); cada clave se lee y escribe por separado,
// no hay transacciones que abarquen varias claves.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete ignora claves inexistentes.
	Delete(ctx context.Context, keys ...string) error
	// Keys devuelve las claves con el prefijo dado, ordenadas ascendente.
	Keys(ctx context.Context, prefix string) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}
