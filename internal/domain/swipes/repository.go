package swipes

import "context"

// Repository guarda el historial de cada usuario como un mapa petID -> Record.
// Load de un usuario sin historial devuelve un mapa vacío.
type Repository interface {
	Load(ctx context.Context, userID string) (map[string]Record, error)
	Save(ctx context.Context, userID string, history map[string]Record) error
	Clear(ctx context.Context) error
}
