package favorites

import "context"

// Repository guarda un conjunto de favoritos por usuario.
// List de un usuario sin favoritos devuelve una lista vacía, no un error.
type Repository interface {
	List(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID string, petIDs []string) error
	Clear(ctx context.Context) error
}
