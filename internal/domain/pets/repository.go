package pets

import "context"

// Repository guarda cada mascota bajo su propia clave.
// GetByID devuelve ErrNotFound si no existe; cualquier otro error es de persistencia.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	Clear(ctx context.Context) error
}
