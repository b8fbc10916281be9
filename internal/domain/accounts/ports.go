package accounts

import (
	"context"
	"time"
)

// CredentialStore es la tabla de credenciales. Verify nunca revela si falló el email o la contraseña.
type CredentialStore interface {
	// Verify devuelve ErrInvalidCredentials si no coinciden.
	Verify(ctx context.Context, email, password string) (User, error)
	// Create devuelve ErrEmailTaken si el email ya existe.
	Create(ctx context.Context, u User, password string) error
	// FindByEmail devuelve ErrUserNotFound si no existe.
	FindByEmail(ctx context.Context, email string) (User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

type TokenIssuer interface {
	Issue(ctx context.Context, u User) (token string, expiresAt time.Time, err error)
}

// SessionStore guarda la sesión actual del dispositivo.
type SessionStore interface {
	Save(ctx context.Context, s Session) error
	// Load devuelve ErrNoSession si no hay sesión.
	Load(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error
}
