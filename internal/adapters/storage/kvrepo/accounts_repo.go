package kvrepo

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"pet-adoption/internal/domain/accounts"
	"pet-adoption/internal/ports/kv"
)

type accountRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r accountRecord) toUser() accounts.User {
	return accounts.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		Role:      accounts.Role(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

// CredentialStore guarda cada cuenta bajo @users/<email> con la contraseña hasheada.
type CredentialStore struct {
	store  kv.Store
	hasher accounts.PasswordHasher
}

var _ accounts.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(store kv.Store, hasher accounts.PasswordHasher) *CredentialStore {
	return &CredentialStore{store: store, hasher: hasher}
}

func userKey(email string) string {
	return userPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (c *CredentialStore) load(ctx context.Context, email string) (accountRecord, error) {
	var rec accountRecord
	err := getJSON(ctx, c.store, userKey(email), &rec)
	if errors.Is(err, kv.ErrNotFound) {
		return accountRecord{}, accounts.ErrUserNotFound
	}
	return rec, err
}

func (c *CredentialStore) Verify(ctx context.Context, email, password string) (accounts.User, error) {
	rec, err := c.load(ctx, email)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return accounts.User{}, accounts.ErrInvalidCredentials
	}
	if err != nil {
		return accounts.User{}, err
	}
	if !c.hasher.Check(password, rec.PasswordHash) {
		return accounts.User{}, accounts.ErrInvalidCredentials
	}
	return rec.toUser(), nil
}

func (c *CredentialStore) Create(ctx context.Context, u accounts.User, password string) error {
	_, err := c.load(ctx, u.Email)
	if err == nil {
		return accounts.ErrEmailTaken
	}
	if !errors.Is(err, accounts.ErrUserNotFound) {
		return err
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	return setJSON(ctx, c.store, userKey(u.Email), accountRecord{
		ID:           u.ID,
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		Name:         u.Name,
		Role:         string(u.Role),
		PasswordHash: hash,
		CreatedAt:    u.CreatedAt,
	})
}

func (c *CredentialStore) FindByEmail(ctx context.Context, email string) (accounts.User, error) {
	rec, err := c.load(ctx, email)
	if err != nil {
		return accounts.User{}, err
	}
	return rec.toUser(), nil
}
