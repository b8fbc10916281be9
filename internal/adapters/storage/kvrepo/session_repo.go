package kvrepo

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"pet-adoption/internal/domain/accounts"
	"pet-adoption/internal/ports/kv"
)

type userData struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionStore guarda el token en @auth_token y el perfil cacheado en @user_data.
type SessionStore struct {
	store kv.Store
}

var _ accounts.SessionStore = (*SessionStore)(nil)

func NewSessionStore(store kv.Store) *SessionStore {
	return &SessionStore{store: store}
}

func (s *SessionStore) Save(ctx context.Context, sess accounts.Session) error {
	if err := s.store.Set(ctx, authTokenKey, []byte(sess.Token)); err != nil {
		return err
	}
	return setJSON(ctx, s.store, userDataKey, userData{
		ID:        sess.User.ID,
		Email:     sess.User.Email,
		Name:      sess.User.Name,
		Role:      string(sess.User.Role),
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *SessionStore) Load(ctx context.Context) (accounts.Session, error) {
	token, err := s.store.Get(ctx, authTokenKey)
	if errors.Is(err, kv.ErrNotFound) {
		return accounts.Session{}, accounts.ErrNoSession
	}
	if err != nil {
		return accounts.Session{}, err
	}

	var ud userData
	err = getJSON(ctx, s.store, userDataKey, &ud)
	if errors.Is(err, kv.ErrNotFound) {
		return accounts.Session{}, accounts.ErrNoSession
	}
	if err != nil {
		return accounts.Session{}, err
	}

	return accounts.Session{
		Token: string(token),
		User: accounts.User{
			ID:    ud.ID,
			Email: ud.Email,
			Name:  ud.Name,
			Role:  accounts.Role(ud.Role),
		},
		ExpiresAt: ud.ExpiresAt,
	}, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, authTokenKey, userDataKey)
}
