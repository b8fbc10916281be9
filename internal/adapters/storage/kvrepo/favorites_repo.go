package kvrepo

import (
	"context"

	"github.com/pkg/errors"

	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/ports/kv"
)

// FavoritesRepo guarda la lista de favoritos de cada usuario bajo @favorites_<userId>.
type FavoritesRepo struct {
	store kv.Store
}

var _ favorites.Repository = (*FavoritesRepo)(nil)

func NewFavoritesRepo(store kv.Store) *FavoritesRepo {
	return &FavoritesRepo{store: store}
}

func (r *FavoritesRepo) List(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := getJSON(ctx, r.store, favoritesPrefix+userID, &ids)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (r *FavoritesRepo) Save(ctx context.Context, userID string, petIDs []string) error {
	if petIDs == nil {
		petIDs = []string{}
	}
	return setJSON(ctx, r.store, favoritesPrefix+userID, petIDs)
}

func (r *FavoritesRepo) Clear(ctx context.Context) error {
	return deletePrefix(ctx, r.store, favoritesPrefix)
}
