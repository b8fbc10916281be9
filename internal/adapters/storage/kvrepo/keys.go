// Package kvrepo implementa los repositorios de dominio sobre un kv.Store.
//
// Layout de claves:
//
//	@pets/<id>               una mascota (JSON)
//	@favorites_<userId>      ids favoritos del usuario (JSON array)
//	@swipe_history_<userId>  petId -> {action, timestamp} (JSON object)
//	@users/<email>           credenciales (JSON, hash bcrypt)
//	@auth_token, @user_data  sesión del dispositivo
package kvrepo

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"pet-adoption/internal/ports/kv"
)

const (
	petPrefix          = "@pets/"
	favoritesPrefix    = "@favorites_"
	swipeHistoryPrefix = "@swipe_history_"
	userPrefix         = "@users/"
	authTokenKey       = "@auth_token"
	userDataKey        = "@user_data"
)

// getJSON decodifica la clave en v. Devuelve kv.ErrNotFound sin envolver si no existe.
func getJSON(ctx context.Context, store kv.Store, key string, v any) error {
	b, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}
	return nil
}

func setJSON(ctx context.Context, store kv.Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return store.Set(ctx, key, b)
}

func deletePrefix(ctx context.Context, store kv.Store, prefix string) error {
	keys, err := store.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	return store.Delete(ctx, keys...)
}
