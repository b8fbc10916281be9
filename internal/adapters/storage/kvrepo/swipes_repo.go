package kvrepo

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"pet-adoption/internal/domain/swipes"
	"pet-adoption/internal/ports/kv"
)

type swipeEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// SwipesRepo guarda el historial de cada usuario bajo @swipe_history_<userId>.
type SwipesRepo struct {
	store kv.Store
}

var _ swipes.Repository = (*SwipesRepo)(nil)

func NewSwipesRepo(store kv.Store) *SwipesRepo {
	return &SwipesRepo{store: store}
}

func (r *SwipesRepo) Load(ctx context.Context, userID string) (map[string]swipes.Record, error) {
	raw := map[string]swipeEntry{}
	err := getJSON(ctx, r.store, swipeHistoryPrefix+userID, &raw)
	if errors.Is(err, kv.ErrNotFound) {
		return map[string]swipes.Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]swipes.Record, len(raw))
	for petID, e := range raw {
		out[petID] = swipes.Record{PetID: petID, Action: swipes.Action(e.Action), Timestamp: e.Timestamp}
	}
	return out, nil
}

func (r *SwipesRepo) Save(ctx context.Context, userID string, history map[string]swipes.Record) error {
	raw := make(map[string]swipeEntry, len(history))
	for petID, rec := range history {
		raw[petID] = swipeEntry{Action: string(rec.Action), Timestamp: rec.Timestamp}
	}
	return setJSON(ctx, r.store, swipeHistoryPrefix+userID, raw)
}

func (r *SwipesRepo) Clear(ctx context.Context) error {
	return deletePrefix(ctx, r.store, swipeHistoryPrefix)
}
