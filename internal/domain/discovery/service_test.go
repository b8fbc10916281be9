package discovery_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/adapters/storage/kvrepo"
	"pet-adoption/internal/adapters/storage/memory"
	"pet-adoption/internal/domain/discovery"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/swipes"
	"pet-adoption/internal/ports/kv"
)

// flakyStore falla las escrituras de claves con el prefijo indicado.
type flakyStore struct {
	*memory.Store
	failSetPrefix string
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSetPrefix != "" && strings.HasPrefix(key, s.failSetPrefix) {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

type countingRecorder struct {
	byAction map[string]int
}

func (r *countingRecorder) RecordSwipe(action string) {
	r.byAction[action]++
}

type fixture struct {
	store     *flakyStore
	pets      *pets.Service
	favorites *favorites.Service
	swipes    *swipes.Service
	disc      *discovery.Service
	rec       *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &flakyStore{Store: memory.NewStore()}
	var _ kv.Store = store

	petsSvc := pets.NewService(kvrepo.NewPetRepo(store), nil)
	swipesSvc := swipes.NewService(kvrepo.NewSwipesRepo(store), nil)
	favSvc := favorites.NewService(kvrepo.NewFavoritesRepo(store), petsSvc, nil)
	rec := &countingRecorder{byAction: map[string]int{}}

	return &fixture{
		store:     store,
		pets:      petsSvc,
		favorites: favSvc,
		swipes:    swipesSvc,
		disc:      discovery.NewService(petsSvc, swipesSvc, favSvc, nil, rec),
		rec:       rec,
	}
}

func (f *fixture) createMax(t *testing.T, ownerID string) pets.Pet {
	t.Helper()
	p, err := f.pets.Create(context.Background(),
		pets.Owner{ID: ownerID, Email: ownerID + "@example.com"},
		pets.CreateInput{Name: "Max", Breed: "Golden Retriever", Age: "2 años", Description: "Perro muy juguetón", Location: "Madrid"},
	)
	require.NoError(t, err)
	return p
}

func ids(list []pets.Pet) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestAdoptionFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	max := f.createMax(t, "u1")

	// El dueño no ve su propia mascota en descubrimiento.
	assert.NotContains(t, ids(f.disc.Queue(ctx, "u1")), max.ID)
	assert.Equal(t, []string{max.ID}, ids(f.pets.OwnedBy(ctx, "u1")))

	// Otro usuario sí.
	require.Equal(t, []string{max.ID}, ids(f.disc.Queue(ctx, "u2")))

	_, err := f.disc.Swipe(ctx, "u2", max.ID, "pass")
	require.NoError(t, err)
	assert.Empty(t, f.disc.Queue(ctx, "u2"))
	assert.False(t, f.favorites.Contains(ctx, "u2", max.ID))

	// Un tercero sigue viéndola.
	assert.Equal(t, []string{max.ID}, ids(f.disc.Queue(ctx, "u3")))

	// Like agrega a favoritos.
	_, err = f.disc.Swipe(ctx, "u3", max.ID, "like")
	require.NoError(t, err)
	assert.True(t, f.favorites.Contains(ctx, "u3", max.ID))
	assert.Equal(t, []string{max.ID}, ids(f.favorites.Pets(ctx, "u3")))
	assert.Equal(t, 1, f.rec.byAction["pass"])
	assert.Equal(t, 1, f.rec.byAction["like"])

	// Baja lógica: desaparece de todas partes pero el registro sigue.
	ok, err := f.pets.SoftDelete(ctx, max.ID, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Empty(t, f.disc.Queue(ctx, "u4"))
	assert.Empty(t, f.pets.OwnedBy(ctx, "u1"))
	assert.Empty(t, f.favorites.Pets(ctx, "u3"))

	stored, err := f.pets.GetByID(ctx, max.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.NotNil(t, stored.DateDeleted)
}

func TestSwipe_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	max := f.createMax(t, "u1")

	_, err := f.disc.Swipe(ctx, "u2", max.ID, "superlike")
	assert.ErrorIs(t, err, swipes.ErrInvalidArgument)

	_, err = f.disc.Swipe(ctx, "", max.ID, "like")
	assert.ErrorIs(t, err, swipes.ErrInvalidArgument)

	_, err = f.disc.Swipe(ctx, "u2", "missing", "like")
	assert.ErrorIs(t, err, pets.ErrNotFound)

	_, err = f.pets.SoftDelete(ctx, max.ID, "u1")
	require.NoError(t, err)
	_, err = f.disc.Swipe(ctx, "u2", max.ID, "like")
	assert.ErrorIs(t, err, pets.ErrNotFound)

	assert.Empty(t, f.swipes.History(ctx, "u2"))
}

func TestSwipe_ChangeOfMind(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	max := f.createMax(t, "u1")

	_, err := f.disc.Swipe(ctx, "u2", max.ID, "pass")
	require.NoError(t, err)
	_, err = f.disc.Swipe(ctx, "u2", max.ID, "like")
	require.NoError(t, err)

	h := f.swipes.History(ctx, "u2")
	require.Len(t, h, 1)
	assert.Equal(t, swipes.ActionLike, h[0].Action)
	assert.True(t, f.favorites.Contains(ctx, "u2", max.ID))
}

func TestSwipe_FavoriteWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	max := f.createMax(t, "u1")

	f.store.failSetPrefix = "@favorites_"
	_, err := f.disc.Swipe(ctx, "u2", max.ID, "like")
	require.Error(t, err)
	assert.ErrorIs(t, err, favorites.ErrPersistence)

	// El swipe quedó registrado aunque el favorito no.
	h := f.swipes.History(ctx, "u2")
	require.Len(t, h, 1)
	assert.Equal(t, max.ID, h[0].PetID)
	assert.False(t, f.favorites.Contains(ctx, "u2", max.ID))
}

func TestQueue_HistoryUnreadable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createMax(t, "u1")

	require.NoError(t, f.store.Store.Set(ctx, "@swipe_history_u2", []byte("{roto")))
	assert.Empty(t, f.disc.Queue(ctx, "u2"))
	assert.Empty(t, f.disc.Queue(ctx, ""))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	max := f.createMax(t, "u1")
	luna := f.createMax(t, "u1")
	pending := "pending"
	_, err := f.pets.Update(ctx, luna.ID, "u1", pets.UpdateInput{AdoptionStatus: &pending})
	require.NoError(t, err)

	other := f.createMax(t, "u2")
	_, err = f.disc.Swipe(ctx, "u1", other.ID, "like")
	require.NoError(t, err)

	st := f.disc.Stats(ctx, "u1")
	assert.Equal(t, discovery.Stats{
		TotalPets:      2,
		ActivePets:     1,
		TotalFavorites: 1,
		TotalSwipes:    1,
		TotalLikes:     1,
	}, st)

	_, err = f.pets.SoftDelete(ctx, max.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.disc.Stats(ctx, "u1").TotalPets)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	max := f.createMax(t, "u1")
	_, err := f.disc.Swipe(ctx, "u2", max.ID, "like")
	require.NoError(t, err)

	require.NoError(t, f.disc.Reset(ctx))

	assert.Empty(t, f.favorites.IDs(ctx, "u2"))
	assert.Empty(t, f.swipes.History(ctx, "u2"))
	_, err = f.pets.GetByID(ctx, max.ID)
	assert.ErrorIs(t, err, pets.ErrNotFound)

	// Quedan solo las mascotas demo, visibles para cualquiera.
	assert.Equal(t, []string{"2", "3", "1"}, ids(f.disc.Queue(ctx, "u2")))
}
