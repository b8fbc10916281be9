package kvrepo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pet-adoption/internal/adapters/auth/password"
	"pet-adoption/internal/adapters/storage/memory"
	"pet-adoption/internal/domain/accounts"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/swipes"
)

func samplePet(id string) pets.Pet {
	return pets.Pet{
		ID:              id,
		OwnerID:         "u1",
		OwnerEmail:      "u1@example.com",
		Name:            "Max",
		Breed:           "Labrador",
		Age:             pets.Age{Value: 2, Unit: pets.AgeYears},
		Description:     "Juguetón",
		Location:        "Madrid",
		Gender:          pets.GenderMale,
		Images:          []string{"https://example.com/max.jpg"},
		Vaccinated:      true,
		MedicalInfo:     pets.DefaultMedicalInfo,
		PersonalityTags: []string{"Juguetón"},
		AdoptionStatus:  pets.StatusAvailable,
		IsActive:        true,
		DateAdded:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestPetRepo_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewPetRepo(store)

	_, err := repo.GetByID(ctx, "p1")
	require.ErrorIs(t, err, pets.ErrNotFound)

	require.NoError(t, repo.Create(ctx, samplePet("p1")))
	require.Error(t, repo.Create(ctx, samplePet("p1")))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, samplePet("p1"), got)

	got.IsActive = false
	deleted := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	got.DateDeleted = &deleted
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, again.IsActive)
	require.NotNil(t, again.DateDeleted)
	assert.True(t, deleted.Equal(*again.DateDeleted))

	require.ErrorIs(t, repo.Update(ctx, samplePet("nope")), pets.ErrNotFound)
}

func TestPetRepo_StoredShape(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewPetRepo(store)

	require.NoError(t, repo.Create(ctx, samplePet("p1")))

	raw, err := store.Get(ctx, "@pets/p1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"age":"2 años"`)
	assert.Contains(t, string(raw), `"ownerId":"u1"`)
	assert.Contains(t, string(raw), `"isActive":true`)
}

func TestPetRepo_LegacyAgeText(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewPetRepo(store)

	require.NoError(t, store.Set(ctx, "@pets/old", []byte(`{"id":"old","name":"Luna","age":"6 meses","isActive":true}`)))

	p, err := repo.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, pets.Age{Value: 6, Unit: pets.AgeMonths}, p.Age)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, []string{}, p.PersonalityTags)
}

func TestPetRepo_UnparseableAgeTextIsKept(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewPetRepo(store)

	require.NoError(t, store.Set(ctx, "@pets/old", []byte(`{"id":"old","name":"Toby","age":"Cachorro","isActive":true}`)))

	p, err := repo.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, pets.LegacyAge("Cachorro"), p.Age)
	assert.Equal(t, "Cachorro", p.Age.String())

	require.NoError(t, repo.Update(ctx, p))

	var rec map[string]any
	raw, err := store.Get(ctx, "@pets/old")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &rec))
	assert.Equal(t, "Cachorro", rec["age"])
}

func TestPetRepo_ListAndClear(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewPetRepo(store)

	require.NoError(t, repo.Create(ctx, samplePet("a")))
	require.NoError(t, repo.Create(ctx, samplePet("b")))
	require.NoError(t, store.Set(ctx, "@favorites_u1", []byte(`["a"]`)))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	require.NoError(t, repo.Clear(ctx))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Clear solo toca @pets/.
	_, err = store.Get(ctx, "@favorites_u1")
	assert.NoError(t, err)
}

func TestPetRepo_CorruptRecord(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewPetRepo(store)

	require.NoError(t, store.Set(ctx, "@pets/bad", []byte(`{not json`)))

	_, err := repo.GetByID(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, pets.ErrNotFound)

	_, err = repo.List(ctx)
	assert.Error(t, err)
}

func TestFavoritesRepo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewFavoritesRepo(store)

	ids, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)

	require.NoError(t, repo.Save(ctx, "u1", []string{"p1", "p2"}))
	require.NoError(t, repo.Save(ctx, "u2", []string{"p3"}))

	ids, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, ids)

	require.NoError(t, repo.Save(ctx, "u1", nil))
	raw, err := store.Get(ctx, "@favorites_u1")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	require.NoError(t, repo.Clear(ctx))
	ids, err = repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSwipesRepo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := NewSwipesRepo(store)

	h, err := repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, h)

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, "u1", map[string]swipes.Record{
		"p1": {PetID: "p1", Action: swipes.ActionLike, Timestamp: ts},
	}))

	h, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	require.Contains(t, h, "p1")
	assert.Equal(t, swipes.ActionLike, h["p1"].Action)
	assert.Equal(t, "p1", h["p1"].PetID)
	assert.True(t, ts.Equal(h["p1"].Timestamp))

	raw, err := store.Get(ctx, "@swipe_history_u1")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"p1":{"action":"like"`)

	require.NoError(t, repo.Clear(ctx))
	h, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestCredentialStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	creds := NewCredentialStore(store, password.NewBcryptHasher(bcrypt.MinCost))

	u := accounts.User{ID: "2", Email: "User@Example.com", Name: "User Test", Role: accounts.RoleUser}
	require.NoError(t, creds.Create(ctx, u, "user123"))
	require.ErrorIs(t, creds.Create(ctx, u, "otra"), accounts.ErrEmailTaken)

	got, err := creds.Verify(ctx, "user@example.com", "user123")
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)
	assert.Equal(t, "user@example.com", got.Email)

	_, err = creds.Verify(ctx, "user@example.com", "mala")
	assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	_, err = creds.Verify(ctx, "nadie@example.com", "user123")
	assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)

	_, err = creds.FindByEmail(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, accounts.ErrUserNotFound)

	// La contraseña nunca se guarda en claro.
	raw, err := store.Get(ctx, "@users/user@example.com")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "user123")
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	sessions := NewSessionStore(store)

	_, err := sessions.Load(ctx)
	require.ErrorIs(t, err, accounts.ErrNoSession)

	exp := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sessions.Save(ctx, accounts.Session{
		Token:     "tok",
		User:      accounts.User{ID: "1", Email: "admin@example.com", Name: "Administrator", Role: accounts.RoleAdmin},
		ExpiresAt: exp,
	}))

	raw, err := store.Get(ctx, "@auth_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", string(raw))

	s, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, accounts.RoleAdmin, s.User.Role)
	assert.True(t, exp.Equal(s.ExpiresAt))

	require.NoError(t, sessions.Clear(ctx))
	_, err = sessions.Load(ctx)
	assert.ErrorIs(t, err, accounts.ErrNoSession)
}
