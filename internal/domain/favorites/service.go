package favorites

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/logger"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPersistence     = errors.New("persistence error")
)

// PetCatalog resuelve ids de favoritos a mascotas.
type PetCatalog interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type Service struct {
	repo    Repository
	catalog PetCatalog
	log     logger.Logger
}

func NewService(repo Repository, catalog PetCatalog, log logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		log:     logger.OrNop(log).With(map[string]any{"module": "favorites"}),
	}
}

func args(userID, petID string) (string, string, error) {
	userID = strings.TrimSpace(userID)
	petID = strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return "", "", ErrInvalidArgument
	}
	return userID, petID, nil
}

// Add es idempotente: agregar dos veces deja un solo elemento.
func (s *Service) Add(ctx context.Context, userID, petID string) error {
	userID, petID, err := args(userID, petID)
	if err != nil {
		return err
	}

	current, err := s.repo.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: load favorites: %v", ErrPersistence, err)
	}
	if slices.Contains(current, petID) {
		return nil
	}

	if err := s.repo.Save(ctx, userID, append(current, petID)); err != nil {
		return fmt.Errorf("%w: save favorites: %v", ErrPersistence, err)
	}
	return nil
}

// Remove es idempotente: quitar un id ausente no hace nada.
func (s *Service) Remove(ctx context.Context, userID, petID string) error {
	userID, petID, err := args(userID, petID)
	if err != nil {
		return err
	}

	current, err := s.repo.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: load favorites: %v", ErrPersistence, err)
	}
	if !slices.Contains(current, petID) {
		return nil
	}

	next := slices.DeleteFunc(slices.Clone(current), func(id string) bool { return id == petID })
	if err := s.repo.Save(ctx, userID, next); err != nil {
		return fmt.Errorf("%w: save favorites: %v", ErrPersistence, err)
	}
	return nil
}

// Toggle invierte la pertenencia y devuelve si quedó como favorito.
func (s *Service) Toggle(ctx context.Context, userID, petID string) (bool, error) {
	userID, petID, err := args(userID, petID)
	if err != nil {
		return false, err
	}

	current, err := s.repo.List(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%w: load favorites: %v", ErrPersistence, err)
	}

	if slices.Contains(current, petID) {
		return false, s.Remove(ctx, userID, petID)
	}
	return true, s.Add(ctx, userID, petID)
}

// IDs devuelve los favoritos en orden de inserción. Ante error de lectura devuelve vacío.
func (s *Service) IDs(ctx context.Context, userID string) []string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []string{}
	}

	ids, err := s.repo.List(ctx, userID)
	if err != nil {
		s.log.Warn("favorites read degraded to empty", map[string]any{"user_id": userID, "err": err})
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}

func (s *Service) Contains(ctx context.Context, userID, petID string) bool {
	return slices.Contains(s.IDs(ctx, userID), strings.TrimSpace(petID))
}

// Pets resuelve los favoritos a mascotas activas, en orden de inserción.
// Ids huérfanos o mascotas eliminadas se omiten.
func (s *Service) Pets(ctx context.Context, userID string) []pets.Pet {
	out := make([]pets.Pet, 0)
	for _, id := range s.IDs(ctx, userID) {
		p, err := s.catalog.GetByID(ctx, id)
		if err != nil {
			if !errors.Is(err, pets.ErrNotFound) {
				s.log.Warn("favorite pet lookup failed", map[string]any{"pet_id": id, "err": err})
			}
			continue
		}
		if !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Clear borra los favoritos de todos los usuarios.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear favorites: %v", ErrPersistence, err)
	}
	return nil
}
