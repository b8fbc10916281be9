// Package discovery arma la cola de mascotas para deslizar y coordina swipe + favoritos.
package discovery

import (
	"context"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/swipes"
	"pet-adoption/internal/platform/logger"
)

// Recorder recibe eventos de swipe para métricas. Puede ser nil.
type Recorder interface {
	RecordSwipe(action string)
}

type Service struct {
	pets      *pets.Service
	swipes    *swipes.Service
	favorites *favorites.Service
	log       logger.Logger
	rec       Recorder
}

func NewService(petsSvc *pets.Service, swipesSvc *swipes.Service, favoritesSvc *favorites.Service, log logger.Logger, rec Recorder) *Service {
	return &Service{
		pets:      petsSvc,
		swipes:    swipesSvc,
		favorites: favoritesSvc,
		log:       logger.OrNop(log).With(map[string]any{"module": "discovery"}),
		rec:       rec,
	}
}

// Queue = AvailableFor(userID) menos toda mascota presente en el historial de swipes del usuario.
// Se recalcula en cada llamada. Si el historial no se puede leer, la cola queda vacía.
func (s *Service) Queue(ctx context.Context, userID string) []pets.Pet {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []pets.Pet{}
	}

	swiped, err := s.swipes.Swiped(ctx, userID)
	if err != nil {
		s.log.Warn("discovery queue degraded to empty", map[string]any{"user_id": userID, "err": err})
		return []pets.Pet{}
	}

	pool := s.pets.AvailableFor(ctx, userID)
	out := make([]pets.Pet, 0, len(pool))
	for _, p := range pool {
		if _, seen := swiped[p.ID]; seen {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Swipe registra la decisión y, si es like, agrega a favoritos.
// Son dos escrituras independientes: si falla la segunda, la primera queda registrada.
func (s *Service) Swipe(ctx context.Context, userID, petID, action string) (swipes.Record, error) {
	userID = strings.TrimSpace(userID)
	petID = strings.TrimSpace(petID)
	a, ok := swipes.ParseAction(action)
	if userID == "" || petID == "" || !ok {
		return swipes.Record{}, swipes.ErrInvalidArgument
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return swipes.Record{}, err
	}
	if !p.IsActive {
		return swipes.Record{}, pets.ErrNotFound
	}

	rec, err := s.swipes.Record(ctx, userID, petID, string(a))
	if err != nil {
		return swipes.Record{}, err
	}
	if s.rec != nil {
		s.rec.RecordSwipe(string(a))
	}

	if a == swipes.ActionLike {
		if err := s.favorites.Add(ctx, userID, petID); err != nil {
			s.log.Error("like recorded without favorite", map[string]any{"user_id": userID, "pet_id": petID, "err": err})
			return rec, fmt.Errorf("like recorded, favorite failed: %w", err)
		}
	}
	return rec, nil
}

// Stats resume la actividad del usuario.
type Stats struct {
	TotalPets      int `json:"totalPets"`
	ActivePets     int `json:"activePets"`
	TotalFavorites int `json:"totalFavorites"`
	TotalSwipes    int `json:"totalSwipes"`
	TotalLikes     int `json:"totalLikes"`
}

// Stats: totalPets son las publicaciones activas del usuario; activePets las que siguen disponibles.
func (s *Service) Stats(ctx context.Context, userID string) Stats {
	own := s.pets.OwnedBy(ctx, userID)
	history := s.swipes.History(ctx, userID)

	st := Stats{
		TotalPets:      len(own),
		TotalFavorites: len(s.favorites.IDs(ctx, userID)),
		TotalSwipes:    len(history),
	}
	for _, p := range own {
		if p.AdoptionStatus == pets.StatusAvailable {
			st.ActivePets++
		}
	}
	for _, r := range history {
		if r.Action == swipes.ActionLike {
			st.TotalLikes++
		}
	}
	return st
}

// Reset limpia favoritos, historiales y catálogo, y vuelve a sembrar las mascotas demo.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.swipes.Clear(ctx); err != nil {
		return err
	}
	if err := s.favorites.Clear(ctx); err != nil {
		return err
	}
	if err := s.pets.Reset(ctx); err != nil {
		return err
	}
	s.log.Warn("local database reset", nil)
	return nil
}
