package swipes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pet-adoption/internal/platform/logger"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPersistence     = errors.New("persistence error")
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  logger.OrNop(log).With(map[string]any{"module": "swipes"}),
		now:  time.Now,
	}
}

// Record hace upsert de (petID -> acción) en el historial del usuario.
// No toca favoritos: el "like implica favorito" lo resuelve discovery.
func (s *Service) Record(ctx context.Context, userID, petID, action string) (Record, error) {
	userID = strings.TrimSpace(userID)
	petID = strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return Record{}, ErrInvalidArgument
	}
	a, ok := ParseAction(action)
	if !ok {
		return Record{}, fmt.Errorf("%w: action must be like or pass", ErrInvalidArgument)
	}

	history, err := s.repo.Load(ctx, userID)
	if err != nil {
		return Record{}, fmt.Errorf("%w: load swipe history: %v", ErrPersistence, err)
	}
	if history == nil {
		history = map[string]Record{}
	}

	rec := Record{PetID: petID, Action: a, Timestamp: s.now().UTC()}
	history[petID] = rec

	if err := s.repo.Save(ctx, userID, history); err != nil {
		return Record{}, fmt.Errorf("%w: save swipe history: %v", ErrPersistence, err)
	}
	return rec, nil
}

// Swiped devuelve el conjunto de mascotas ya decididas por el usuario.
func (s *Service) Swiped(ctx context.Context, userID string) (map[string]struct{}, error) {
	history, err := s.repo.Load(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: load swipe history: %v", ErrPersistence, err)
	}
	out := make(map[string]struct{}, len(history))
	for petID := range history {
		out[petID] = struct{}{}
	}
	return out, nil
}

// History devuelve el historial, más reciente primero. Ante error de lectura devuelve vacío.
func (s *Service) History(ctx context.Context, userID string) []Record {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []Record{}
	}

	history, err := s.repo.Load(ctx, userID)
	if err != nil {
		s.log.Warn("swipe history read degraded to empty", map[string]any{"user_id": userID, "err": err})
		return []Record{}
	}

	out := make([]Record, 0, len(history))
	for _, rec := range history {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].PetID < out[j].PetID
	})
	return out
}

// Clear borra el historial de todos los usuarios.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear swipe history: %v", ErrPersistence, err)
	}
	return nil
}
