package pets

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/platform/logger"
)

type Service struct {
	repo  Repository
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		log:   logger.OrNop(log).With(map[string]any{"module": "pets"}),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Owner identifica a quien publica la mascota.
type Owner struct {
	ID    string
	Email string
	Name  string
}

type CreateInput struct {
	Name            string
	Breed           string
	Age             string
	Description     string
	Location        string
	Gender          string
	Color           string
	Weight          string
	Images          []string
	Vaccinated      *bool
	Sterilized      *bool
	MedicalInfo     string
	PersonalityTags []string
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Name            *string
	Breed           *string
	Age             *string
	Description     *string
	Location        *string
	Gender          *string
	Color           *string
	Weight          *string
	Images          *[]string
	Vaccinated      *bool
	Sterilized      *bool
	MedicalInfo     *string
	PersonalityTags *[]string
	AdoptionStatus  *string
}

func (s *Service) Create(ctx context.Context, owner Owner, in CreateInput) (Pet, error) {
	now := s.now().UTC()

	p := Pet{
		ID:              s.newID(),
		OwnerID:         strings.TrimSpace(owner.ID),
		OwnerEmail:      strings.TrimSpace(owner.Email),
		OwnerName:       cleanText(owner.Name),
		Name:            cleanText(in.Name),
		Breed:           cleanText(in.Breed),
		Description:     cleanText(in.Description),
		Location:        cleanText(in.Location),
		Gender:          Gender(normalizeGender(in.Gender)),
		Color:           cleanText(in.Color),
		Weight:          cleanText(in.Weight),
		Images:          cleanList(in.Images),
		Vaccinated:      in.Vaccinated != nil && *in.Vaccinated,
		Sterilized:      in.Sterilized != nil && *in.Sterilized,
		MedicalInfo:     cleanText(in.MedicalInfo),
		PersonalityTags: normalizeTags(in.PersonalityTags),
		AdoptionStatus:  StatusAvailable,
		IsActive:        true,
		DateAdded:       now,
	}
	if p.MedicalInfo == "" {
		p.MedicalInfo = DefaultMedicalInfo
	}

	ageText := strings.TrimSpace(in.Age)
	if err := s.validate(&p, &ageText); err != nil {
		return Pet{}, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, persistenceErr("create", err)
	}

	s.log.Info("pet created", map[string]any{"pet_id": p.ID, "owner_id": p.OwnerID})
	return p, nil
}

// validate valida el registro completo y, si ageText es válido, lo asigna a p.Age.
// ageText nil = la edad no cambia; se conserva tal cual aunque sea texto viejo.
func (s *Service) validate(p *Pet, ageText *string) error {
	var verr ValidationError

	f := fieldsOf(*p)
	if ageText != nil {
		f.Age = *ageText
	}
	f.check(&verr)

	if ageText != nil && *ageText != "" {
		age, err := ParseAge(*ageText)
		if err != nil {
			verr.add("age", err.Error())
		} else {
			p.Age = age
		}
	}

	if !verr.empty() {
		return &verr
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}

	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Pet{}, ErrNotFound
	}
	if err != nil {
		return Pet{}, persistenceErr("get", err)
	}
	return p, nil
}

// Update aplica el patch. id, ownerId y dateAdded nunca cambian.
func (s *Service) Update(ctx context.Context, id, requestingUserID string, in UpdateInput) (Pet, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := authorize(current, requestingUserID); err != nil {
		return Pet{}, err
	}

	p := current
	p.Images = append([]string(nil), current.Images...)
	p.PersonalityTags = append([]string(nil), current.PersonalityTags...)

	if in.Name != nil {
		p.Name = cleanText(*in.Name)
	}
	if in.Breed != nil {
		p.Breed = cleanText(*in.Breed)
	}
	if in.Description != nil {
		p.Description = cleanText(*in.Description)
	}
	if in.Location != nil {
		p.Location = cleanText(*in.Location)
	}
	if in.Gender != nil {
		p.Gender = Gender(normalizeGender(*in.Gender))
	}
	if in.Color != nil {
		p.Color = cleanText(*in.Color)
	}
	if in.Weight != nil {
		p.Weight = cleanText(*in.Weight)
	}
	if in.Images != nil {
		p.Images = cleanList(*in.Images)
	}
	if in.Vaccinated != nil {
		p.Vaccinated = *in.Vaccinated
	}
	if in.Sterilized != nil {
		p.Sterilized = *in.Sterilized
	}
	if in.MedicalInfo != nil {
		p.MedicalInfo = cleanText(*in.MedicalInfo)
		if p.MedicalInfo == "" {
			p.MedicalInfo = DefaultMedicalInfo
		}
	}
	if in.PersonalityTags != nil {
		p.PersonalityTags = normalizeTags(*in.PersonalityTags)
	}
	if in.AdoptionStatus != nil {
		p.AdoptionStatus = AdoptionStatus(strings.ToLower(strings.TrimSpace(*in.AdoptionStatus)))
	}

	var ageText *string
	if in.Age != nil {
		v := strings.TrimSpace(*in.Age)
		ageText = &v
	}
	if err := s.validate(&p, ageText); err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	p.DateUpdated = &now

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, persistenceErr("update", err)
	}
	return p, nil
}

// SoftDelete marca la mascota como inactiva. Nunca la borra físicamente.
// Si ya estaba inactiva devuelve true y conserva la fecha del primer borrado.
func (s *Service) SoftDelete(ctx context.Context, id, requestingUserID string) (bool, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := authorize(p, requestingUserID); err != nil {
		return false, err
	}
	if !p.IsActive {
		return true, nil
	}

	now := s.now().UTC()
	p.IsActive = false
	p.DateDeleted = &now

	if err := s.repo.Update(ctx, p); err != nil {
		return false, persistenceErr("soft delete", err)
	}

	s.log.Info("pet deactivated", map[string]any{"pet_id": p.ID})
	return true, nil
}

// Las consultas de lectura no propagan errores: se registran y devuelven vacío.

func (s *Service) AllActive(ctx context.Context) []Pet {
	return s.active(ctx, "all_active", func(Pet) bool { return true })
}

// AvailableFor es el pool de adopción visible para un usuario: nunca incluye sus propias mascotas.
func (s *Service) AvailableFor(ctx context.Context, excludeUserID string) []Pet {
	excludeUserID = strings.TrimSpace(excludeUserID)
	return s.active(ctx, "available_for", func(p Pet) bool {
		return p.AdoptionStatus == StatusAvailable && p.OwnerID != excludeUserID
	})
}

func (s *Service) OwnedBy(ctx context.Context, userID string) []Pet {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []Pet{}
	}
	return s.active(ctx, "owned_by", func(p Pet) bool { return p.OwnerID == userID })
}

// Search busca sobre las mascotas disponibles. query es substring case-insensitive en
// nombre, raza, descripción y ubicación; los filtros de texto son igualdad case-insensitive.
func (s *Service) Search(ctx context.Context, query string, f Filters) []Pet {
	q := strings.ToLower(strings.TrimSpace(query))
	breed := strings.TrimSpace(f.Breed)
	gender := strings.TrimSpace(f.Gender)
	location := strings.TrimSpace(f.Location)

	return s.active(ctx, "search", func(p Pet) bool {
		if p.AdoptionStatus != StatusAvailable {
			return false
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Breed), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Location), q) {
			return false
		}
		if breed != "" && !strings.EqualFold(p.Breed, breed) {
			return false
		}
		if gender != "" && !strings.EqualFold(string(p.Gender), gender) {
			return false
		}
		if location != "" && !strings.EqualFold(p.Location, location) {
			return false
		}
		if f.Vaccinated != nil && p.Vaccinated != *f.Vaccinated {
			return false
		}
		if f.Sterilized != nil && p.Sterilized != *f.Sterilized {
			return false
		}
		return true
	})
}

func (s *Service) active(ctx context.Context, op string, keep func(Pet) bool) []Pet {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn("pet listing degraded to empty", map[string]any{"op": op, "err": err})
		return []Pet{}
	}

	out := make([]Pet, 0, len(all))
	for _, p := range all {
		if p.IsActive && keep(p) {
			out = append(out, p)
		}
	}

	// Más recientes primero; id como desempate para orden estable.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateAdded.Equal(out[j].DateAdded) {
			return out[i].DateAdded.After(out[j].DateAdded)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Seed instala las mascotas de demostración si el catálogo está vacío.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, persistenceErr("seed", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	n := 0
	for _, p := range demoPets() {
		if err := s.repo.Create(ctx, p); err != nil {
			return n, persistenceErr("seed", err)
		}
		n++
	}

	s.log.Info("demo pets seeded", map[string]any{"count": n})
	return n, nil
}

// Reset borra todo el catálogo (incluidas las inactivas) y vuelve a sembrar.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return persistenceErr("reset", err)
	}
	_, err := s.Seed(ctx)
	return err
}
