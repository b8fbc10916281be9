package kvrepo

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/ports/kv"
)

type petRecord struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Breed           string     `json:"breed"`
	Age             string     `json:"age"`
	AgeValue        int        `json:"ageValue"`
	AgeUnit         string     `json:"ageUnit"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Gender          string     `json:"gender,omitempty"`
	Color           string     `json:"color,omitempty"`
	Weight          string     `json:"weight,omitempty"`
	Images          []string   `json:"images"`
	Vaccinated      bool       `json:"vaccinated"`
	Sterilized      bool       `json:"sterilized"`
	MedicalInfo     string     `json:"medicalInfo"`
	PersonalityTags []string   `json:"personalityTags"`
	AdoptionStatus  string     `json:"adoptionStatus"`
	OwnerID         string     `json:"ownerId"`
	OwnerEmail      string     `json:"ownerEmail"`
	OwnerName       string     `json:"ownerName,omitempty"`
	DateAdded       time.Time  `json:"dateAdded"`
	DateUpdated     *time.Time `json:"dateUpdated,omitempty"`
	DateDeleted     *time.Time `json:"dateDeleted,omitempty"`
	IsActive        bool       `json:"isActive"`
}

func toPetRecord(p pets.Pet) petRecord {
	return petRecord{
		ID:              p.ID,
		Name:            p.Name,
		Breed:           p.Breed,
		Age:             p.Age.String(),
		AgeValue:        p.Age.Value,
		AgeUnit:         string(p.Age.Unit),
		Description:     p.Description,
		Location:        p.Location,
		Gender:          string(p.Gender),
		Color:           p.Color,
		Weight:          p.Weight,
		Images:          p.Images,
		Vaccinated:      p.Vaccinated,
		Sterilized:      p.Sterilized,
		MedicalInfo:     p.MedicalInfo,
		PersonalityTags: p.PersonalityTags,
		AdoptionStatus:  string(p.AdoptionStatus),
		OwnerID:         p.OwnerID,
		OwnerEmail:      p.OwnerEmail,
		OwnerName:       p.OwnerName,
		DateAdded:       p.DateAdded,
		DateUpdated:     p.DateUpdated,
		DateDeleted:     p.DateDeleted,
		IsActive:        p.IsActive,
	}
}

func (r petRecord) toPet() pets.Pet {
	age := pets.Age{Value: r.AgeValue}
	if unit, ok := pets.ParseAgeUnit(r.AgeUnit); ok {
		age.Unit = unit
	} else if parsed, err := pets.ParseAge(r.Age); err == nil {
		// Registros con solo el texto libre ("2 años").
		age = parsed
	} else {
		age = pets.LegacyAge(r.Age)
	}

	images := r.Images
	if images == nil {
		images = []string{}
	}
	tags := r.PersonalityTags
	if tags == nil {
		tags = []string{}
	}

	return pets.Pet{
		ID:              r.ID,
		OwnerID:         r.OwnerID,
		OwnerEmail:      r.OwnerEmail,
		OwnerName:       r.OwnerName,
		Name:            r.Name,
		Breed:           r.Breed,
		Age:             age,
		Description:     r.Description,
		Location:        r.Location,
		Gender:          pets.Gender(r.Gender),
		Color:           r.Color,
		Weight:          r.Weight,
		Images:          images,
		Vaccinated:      r.Vaccinated,
		Sterilized:      r.Sterilized,
		MedicalInfo:     r.MedicalInfo,
		PersonalityTags: tags,
		AdoptionStatus:  pets.AdoptionStatus(r.AdoptionStatus),
		IsActive:        r.IsActive,
		DateAdded:       r.DateAdded,
		DateUpdated:     r.DateUpdated,
		DateDeleted:     r.DateDeleted,
	}
}

// PetRepo guarda cada mascota bajo @pets/<id>.
type PetRepo struct {
	store kv.Store
}

var _ pets.Repository = (*PetRepo)(nil)

func NewPetRepo(store kv.Store) *PetRepo {
	return &PetRepo{store: store}
}

func (r *PetRepo) Create(ctx context.Context, p pets.Pet) error {
	if p.ID == "" {
		return errors.New("pet id required")
	}
	_, err := r.store.Get(ctx, petPrefix+p.ID)
	if err == nil {
		return errors.Errorf("pet %s already exists", p.ID)
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return setJSON(ctx, r.store, petPrefix+p.ID, toPetRecord(p))
}

func (r *PetRepo) Update(ctx context.Context, p pets.Pet) error {
	if p.ID == "" {
		return errors.New("pet id required")
	}
	if _, err := r.store.Get(ctx, petPrefix+p.ID); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return pets.ErrNotFound
		}
		return err
	}
	return setJSON(ctx, r.store, petPrefix+p.ID, toPetRecord(p))
}

func (r *PetRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var rec petRecord
	if err := getJSON(ctx, r.store, petPrefix+id, &rec); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return rec.toPet(), nil
}

func (r *PetRepo) List(ctx context.Context) ([]pets.Pet, error) {
	keys, err := r.store.Keys(ctx, petPrefix)
	if err != nil {
		return nil, err
	}

	out := make([]pets.Pet, 0, len(keys))
	for _, k := range keys {
		var rec petRecord
		if err := getJSON(ctx, r.store, k, &rec); err != nil {
			// Borrada entre Keys y Get.
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, rec.toPet())
	}
	return out, nil
}

func (r *PetRepo) Clear(ctx context.Context) error {
	return deletePrefix(ctx, r.store, petPrefix)
}
