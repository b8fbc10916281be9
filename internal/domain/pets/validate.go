package pets

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar errores con el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// petFields es la vista validable de una mascota, tanto al crear como tras un PATCH.
type petFields struct {
	OwnerID         string   `json:"ownerId" validate:"required"`
	OwnerEmail      string   `json:"ownerEmail" validate:"required,email"`
	Name            string   `json:"name" validate:"required,max=50"`
	Breed           string   `json:"breed" validate:"required,max=80"`
	Age             string   `json:"age" validate:"required"`
	Description     string   `json:"description" validate:"required,max=500"`
	Location        string   `json:"location" validate:"required,max=120"`
	Gender          string   `json:"gender" validate:"omitempty,oneof=Macho Hembra"`
	Color           string   `json:"color" validate:"max=50"`
	Weight          string   `json:"weight" validate:"max=20"`
	MedicalInfo     string   `json:"medicalInfo" validate:"max=500"`
	AdoptionStatus  string   `json:"adoptionStatus" validate:"required,oneof=available pending adopted"`
	Images          []string `json:"images" validate:"max=10,dive,uri"`
	PersonalityTags []string `json:"personalityTags" validate:"max=20,dive,max=30"`
}

func fieldsOf(p Pet) petFields {
	return petFields{
		OwnerID:         p.OwnerID,
		OwnerEmail:      p.OwnerEmail,
		Name:            p.Name,
		Breed:           p.Breed,
		Age:             p.Age.String(),
		Description:     p.Description,
		Location:        p.Location,
		Gender:          string(p.Gender),
		Color:           p.Color,
		Weight:          p.Weight,
		MedicalInfo:     p.MedicalInfo,
		AdoptionStatus:  string(p.AdoptionStatus),
		Images:          p.Images,
		PersonalityTags: p.PersonalityTags,
	}
}

func (f petFields) check(verr *ValidationError) {
	err := validate.Struct(f)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("_", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uri":
		return "must be a valid URI"
	case "email":
		return "must be a valid email"
	default:
		return "is invalid"
	}
}
