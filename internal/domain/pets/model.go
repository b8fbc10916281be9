package pets

import "time"

// Gender define el sexo de la mascota.
// @Enum Macho, Hembra
type Gender string

const (
	GenderMale   Gender = "Macho"
	GenderFemale Gender = "Hembra"
)

// AdoptionStatus define el estado de adopción.
// @Enum available, pending, adopted
type AdoptionStatus string

const (
	StatusAvailable AdoptionStatus = "available"
	StatusPending   AdoptionStatus = "pending"
	StatusAdopted   AdoptionStatus = "adopted"
)

// DefaultMedicalInfo se usa cuando el dueño no informa nada.
const DefaultMedicalInfo = "No especificado"

// SystemOwnerID es el dueño de las mascotas de demostración.
const SystemOwnerID = "system"

// Pet representa un anuncio de adopción.
type Pet struct {
	ID string

	OwnerID    string
	OwnerEmail string
	OwnerName  string

	Name        string
	Breed       string
	Age         Age
	Description string
	Location    string
	Gender      Gender
	Color       string
	Weight      string
	Images      []string

	Vaccinated      bool
	Sterilized      bool
	MedicalInfo     string
	PersonalityTags []string
	AdoptionStatus  AdoptionStatus

	IsActive    bool
	DateAdded   time.Time
	DateUpdated *time.Time
	DateDeleted *time.Time
}

// Filters son los filtros exactos de Search. Vacío / nil = no filtrar.
type Filters struct {
	Breed      string
	Gender     string
	Location   string
	Vaccinated *bool
	Sterilized *bool
}
