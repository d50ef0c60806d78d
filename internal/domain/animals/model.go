package animals

import "time"

// Availability es el estado de publicación del animal.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityInReview    Availability = "in_review" // ofrecido por un usuario, aún no publicado
	AvailabilityAdopted     Availability = "adopted"
	AvailabilityUnavailable Availability = "unavailable"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityInReview, AvailabilityAdopted, AvailabilityUnavailable:
		return true
	}
	return false
}

// Species define las especies soportadas.
// @Enum dog, cat, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// Sex define el sexo del animal.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Animal es el agregado del catálogo de adopción. El flujo de solicitudes
// solo lee su disponibilidad y la cambia como efecto de una transición.
type Animal struct {
	ID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex
	Size    string // small, medium, large (texto libre en el alta)

	AgeYears  *int
	AgeMonths *int

	Description  string
	HealthStatus string
	Vaccinated   bool
	Sterilized   bool
	ImageURL     string

	Availability Availability
	IntakeDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
