package adoptions

import (
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
)

// Kind distingue adoptar un animal publicado de ofrecer uno nuevo.
// @Enum adopt, offer
type Kind string

const (
	KindAdopt Kind = "adopt"
	KindOffer Kind = "offer"
)

func (k Kind) Valid() bool {
	return k == KindAdopt || k == KindOffer
}

// Household son los datos del hogar declarados al crear la solicitud.
// No se modifican después.
type Household struct {
	HousingType          string
	HasYard              bool
	HasOtherPets         bool
	OtherPetsDescription string
	Motivation           string
	Experience           string
}

type Request struct {
	ID          string
	ApplicantID string
	AnimalID    string

	Kind  Kind
	State State

	Household Household

	// ReviewerID es el último admin que movió la solicitud; recibe los
	// mensajes del solicitante.
	ReviewerID string

	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectedBy      string
	RejectedAt      *time.Time
	RejectionReason string

	CreatedAt  time.Time
	ReviewedAt *time.Time
	UpdatedAt  time.Time
}

// Active: ocupa el cupo único por (usuario, animal).
func (r Request) Active() bool {
	return !r.State.Terminal()
}

type AnimalSnapshot struct {
	ID           string
	Name         string
	Species      animals.Species
	Breed        string
	AgeYears     *int
	AgeMonths    *int
	ImageURL     string
	Availability animals.Availability
}

// RequestView es la solicitud con los joins de lectura (animal y solicitante).
type RequestView struct {
	Request

	Animal AnimalSnapshot

	ApplicantName  string
	ApplicantEmail string
	ReviewerName   string
}

// HistoryEntry es append-only. From es nil en la fila de creación.
type HistoryEntry struct {
	ID        string
	RequestID string
	From      *State
	To        State
	ActorID   string
	ActorName string
	Note      string
	CreatedAt time.Time
}

type Message struct {
	ID          string
	RequestID   string
	SenderID    string
	SenderName  string
	RecipientID string
	Body        string
	Internal    bool
	CreatedAt   time.Time
}

// Visit es la visita domiciliaria que se agenda al pasar a visit_scheduled.
// Hay una por solicitud: reagendar reemplaza fecha, voluntario y notas.
type Visit struct {
	ID              string
	RequestID       string
	ScheduledFor    time.Time
	VolunteerID     string
	VolunteerName   string
	ScheduledBy     string
	ScheduledByName string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Detail struct {
	Request  RequestView
	History  []HistoryEntry
	Messages []Message
	// Visit solo viaja en la vista admin; nil si no hay visita.
	Visit *Visit
}
