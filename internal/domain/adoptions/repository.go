package adoptions

import (
	"context"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"
)

// Store es el acceso a datos del flujo. Todas las escrituras pasan por WithTx:
// si fn devuelve error no queda nada persistido.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetView(ctx context.Context, id string) (RequestView, error)
	ListViews(ctx context.Context, filter ListFilter) ([]RequestView, error)
	ListHistory(ctx context.Context, requestID string) ([]HistoryEntry, error)
	ListMessages(ctx context.Context, requestID string, includeInternal bool) ([]Message, error)
	// GetVisit devuelve nil, nil si la solicitud no tiene visita.
	GetVisit(ctx context.Context, requestID string) (*Visit, error)

	Stats(ctx context.Context, window StatsWindow) (StatsCounts, error)
}

// Tx son las operaciones dentro de una transacción. Los errores de "no existe"
// envuelven ErrNotFound (solicitud) o animals.ErrNotFound (animal).
type Tx interface {
	// LockRequest lee la solicitud bloqueándola hasta el fin de la transacción.
	LockRequest(ctx context.Context, id string) (Request, error)
	// LockAnimal serializa altas concurrentes sobre el mismo animal.
	LockAnimal(ctx context.Context, id string) (animals.Animal, error)
	HasActiveRequest(ctx context.Context, applicantID, animalID string) (bool, error)

	CreateAnimal(ctx context.Context, a animals.Animal) error
	SetAnimalAvailability(ctx context.Context, animalID string, a animals.Availability, at time.Time) error

	// CreateRequest devuelve ErrDuplicateActive si ya hay una activa para (usuario, animal).
	CreateRequest(ctx context.Context, r Request) error
	UpdateRequest(ctx context.Context, r Request) error

	AppendHistory(ctx context.Context, h HistoryEntry) error
	AddMessage(ctx context.Context, m Message) error
	CreateNotification(ctx context.Context, n notifications.Notification) error
	// SaveVisit inserta o reemplaza la visita de v.RequestID.
	SaveVisit(ctx context.Context, v Visit) error
}

type ListFilter struct {
	ApplicantID string // vacío = todos (admin)
	State       State
	Kind        Kind
	AnimalID    string
	Search      string // nombre/apellido/email del solicitante o nombre del animal
	From        *time.Time
	To          *time.Time // exclusivo
}

// StatsWindow fija los cortes temporales para que el store no dependa del reloj.
type StatsWindow struct {
	WeekStart  time.Time
	MonthStart time.Time
	MonthEnd   time.Time
}

type StatsCounts struct {
	ByState           map[State]int
	CreatedSince      int
	ApprovedInMonth   int
	AvgReviewDays     float64
	HasReviewedSample bool
}
