package animals

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("animal not found")

// Repository cubre las lecturas públicas; las escrituras de disponibilidad
// ocurren dentro de las transacciones de adoptions.
type Repository interface {
	GetByID(ctx context.Context, id string) (Animal, error)
	List(ctx context.Context, filter ListFilter) ([]Animal, error)
}

type ListFilter struct {
	Availability Availability // vacío = todas
	Species      Species
}
