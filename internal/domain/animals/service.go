package animals

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List por defecto muestra solo animales publicados.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Animal, error) {
	if filter.Availability == "" {
		filter.Availability = AvailabilityAvailable
	}
	if !filter.Availability.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, filter)
}

