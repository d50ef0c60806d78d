package memory

import (
	"context"
	"sort"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
)

func (s *Store) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data.animals[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (s *Store) List(ctx context.Context, filter animals.ListFilter) ([]animals.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range s.data.animals {
		if filter.Availability != "" && a.Availability != filter.Availability {
			continue
		}
		if filter.Species != "" && a.Species != filter.Species {
			continue
		}
		out = append(out, a)
	}

	// Más recientes primero; ID como desempate para que el orden sea estable.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IntakeDate.Equal(out[j].IntakeDate) {
			return out[i].IntakeDate.After(out[j].IntakeDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
