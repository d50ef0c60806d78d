package memory

import (
	"context"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/users"
)

func (s *Store) Get(ctx context.Context, id string) (users.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (s *Store) FirstAdmin(ctx context.Context) (users.User, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	for _, u := range s.users {
		if u.IsAdmin {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

// lookupUser no falla: sin usuario devuelve el valor cero (joins opcionales).
func (s *Store) lookupUser(id string) users.User {
	if id == "" {
		return users.User{}
	}
	u, _ := s.Get(context.Background(), id)
	return u
}
