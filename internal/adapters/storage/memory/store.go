package memory

import (
	"context"
	"sync"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/adoptions"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/users"
)

var (
	_ adoptions.Store          = (*Store)(nil)
	_ animals.Repository       = (*Store)(nil)
	_ notifications.Repository = (*Store)(nil)
	_ users.Directory          = (*Store)(nil)
)

// Store guarda todo en memoria (dev y tests). Implementa los puertos de
// adoptions, animals, notifications y users sobre el mismo estado para que
// las transacciones abarquen varias entidades.
//
// WithTx toma el lock de escritura, trabaja sobre una copia y la publica solo
// si fn no falla. Eso serializa las transacciones igual que un FOR UPDATE.
type Store struct {
	mu   sync.RWMutex
	data *state

	// users va aparte: el directorio se consulta desde dentro de WithTx.
	usersMu sync.RWMutex
	users   []users.User
}

type state struct {
	animals       map[string]animals.Animal
	requests      map[string]adoptions.Request
	visits        map[string]adoptions.Visit // por request id
	history       []adoptions.HistoryEntry
	messages      []adoptions.Message
	notifications []notifications.Notification
}

func New() *Store {
	return &Store{
		data: &state{
			animals:  make(map[string]animals.Animal),
			requests: make(map[string]adoptions.Request),
			visits:   make(map[string]adoptions.Visit),
		},
	}
}

func (d *state) clone() *state {
	c := &state{
		animals:       make(map[string]animals.Animal, len(d.animals)),
		requests:      make(map[string]adoptions.Request, len(d.requests)),
		visits:        make(map[string]adoptions.Visit, len(d.visits)),
		history:       append([]adoptions.HistoryEntry(nil), d.history...),
		messages:      append([]adoptions.Message(nil), d.messages...),
		notifications: append([]notifications.Notification(nil), d.notifications...),
	}
	for k, v := range d.animals {
		c.animals[k] = v
	}
	for k, v := range d.requests {
		c.requests[k] = v
	}
	for k, v := range d.visits {
		c.visits[k] = v
	}
	return c
}

func (s *Store) WithTx(ctx context.Context, fn func(tx adoptions.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.data.clone()
	if err := fn(&memTx{d: snap}); err != nil {
		return err
	}
	s.data = snap
	return nil
}

// SeedUser registra un usuario en el directorio. El orden de alta define
// el "admin más antiguo".
func (s *Store) SeedUser(u users.User) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			return
		}
	}
	s.users = append(s.users, u)
}

// SeedAnimal da de alta un animal fuera del flujo de solicitudes (catálogo).
func (s *Store) SeedAnimal(a animals.Animal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.animals[a.ID] = a
}
