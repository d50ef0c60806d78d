package memory

import (
	"context"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"
)

func (s *Store) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notifications.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notifications.Notification, 0)
	// Se recorre al revés: el slice está en orden de creación.
	for i := len(s.data.notifications) - 1; i >= 0; i-- {
		n := s.data.notifications[i]
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *Store) MarkRead(ctx context.Context, id, userID string, at time.Time) (notifications.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.notifications {
		n := &s.data.notifications[i]
		if n.ID != id || n.UserID != userID {
			continue
		}
		if !n.Read {
			n.Read = true
			n.ReadAt = &at
		}
		return *n, nil
	}
	return notifications.Notification{}, notifications.ErrNotFound
}
