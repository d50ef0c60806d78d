package notifications

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) ListMine(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead es idempotente: marcar dos veces conserva el primer ReadAt.
func (s *Service) MarkRead(ctx context.Context, userID, id string) (Notification, error) {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	if userID == "" || id == "" {
		return Notification{}, ErrInvalidInput
	}
	return s.repo.MarkRead(ctx, id, userID, s.now())
}
