package notifications

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("notification not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Category string

const (
	CategoryRequest Category = "request"
)

// Notification es un aviso para un usuario. Se escribe como efecto de
// una transición de solicitud y solo se lee desde /me/notifications.
type Notification struct {
	ID       string
	UserID   string
	Title    string
	Body     string
	Category Category

	// RequestID referencia la solicitud que la originó (puede ir vacío).
	RequestID string

	Read      bool
	CreatedAt time.Time
	ReadAt    *time.Time
}

type Repository interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]Notification, error)
	// MarkRead devuelve ErrNotFound si la notificación no es del usuario.
	MarkRead(ctx context.Context, id, userID string, at time.Time) (Notification, error)
}
