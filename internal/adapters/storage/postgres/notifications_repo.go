package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"

	"github.com/jackc/pgx/v5"
)

const notificationColumns = `id, user_id, title, body, category, request_id, read, created_at, read_at`

func scanNotification(row pgx.Row) (notifications.Notification, error) {
	var (
		n         notifications.Notification
		requestID *string
	)
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Category, &requestID, &n.Read, &n.CreatedAt, &n.ReadAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notifications.Notification{}, notifications.ErrNotFound
		}
		return notifications.Notification{}, err
	}
	n.RequestID = deref(requestID)
	return n, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]notifications.Notification, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR NOT read)
		ORDER BY created_at DESC, id
	`, userID, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead conserva el primer read_at.
func (s *Store) MarkRead(ctx context.Context, id, userID string, at time.Time) (notifications.Notification, error) {
	return scanNotification(s.pool.QueryRow(ctx, `
		UPDATE notifications
		SET read = TRUE, read_at = COALESCE(read_at, $3)
		WHERE id = $1 AND user_id = $2
		RETURNING `+notificationColumns,
		id, userID, at,
	))
}

func insertNotification(ctx context.Context, q querier, n notifications.Notification) error {
	_, err := q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, body, category, request_id, read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, n.ID, n.UserID, n.Title, n.Body, n.Category, nullString(n.RequestID), n.Read, n.CreatedAt)
	return err
}
