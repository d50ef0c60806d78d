package postgres

import (
	"context"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/adoptions"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ adoptions.Store          = (*Store)(nil)
	_ animals.Repository       = (*Store)(nil)
	_ notifications.Repository = (*Store)(nil)
	_ users.Directory          = (*Store)(nil)
)

// Store implementa los puertos de dominio sobre un pool inyectado.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx adoptions.Tx) error) error {
	return withTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

// Ping para /health.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
