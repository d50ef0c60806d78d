package postgres

import (
	"context"
	"errors"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/users"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, last_name, email, is_admin`

func scanUser(row pgx.Row) (users.User, error) {
	var u users.User
	if err := row.Scan(&u.ID, &u.Name, &u.LastName, &u.Email, &u.IsAdmin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}

func (s *Store) Get(ctx context.Context, id string) (users.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) FirstAdmin(ctx context.Context) (users.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE is_admin
		ORDER BY created_at, id
		LIMIT 1
	`))
}
