package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// AuthVerifier verifica un bearer token y devuelve claims.
// Los errores deben envolver ErrInvalidToken o ErrExpiredToken.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
