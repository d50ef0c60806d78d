package jwtauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"

	"github.com/golang-jwt/jwt/v4"
)

// Claims es el payload que emite el servicio de login
// ({id_usuario, email, es_admin} + registered claims). El login firma
// id_usuario como número y es_admin como 0/1 (columnas int/tinyint).
type Claims struct {
	UserID  UserID    `json:"id_usuario"`
	Email   string    `json:"email"`
	IsAdmin AdminFlag `json:"es_admin"`
	jwt.RegisteredClaims
}

// UserID acepta string o número JSON.
type UserID string

func (u *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*u = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UserID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id_usuario: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// AdminFlag acepta true/false, 0/1 y sus versiones string.
type AdminFlag bool

func (a *AdminFlag) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	switch strings.ToLower(raw) {
	case "", "null":
		*a = false
		return nil
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		*a = AdminFlag(v)
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("es_admin: valor inválido %q", raw)
	}
	*a = n != 0
	return nil
}

// Verifier implementa auth.AuthVerifier con HS256 y secreto compartido.
type Verifier struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwtauth: secret required")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Verifier{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (v *Verifier) Verify(_ context.Context, raw string) (auth.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	var c Claims
	token, err := parser.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return auth.Claims{}, fmt.Errorf("jwtauth: %w", auth.ErrExpiredToken)
		}
		return auth.Claims{}, fmt.Errorf("jwtauth: %w: %v", auth.ErrInvalidToken, err)
	}
	if !token.Valid {
		return auth.Claims{}, fmt.Errorf("jwtauth: %w", auth.ErrInvalidToken)
	}

	userID := strings.TrimSpace(string(c.UserID))
	if userID == "" {
		userID = strings.TrimSpace(c.Subject)
	}
	if userID == "" {
		return auth.Claims{}, fmt.Errorf("jwtauth: %w: missing user id", auth.ErrInvalidToken)
	}

	return auth.Claims{
		UserID:  userID,
		Email:   strings.TrimSpace(c.Email),
		IsAdmin: bool(c.IsAdmin),
	}, nil
}

// Issue firma un token para claims. Lo usa el login (fuera de este servicio)
// y los tests.
func (v *Verifier) Issue(c auth.Claims) (string, error) {
	now := v.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:  UserID(c.UserID),
		Email:   c.Email,
		IsAdmin: AdminFlag(c.IsAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	})
	return token.SignedString(v.secret)
}
