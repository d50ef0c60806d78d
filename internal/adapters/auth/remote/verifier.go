package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/platform/httpclient"
	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"
)

var ErrNotConfigured = errors.New("remote auth not configured")

const verifyPath = "/v1/tokens/verify"

// Config del servicio de credenciales remoto.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Verifier implementa auth.AuthVerifier delegando en un servicio
// de identidad que responde {user_id, email, is_admin}.
type Verifier struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	c, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	return &Verifier{
		http:         c,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

type verifyResponse struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Expired bool   `json:"expired"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.http == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if v.apiKey != "" {
		headers[v.apiKeyHeader] = v.apiKey
	}

	var out verifyResponse
	err := v.http.DoJSON(ctx, http.MethodPost, verifyPath, headers, map[string]string{"token": token}, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && (he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden) {
			return auth.Claims{}, fmt.Errorf("remote verify: %w", auth.ErrInvalidToken)
		}
		return auth.Claims{}, fmt.Errorf("remote verify: %w", err)
	}
	if out.Expired {
		return auth.Claims{}, fmt.Errorf("remote verify: %w", auth.ErrExpiredToken)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("remote verify: %w: missing user_id", auth.ErrInvalidToken)
	}

	return auth.Claims{
		UserID:  out.UserID,
		Email:   strings.TrimSpace(out.Email),
		IsAdmin: out.IsAdmin,
	}, nil
}
