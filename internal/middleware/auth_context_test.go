package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]auth.Claims

func (s stubVerifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	switch token {
	case "expired":
		return auth.Claims{}, fmt.Errorf("stub: %w", auth.ErrExpiredToken)
	}
	c, ok := s[token]
	if !ok {
		return auth.Claims{}, auth.ErrInvalidToken
	}
	return c, nil
}

func serve(t *testing.T, v auth.AuthVerifier, guard func(http.Handler) http.Handler, headers map[string]string) (int, string) {
	t.Helper()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := GetClaims(r.Context())
		_, _ = w.Write([]byte(c.UserID))
	})
	h := AuthContext(v)(guard(ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, val := range headers {
		req.Header.Set(k, val)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body["error"]
	}
	return rec.Code, rec.Body.String()
}

func TestRequireUser_WithVerifier(t *testing.T) {
	v := stubVerifier{"t-user": {UserID: "u-1"}, "t-admin": {UserID: "a-1", IsAdmin: true}}

	st, body := serve(t, v, RequireUser, map[string]string{"Authorization": "Bearer t-user"})
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "u-1", body)

	st, body = serve(t, v, RequireUser, nil)
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "No se proporcionó token de autenticación", body)

	st, body = serve(t, v, RequireUser, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "Token inválido", body)

	st, body = serve(t, v, RequireUser, map[string]string{"Authorization": "Bearer expired"})
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "Token expirado", body)
}

func TestRequireAdmin(t *testing.T) {
	v := stubVerifier{"t-user": {UserID: "u-1"}, "t-admin": {UserID: "a-1", IsAdmin: true}}

	st, _ := serve(t, v, RequireAdmin, map[string]string{"Authorization": "Bearer t-user"})
	assert.Equal(t, http.StatusForbidden, st)

	st, body := serve(t, v, RequireAdmin, map[string]string{"Authorization": "Bearer t-admin"})
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "a-1", body)

	st, _ = serve(t, v, RequireAdmin, nil)
	assert.Equal(t, http.StatusUnauthorized, st)
}

func TestAuthContext_DevHeaders(t *testing.T) {
	st, body := serve(t, nil, RequireAdmin, map[string]string{
		"X-Debug-User-ID": "a-9",
		"X-Debug-Admin":   "true",
	})
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "a-9", body)

	st, _ = serve(t, nil, RequireAdmin, map[string]string{"X-Debug-User-ID": "u-9"})
	assert.Equal(t, http.StatusForbidden, st)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("bearer abc"))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("Bearer"))
}
