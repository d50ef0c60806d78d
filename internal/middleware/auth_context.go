package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey  ctxKey = "claims"
	authErrKey ctxKey = "auth_err"
)

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
//   Si falla, guarda el error para que RequireUser responda 401 con el motivo.
// - Si verifier == nil => modo dev: X-Debug-User-ID (+ X-Debug-Admin, X-Debug-Email).
// - Sin claims el request sigue igual; las rutas públicas no exigen auth.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					isAdmin, _ := strconv.ParseBool(strings.TrimSpace(r.Header.Get("X-Debug-Admin")))
					claims := auth.Claims{
						UserID:  uid,
						Email:   strings.TrimSpace(r.Header.Get("X-Debug-Email")),
						IsAdmin: isAdmin,
					}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				ctx := context.WithValue(r.Context(), authErrKey, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims se exporta para tests de handlers.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return auth.Claims{}, false
	}
	return c, true
}

// RequireUser corta con 401 si no hay claims válidas.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClaims(r.Context()); !ok {
			msg := "No se proporcionó token de autenticación"
			if err, _ := r.Context().Value(authErrKey).(error); err != nil {
				msg = "Token inválido"
				if errors.Is(err, auth.ErrExpiredToken) {
					msg = "Token expirado"
				}
			}
			writeError(w, http.StatusUnauthorized, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin incluye RequireUser; además exige el flag admin (403).
func RequireAdmin(next http.Handler) http.Handler {
	return RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := GetClaims(r.Context())
		if !c.IsAdmin {
			writeError(w, http.StatusForbidden, "Acceso denegado. Se requieren permisos de administrador.")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
