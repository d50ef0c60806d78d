package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/me/notifications", func(nr chi.Router) {
		nr.Use(middleware.RequireUser)
		nr.Get("/", listMyNotificationsHandler(svc))
		nr.Post("/{notificationID}/read", markReadHandler(svc))
	})
}

type notificationResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Category  Category   `json:"category"`
	RequestID string     `json:"request_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// listMyNotificationsHandler godoc
// @Summary Mis notificaciones
// @Description Notificaciones del usuario autenticado, más recientes primero.
// @Tags notifications
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param unread query bool false "solo no leídas"
// @Success 200 {array} notificationResponse
// @Failure 401 {object} map[string]string
// @Router /me/notifications [get]
func listMyNotificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))

		items, err := svc.ListMine(r.Context(), claims.UserID, unread)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error al obtener las notificaciones"})
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// markReadHandler godoc
// @Summary Marcar notificación como leída
// @Tags notifications
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param notificationID path string true "ID de la notificación"
// @Success 200 {object} notificationResponse
// @Failure 404 {object} map[string]string
// @Router /me/notifications/{notificationID}/read [post]
func markReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		n, err := svc.MarkRead(r.Context(), claims.UserID, chi.URLParam(r, "notificationID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "Notificación no encontrada"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Error al actualizar la notificación"})
			return
		}
		writeJSON(w, http.StatusOK, toNotificationResponse(n))
	}
}

func toNotificationResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Category:  n.Category,
		RequestID: n.RequestID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
