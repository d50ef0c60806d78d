package adoptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/middleware"
	"github.com/Jorge-dev09/backend-tienda/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type HandlerOptions struct {
	Logger logger.Logger
	// Dev agrega "detail" con el error crudo en las respuestas 500.
	Dev bool
}

type api struct {
	svc      *Service
	log      logger.Logger
	validate *validator.Validate
	dev      bool
}

func RegisterRoutes(r chi.Router, svc *Service, opts HandlerOptions) {
	a := &api{svc: svc, log: opts.Logger, validate: newValidator(), dev: opts.Dev}
	if a.log == nil {
		a.log = logger.Nop()
	}

	r.With(middleware.RequireUser).Post("/offer", a.createOfferHandler())

	r.Route("/requests", func(rr chi.Router) {
		rr.Group(func(ur chi.Router) {
			ur.Use(middleware.RequireUser)
			ur.Post("/", a.createRequestHandler())
			ur.Get("/mine", a.listMineHandler())
			ur.Get("/mine/{requestID}", a.getMineHandler())
			ur.Put("/{requestID}/cancel", a.cancelHandler())
			// Admin o solicitante; el service decide.
			ur.Post("/{requestID}/messages", a.addMessageHandler())
		})

		rr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Get("/admin/all", a.listAllHandler())
			ar.Get("/admin/stats", a.statsHandler())
			ar.Get("/admin/{requestID}", a.getAnyHandler())
			ar.Put("/admin/{requestID}/state", a.changeStateHandler())
			ar.Put("/{requestID}/approve-offer", a.approveOfferHandler())
		})
	})
}

// newValidator reporta los campos con su nombre JSON.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ---- DTOs ----

type householdRequest struct {
	HousingType          string `json:"housing_type" validate:"required,max=50"`
	HasYard              bool   `json:"has_yard"`
	HasOtherPets         bool   `json:"has_other_pets"`
	OtherPetsDescription string `json:"other_pets_description" validate:"max=1000"`
	Motivation           string `json:"motivation" validate:"required,max=2000"`
	Experience           string `json:"experience" validate:"max=2000"`
}

func (h householdRequest) toInput() HouseholdInput {
	return HouseholdInput{
		HousingType:          h.HousingType,
		HasYard:              h.HasYard,
		HasOtherPets:         h.HasOtherPets,
		OtherPetsDescription: h.OtherPetsDescription,
		Motivation:           h.Motivation,
		Experience:           h.Experience,
	}
}

type createRequestRequest struct {
	AnimalID string `json:"animal_id" validate:"required"`
	householdRequest
}

type offerAnimalRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Species      string `json:"species" validate:"required,oneof=dog cat other"`
	Breed        string `json:"breed" validate:"max=100"`
	Sex          string `json:"sex" validate:"omitempty,oneof=male female unknown"`
	Size         string `json:"size" validate:"omitempty,oneof=small medium large"`
	AgeYears     *int   `json:"age_years" validate:"omitempty,min=0,max=40"`
	AgeMonths    *int   `json:"age_months" validate:"omitempty,min=0,max=11"`
	Description  string `json:"description" validate:"max=2000"`
	HealthStatus string `json:"health_status" validate:"max=500"`
	Vaccinated   bool   `json:"vaccinated"`
	Sterilized   bool   `json:"sterilized"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
}

type createOfferRequest struct {
	Animal    offerAnimalRequest `json:"animal"`
	Household householdRequest   `json:"household"`
}

type changeStateRequest struct {
	State  string        `json:"state" validate:"required"`
	Note   string        `json:"note" validate:"max=2000"`
	Reason string        `json:"reason" validate:"max=2000"`
	Visit  *visitRequest `json:"visit"`
}

// visitRequest acompaña a state=visit_scheduled.
type visitRequest struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	VolunteerID  string    `json:"volunteer_id" validate:"max=64"`
	Notes        string    `json:"notes" validate:"max=2000"`
}

type approveOfferRequest struct {
	Note string `json:"note" validate:"max=2000"`
}

type addMessageRequest struct {
	Message  string `json:"message" validate:"max=5000"`
	Internal bool   `json:"internal"`
}

type createdResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	AnimalID string `json:"animal_id,omitempty"`
}

type messageOnlyResponse struct {
	Message string `json:"message"`
}

// changeStateResponse: state_nuevo repite new_state con la clave que leen los
// clientes existentes.
type changeStateResponse struct {
	Message       string `json:"message"`
	PreviousState State  `json:"previous_state"`
	NewState      State  `json:"new_state"`
	StateNuevo    State  `json:"state_nuevo"`
}

func newChangeStateResponse(msg string, res TransitionResult) changeStateResponse {
	return changeStateResponse{
		Message:       msg,
		PreviousState: res.Previous,
		NewState:      res.Request.State,
		StateNuevo:    res.Request.State,
	}
}

type animalSnapshotResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Species      animals.Species      `json:"species"`
	Breed        string               `json:"breed"`
	AgeYears     *int                 `json:"age_years,omitempty"`
	AgeMonths    *int                 `json:"age_months,omitempty"`
	ImageURL     string               `json:"image_url"`
	Availability animals.Availability `json:"availability"`
}

type householdResponse struct {
	HousingType          string `json:"housing_type"`
	HasYard              bool   `json:"has_yard"`
	HasOtherPets         bool   `json:"has_other_pets"`
	OtherPetsDescription string `json:"other_pets_description,omitempty"`
	Motivation           string `json:"motivation"`
	Experience           string `json:"experience,omitempty"`
}

type requestResponse struct {
	ID              string                 `json:"id"`
	Kind            Kind                   `json:"kind"`
	State           State                  `json:"state"`
	ApplicantID     string                 `json:"applicant_id"`
	ApplicantName   string                 `json:"applicant_name,omitempty"`
	ApplicantEmail  string                 `json:"applicant_email,omitempty"`
	ReviewerID      string                 `json:"reviewer_id,omitempty"`
	ReviewerName    string                 `json:"reviewer_name,omitempty"`
	Animal          animalSnapshotResponse `json:"animal"`
	Household       householdResponse      `json:"household"`
	ApprovedBy      string                 `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	RejectedBy      string                 `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time             `json:"rejected_at,omitempty"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	ReviewedAt      *time.Time             `json:"reviewed_at,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type historyResponse struct {
	ID        string    `json:"id"`
	FromState *State    `json:"from_state"`
	ToState   State     `json:"to_state"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor_name,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name,omitempty"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"message"`
	Internal    bool      `json:"internal"`
	CreatedAt   time.Time `json:"created_at"`
}

type detailResponse struct {
	Request  requestResponse   `json:"request"`
	History  []historyResponse `json:"history"`
	Messages []messageResponse `json:"messages"`
	Visit    *visitResponse    `json:"visit"`
}

type visitResponse struct {
	ID              string    `json:"id"`
	ScheduledFor    time.Time `json:"scheduled_for"`
	VolunteerID     string    `json:"volunteer_id,omitempty"`
	VolunteerName   string    `json:"volunteer_name,omitempty"`
	ScheduledBy     string    `json:"scheduled_by"`
	ScheduledByName string    `json:"scheduled_by_name,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type statsResponse struct {
	ByState           map[State]int `json:"by_state"`
	Total             int           `json:"total"`
	RequestsThisWeek  int           `json:"requests_this_week"`
	ApprovalRate      float64       `json:"approval_rate"`
	AvgReviewDays     int           `json:"avg_review_days"`
	ApprovedThisMonth int           `json:"approved_this_month"`
}

// ---- handlers ----

// createRequestHandler godoc
// @Summary Crear solicitud de adopción
// @Tags requests
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param body body createRequestRequest true "Solicitud"
// @Success 201 {object} createdResponse
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /requests [post]
func (a *api) createRequestHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createRequestRequest
		if !a.decode(w, r, &req, "animal_id, motivation y housing_type son obligatorios") {
			return
		}

		created, err := a.svc.CreateAdoption(r.Context(), claims.UserID, CreateInput{
			AnimalID:  req.AnimalID,
			Household: req.householdRequest.toInput(),
		})
		if err != nil {
			a.fail(w, r, err, "Error al crear la solicitud")
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{Message: "Solicitud creada correctamente", ID: created.ID})
	}
}

// createOfferHandler godoc
// @Summary Ofrecer una mascota en adopción
// @Description Crea el animal (in_review) y la solicitud offer que lo acompaña.
// @Tags requests
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param body body createOfferRequest true "Animal y hogar"
// @Success 201 {object} createdResponse
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /offer [post]
func (a *api) createOfferHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createOfferRequest
		if !a.decode(w, r, &req, "Faltan campos obligatorios") {
			return
		}

		created, animal, err := a.svc.CreateOffer(r.Context(), claims.UserID, OfferInput{
			Animal: OfferAnimalInput{
				Name:         req.Animal.Name,
				Species:      animals.Species(req.Animal.Species),
				Breed:        req.Animal.Breed,
				Sex:          animals.Sex(req.Animal.Sex),
				Size:         req.Animal.Size,
				AgeYears:     req.Animal.AgeYears,
				AgeMonths:    req.Animal.AgeMonths,
				Description:  req.Animal.Description,
				HealthStatus: req.Animal.HealthStatus,
				Vaccinated:   req.Animal.Vaccinated,
				Sterilized:   req.Animal.Sterilized,
				ImageURL:     req.Animal.ImageURL,
			},
			Household: req.Household.toInput(),
		})
		if err != nil {
			a.fail(w, r, err, "Error al crear la solicitud")
			return
		}
		writeJSON(w, http.StatusCreated, createdResponse{
			Message:  "Solicitud creada correctamente. Revisaremos la información de tu mascota",
			ID:       created.ID,
			AnimalID: animal.ID,
		})
	}
}

// listMineHandler godoc
// @Summary Mis solicitudes
// @Tags requests
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param state query string false "Filtrar por estado (todas = sin filtro)"
// @Param kind query string false "adopt | offer"
// @Success 200 {array} requestResponse
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /requests/mine [get]
func (a *api) listMineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		q := r.URL.Query()

		items, err := a.svc.ListMine(r.Context(), claims.UserID, ListFilter{
			State: stateParam(q.Get("state")),
			Kind:  Kind(strings.TrimSpace(q.Get("kind"))),
		})
		if err != nil {
			a.fail(w, r, err, "Error al obtener las solicitudes")
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items))
	}
}

// getMineHandler godoc
// @Summary Detalle de mi solicitud
// @Description Incluye historial y mensajes no internos.
// @Tags requests
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param requestID path string true "ID de la solicitud"
// @Success 200 {object} detailResponse
// @Failure 404 {object} map[string]string
// @Router /requests/mine/{requestID} [get]
func (a *api) getMineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		d, err := a.svc.GetMine(r.Context(), claims.UserID, chi.URLParam(r, "requestID"))
		if err != nil {
			a.fail(w, r, err, "Error al obtener el detalle de la solicitud")
			return
		}
		writeJSON(w, http.StatusOK, toDetailResponse(d))
	}
}

// cancelHandler godoc
// @Summary Cancelar mi solicitud
// @Description Solo desde pending, in_review o info_requested.
// @Tags requests
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param requestID path string true "ID de la solicitud"
// @Success 200 {object} messageOnlyResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /requests/{requestID}/cancel [put]
func (a *api) cancelHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		if _, err := a.svc.Cancel(r.Context(), claims.UserID, chi.URLParam(r, "requestID")); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No se puede cancelar una solicitud en este estado"})
				return
			}
			a.fail(w, r, err, "Error al cancelar la solicitud")
			return
		}
		writeJSON(w, http.StatusOK, messageOnlyResponse{Message: "Solicitud cancelada exitosamente"})
	}
}

// addMessageHandler godoc
// @Summary Enviar mensaje en una solicitud
// @Description El admin escribe al solicitante; el solicitante al revisor asignado. `internal` solo admins.
// @Tags requests
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param requestID path string true "ID de la solicitud"
// @Param body body addMessageRequest true "Mensaje"
// @Success 201 {object} messageResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /requests/{requestID}/messages [post]
func (a *api) addMessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req addMessageRequest
		if !a.decode(w, r, &req, "El mensaje no puede estar vacío") {
			return
		}

		m, err := a.svc.AddMessage(r.Context(), claims, chi.URLParam(r, "requestID"), MessageInput{
			Body:     req.Message,
			Internal: req.Internal,
		})
		if err != nil {
			a.fail(w, r, err, "Error al enviar el mensaje")
			return
		}
		writeJSON(w, http.StatusCreated, toMessageResponse(m))
	}
}

// listAllHandler godoc
// @Summary Listar solicitudes (admin)
// @Tags admin
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param state query string false "Estado (todas = sin filtro)"
// @Param kind query string false "adopt | offer"
// @Param animalId query string false "ID del animal"
// @Param search query string false "Nombre/email del solicitante o nombre del animal"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD (inclusive)"
// @Success 200 {array} requestResponse
// @Failure 400 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Router /requests/admin/all [get]
func (a *api) listAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		from, err := parseDay(q.Get("from"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from debe tener formato YYYY-MM-DD"})
			return
		}
		to, err := parseDay(q.Get("to"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "to debe tener formato YYYY-MM-DD"})
			return
		}
		if to != nil {
			// "to" es un día completo; el filtro es exclusivo.
			end := to.AddDate(0, 0, 1)
			to = &end
		}

		items, err := a.svc.ListAll(r.Context(), ListFilter{
			State:    stateParam(q.Get("state")),
			Kind:     Kind(strings.TrimSpace(q.Get("kind"))),
			AnimalID: strings.TrimSpace(q.Get("animalId")),
			Search:   strings.TrimSpace(q.Get("search")),
			From:     from,
			To:       to,
		})
		if err != nil {
			a.fail(w, r, err, "Error al obtener las solicitudes")
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items))
	}
}

// getAnyHandler godoc
// @Summary Detalle de solicitud (admin)
// @Description Incluye mensajes internos.
// @Tags admin
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param requestID path string true "ID de la solicitud"
// @Success 200 {object} detailResponse
// @Failure 404 {object} map[string]string
// @Router /requests/admin/{requestID} [get]
func (a *api) getAnyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := a.svc.GetAny(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil {
			a.fail(w, r, err, "Error al obtener el detalle de la solicitud")
			return
		}
		writeJSON(w, http.StatusOK, toDetailResponse(d))
	}
}

// changeStateHandler godoc
// @Summary Cambiar estado (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param requestID path string true "ID de la solicitud"
// @Param body body changeStateRequest true "Nuevo estado"
// @Success 200 {object} changeStateResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /requests/admin/{requestID}/state [put]
func (a *api) changeStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req changeStateRequest
		if !a.decode(w, r, &req, "Estado no válido") {
			return
		}

		in := TransitionInput{
			State:  State(req.State),
			Note:   req.Note,
			Reason: req.Reason,
		}
		if req.Visit != nil {
			in.Visit = &VisitInput{
				ScheduledFor: req.Visit.ScheduledFor,
				VolunteerID:  req.Visit.VolunteerID,
				Notes:        req.Visit.Notes,
			}
		}

		res, err := a.svc.ChangeState(r.Context(), claims.UserID, chi.URLParam(r, "requestID"), in)
		if err != nil {
			a.fail(w, r, err, "Error al cambiar el estado de la solicitud")
			return
		}
		writeJSON(w, http.StatusOK, newChangeStateResponse("Estado actualizado exitosamente", res))
	}
}

// approveOfferHandler godoc
// @Summary Aprobar oferta (admin)
// @Description Aprueba una solicitud offer y publica el animal.
// @Tags admin
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param requestID path string true "ID de la solicitud"
// @Param body body approveOfferRequest false "Nota opcional"
// @Success 200 {object} changeStateResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /requests/{requestID}/approve-offer [put]
func (a *api) approveOfferHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		// El body es opcional.
		var req approveOfferRequest
		if r.ContentLength != 0 {
			if !a.decode(w, r, &req, "Datos inválidos") {
				return
			}
		}

		res, err := a.svc.ApproveOffer(r.Context(), claims.UserID, chi.URLParam(r, "requestID"), req.Note)
		if err != nil {
			a.fail(w, r, err, "Error al aprobar la oferta")
			return
		}
		writeJSON(w, http.StatusOK, newChangeStateResponse("Mascota aprobada y publicada para adopción", res))
	}
}

// statsHandler godoc
// @Summary Estadísticas (admin)
// @Tags admin
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} statsResponse
// @Failure 403 {object} map[string]string
// @Router /requests/admin/stats [get]
func (a *api) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := a.svc.Stats(r.Context())
		if err != nil {
			a.fail(w, r, err, "Error al obtener las estadísticas")
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			ByState:           st.ByState,
			Total:             st.Total,
			RequestsThisWeek:  st.RequestsThisWeek,
			ApprovalRate:      st.ApprovalRate,
			AvgReviewDays:     st.AvgReviewDays,
			ApprovedThisMonth: st.ApprovedThisMonth,
		})
	}
}

// ---- helpers ----

// stateParam: "todas"/"all" equivale a no filtrar.
func stateParam(raw string) State {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "todas", "all":
		return ""
	}
	return State(raw)
}

// decode lee el body y corre el validator. Responde 400 y devuelve false si falla.
func (a *api) decode(w http.ResponseWriter, r *http.Request, dst any, requiredMsg string) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": requiredMsg, "fields": fields})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
		return false
	}
	return true
}

// fail traduce errores del service a HTTP. Conflictos y transiciones inválidas
// van como 400, igual que las validaciones.
func (a *api) fail(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		msg := "Datos inválidos"
		if len(ve.Fields) == 1 {
			for _, reason := range ve.Fields {
				if reason != "required" {
					msg = reason
				}
			}
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg, "fields": ve.Fields})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	case errors.Is(err, ErrAnimalNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Mascota no encontrada"})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Solicitud no encontrada"})
	case errors.Is(err, ErrDuplicateActive):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Ya tienes una solicitud activa para esta mascota"})
	case errors.Is(err, ErrConflict):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Esta mascota no está disponible para adopción"})
	case errors.Is(err, ErrInvalidTransition):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Transición de estado no permitida"})
	default:
		a.log.Error("request failed", map[string]any{
			"request_id": chimw.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"err":        err.Error(),
		})
		body := map[string]string{"error": internalMsg}
		if a.dev {
			body["detail"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toRequestResponses(items []RequestView) []requestResponse {
	out := make([]requestResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toRequestResponse(v))
	}
	return out
}

func toRequestResponse(v RequestView) requestResponse {
	return requestResponse{
		ID:             v.ID,
		Kind:           v.Kind,
		State:          v.State,
		ApplicantID:    v.ApplicantID,
		ApplicantName:  v.ApplicantName,
		ApplicantEmail: v.ApplicantEmail,
		ReviewerID:     v.ReviewerID,
		ReviewerName:   v.ReviewerName,
		Animal: animalSnapshotResponse{
			ID:           v.Animal.ID,
			Name:         v.Animal.Name,
			Species:      v.Animal.Species,
			Breed:        v.Animal.Breed,
			AgeYears:     v.Animal.AgeYears,
			AgeMonths:    v.Animal.AgeMonths,
			ImageURL:     v.Animal.ImageURL,
			Availability: v.Animal.Availability,
		},
		Household: householdResponse{
			HousingType:          v.Household.HousingType,
			HasYard:              v.Household.HasYard,
			HasOtherPets:         v.Household.HasOtherPets,
			OtherPetsDescription: v.Household.OtherPetsDescription,
			Motivation:           v.Household.Motivation,
			Experience:           v.Household.Experience,
		},
		ApprovedBy:      v.ApprovedBy,
		ApprovedAt:      v.ApprovedAt,
		RejectedBy:      v.RejectedBy,
		RejectedAt:      v.RejectedAt,
		RejectionReason: v.RejectionReason,
		CreatedAt:       v.CreatedAt,
		ReviewedAt:      v.ReviewedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		RecipientID: m.RecipientID,
		Body:        m.Body,
		Internal:    m.Internal,
		CreatedAt:   m.CreatedAt,
	}
}

func toDetailResponse(d Detail) detailResponse {
	out := detailResponse{
		Request:  toRequestResponse(d.Request),
		History:  make([]historyResponse, 0, len(d.History)),
		Messages: make([]messageResponse, 0, len(d.Messages)),
	}
	for _, h := range d.History {
		out.History = append(out.History, historyResponse{
			ID:        h.ID,
			FromState: h.From,
			ToState:   h.To,
			ActorID:   h.ActorID,
			ActorName: h.ActorName,
			Note:      h.Note,
			CreatedAt: h.CreatedAt,
		})
	}
	for _, m := range d.Messages {
		out.Messages = append(out.Messages, toMessageResponse(m))
	}
	if v := d.Visit; v != nil {
		out.Visit = &visitResponse{
			ID:              v.ID,
			ScheduledFor:    v.ScheduledFor,
			VolunteerID:     v.VolunteerID,
			VolunteerName:   v.VolunteerName,
			ScheduledBy:     v.ScheduledBy,
			ScheduledByName: v.ScheduledByName,
			Notes:           v.Notes,
			CreatedAt:       v.CreatedAt,
			UpdatedAt:       v.UpdatedAt,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
