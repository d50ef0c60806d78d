package adoptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/users"
	"github.com/Jorge-dev09/backend-tienda/internal/platform/logger"
	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"

	"github.com/google/uuid"
)

// Observer recibe eventos ya confirmados (métricas). Puede ser nil.
type Observer interface {
	RequestCreated(kind string)
	Transitioned(kind, from, to string)
}

type Options struct {
	// StrictTransitions limita ChangeState a las aristas de CanTransition.
	// En false cualquier estado admin puede pasar a cualquier otro.
	StrictTransitions bool

	Observer Observer
	Logger   logger.Logger
	Now      func() time.Time
}

type Service struct {
	store     Store
	directory users.Directory
	observer  Observer
	log       logger.Logger
	strict    bool
	now       func() time.Time
}

func NewService(store Store, directory users.Directory, opts Options) *Service {
	s := &Service{
		store:     store,
		directory: directory,
		observer:  opts.Observer,
		log:       opts.Logger,
		strict:    opts.StrictTransitions,
		now:       opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

type HouseholdInput struct {
	HousingType          string
	HasYard              bool
	HasOtherPets         bool
	OtherPetsDescription string
	Motivation           string
	Experience           string
}

type CreateInput struct {
	AnimalID  string
	Household HouseholdInput
}

type OfferAnimalInput struct {
	Name         string
	Species      animals.Species
	Breed        string
	Sex          animals.Sex
	Size         string
	AgeYears     *int
	AgeMonths    *int
	Description  string
	HealthStatus string
	Vaccinated   bool
	Sterilized   bool
	ImageURL     string
}

type OfferInput struct {
	Animal    OfferAnimalInput
	Household HouseholdInput
}

func normalizeHousehold(in HouseholdInput) (Household, error) {
	h := Household{
		HousingType:          strings.TrimSpace(in.HousingType),
		HasYard:              in.HasYard,
		HasOtherPets:         in.HasOtherPets,
		OtherPetsDescription: strings.TrimSpace(in.OtherPetsDescription),
		Motivation:           strings.TrimSpace(in.Motivation),
		Experience:           strings.TrimSpace(in.Experience),
	}
	ve := &ValidationError{Fields: map[string]string{}}
	if h.Motivation == "" {
		ve.Fields["motivation"] = "required"
	}
	if h.HousingType == "" {
		ve.Fields["housing_type"] = "required"
	}
	if len(ve.Fields) > 0 {
		return Household{}, ve
	}
	if !h.HasOtherPets {
		h.OtherPetsDescription = ""
	}
	return h, nil
}

// CreateAdoption crea una solicitud pending para un animal publicado.
func (s *Service) CreateAdoption(ctx context.Context, applicantID string, in CreateInput) (Request, error) {
	applicantID = strings.TrimSpace(applicantID)
	animalID := strings.TrimSpace(in.AnimalID)
	if applicantID == "" {
		return Request{}, ErrInvalidInput
	}
	if animalID == "" {
		return Request{}, invalid("animal_id", "required")
	}
	household, err := normalizeHousehold(in.Household)
	if err != nil {
		return Request{}, err
	}

	now := s.now()
	req := Request{
		ID:          uuid.NewString(),
		ApplicantID: applicantID,
		AnimalID:    animalID,
		Kind:        KindAdopt,
		State:       StatePending,
		Household:   household,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.store.WithTx(ctx, func(tx Tx) error {
		a, err := tx.LockAnimal(ctx, animalID)
		if err != nil {
			if errors.Is(err, animals.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrAnimalNotFound, animalID)
			}
			return err
		}
		if a.Availability != animals.AvailabilityAvailable {
			return fmt.Errorf("%w: %s is %s", ErrAnimalUnavailable, animalID, a.Availability)
		}

		active, err := tx.HasActiveRequest(ctx, applicantID, animalID)
		if err != nil {
			return err
		}
		if active {
			return ErrDuplicateActive
		}

		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, creationEntry(req, "Solicitud de adopción creada"))
	})
	if err != nil {
		return Request{}, err
	}

	s.created(req)
	return req, nil
}

// CreateOffer da de alta el animal (in_review) y la solicitud que lo ofrece,
// en la misma transacción.
func (s *Service) CreateOffer(ctx context.Context, applicantID string, in OfferInput) (Request, animals.Animal, error) {
	applicantID = strings.TrimSpace(applicantID)
	if applicantID == "" {
		return Request{}, animals.Animal{}, ErrInvalidInput
	}

	ve := &ValidationError{Fields: map[string]string{}}
	name := strings.TrimSpace(in.Animal.Name)
	if name == "" {
		ve.Fields["name"] = "required"
	}
	species := animals.Species(strings.TrimSpace(string(in.Animal.Species)))
	if species == "" {
		ve.Fields["species"] = "required"
	}
	if (in.Animal.AgeYears != nil && *in.Animal.AgeYears < 0) || (in.Animal.AgeMonths != nil && *in.Animal.AgeMonths < 0) {
		ve.Fields["age"] = "must be >= 0"
	}
	household, herr := normalizeHousehold(in.Household)
	var hve *ValidationError
	if errors.As(herr, &hve) {
		for k, v := range hve.Fields {
			ve.Fields[k] = v
		}
	}
	if len(ve.Fields) > 0 {
		return Request{}, animals.Animal{}, ve
	}

	sex := in.Animal.Sex
	if sex == "" {
		sex = animals.SexUnknown
	}

	now := s.now()
	animal := animals.Animal{
		ID:           uuid.NewString(),
		Name:         name,
		Species:      species,
		Breed:        strings.TrimSpace(in.Animal.Breed),
		Sex:          sex,
		Size:         strings.TrimSpace(in.Animal.Size),
		AgeYears:     in.Animal.AgeYears,
		AgeMonths:    in.Animal.AgeMonths,
		Description:  strings.TrimSpace(in.Animal.Description),
		HealthStatus: strings.TrimSpace(in.Animal.HealthStatus),
		Vaccinated:   in.Animal.Vaccinated,
		Sterilized:   in.Animal.Sterilized,
		ImageURL:     strings.TrimSpace(in.Animal.ImageURL),
		Availability: animals.AvailabilityInReview,
		IntakeDate:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	req := Request{
		ID:          uuid.NewString(),
		ApplicantID: applicantID,
		AnimalID:    animal.ID,
		Kind:        KindOffer,
		State:       StatePending,
		Household:   household,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.WithTx(ctx, func(tx Tx) error {
		if err := tx.CreateAnimal(ctx, animal); err != nil {
			return err
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		return tx.AppendHistory(ctx, creationEntry(req, "Solicitud para dar en adopción creada"))
	})
	if err != nil {
		return Request{}, animals.Animal{}, err
	}

	s.created(req)
	return req, animal, nil
}

func (s *Service) ListMine(ctx context.Context, applicantID string, filter ListFilter) ([]RequestView, error) {
	applicantID = strings.TrimSpace(applicantID)
	if applicantID == "" {
		return nil, ErrInvalidInput
	}
	filter.ApplicantID = applicantID
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.store.ListViews(ctx, filter)
}

// GetMine devuelve ErrNotFound también cuando la solicitud es de otro usuario.
func (s *Service) GetMine(ctx context.Context, applicantID, requestID string) (Detail, error) {
	v, err := s.getView(ctx, requestID)
	if err != nil {
		return Detail{}, err
	}
	if v.ApplicantID != strings.TrimSpace(applicantID) {
		return Detail{}, ErrNotFound
	}
	return s.detail(ctx, v, false)
}

func (s *Service) ListAll(ctx context.Context, filter ListFilter) ([]RequestView, error) {
	filter.ApplicantID = ""
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.store.ListViews(ctx, filter)
}

// GetAny es la vista admin: incluye mensajes internos.
func (s *Service) GetAny(ctx context.Context, requestID string) (Detail, error) {
	v, err := s.getView(ctx, requestID)
	if err != nil {
		return Detail{}, err
	}
	d, err := s.detail(ctx, v, true)
	if err != nil {
		return Detail{}, err
	}
	if d.Visit, err = s.store.GetVisit(ctx, v.ID); err != nil {
		return Detail{}, err
	}
	return d, nil
}

func (s *Service) getView(ctx context.Context, requestID string) (RequestView, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return RequestView{}, ErrNotFound
	}
	return s.store.GetView(ctx, requestID)
}

func (s *Service) detail(ctx context.Context, v RequestView, includeInternal bool) (Detail, error) {
	history, err := s.store.ListHistory(ctx, v.ID)
	if err != nil {
		return Detail{}, err
	}
	msgs, err := s.store.ListMessages(ctx, v.ID, includeInternal)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Request: v, History: history, Messages: msgs}, nil
}

// Cancel: solo el dueño y solo desde pending, in_review o info_requested.
func (s *Service) Cancel(ctx context.Context, applicantID, requestID string) (Request, error) {
	applicantID = strings.TrimSpace(applicantID)
	requestID = strings.TrimSpace(requestID)
	if applicantID == "" || requestID == "" {
		return Request{}, ErrNotFound
	}

	var (
		updated Request
		prev    State
	)
	err := s.store.WithTx(ctx, func(tx Tx) error {
		r, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if r.ApplicantID != applicantID {
			return ErrNotFound
		}
		if !r.State.Cancellable() {
			return fmt.Errorf("cannot cancel from %s: %w", r.State, ErrInvalidTransition)
		}

		prev = r.State
		now := s.now()
		r.State = StateCancelled
		r.UpdatedAt = now

		if err := tx.UpdateRequest(ctx, r); err != nil {
			return err
		}
		if av := policyFor(r.Kind).availabilityOn(StateCancelled); av != "" {
			if err := tx.SetAnimalAvailability(ctx, r.AnimalID, av, now); err != nil {
				return err
			}
		}
		if err := tx.AppendHistory(ctx, HistoryEntry{
			ID:        uuid.NewString(),
			RequestID: r.ID,
			From:      &prev,
			To:        StateCancelled,
			ActorID:   applicantID,
			Note:      "Cancelada por el usuario",
			CreatedAt: now,
		}); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return Request{}, err
	}

	s.transitioned(updated, prev)
	return updated, nil
}

type TransitionInput struct {
	State  State
	Note   string
	Reason string // solo para rejected
	// Visit solo se acepta con State = visit_scheduled.
	Visit *VisitInput
}

type VisitInput struct {
	ScheduledFor time.Time
	VolunteerID  string
	Notes        string
}

type TransitionResult struct {
	Request  Request
	Previous State
}

// ChangeState es la transición de admin. En una sola transacción: actualiza la
// solicitud, aplica el efecto sobre el animal según el kind, agrega historial
// y crea la notificación para el solicitante.
func (s *Service) ChangeState(ctx context.Context, adminID, requestID string, in TransitionInput) (TransitionResult, error) {
	return s.transition(ctx, adminID, requestID, in, "")
}

// ApproveOffer publica el animal de una solicitud offer.
func (s *Service) ApproveOffer(ctx context.Context, adminID, requestID string, note string) (TransitionResult, error) {
	return s.transition(ctx, adminID, requestID, TransitionInput{State: StateApproved, Note: note}, KindOffer)
}

func (s *Service) transition(ctx context.Context, adminID, requestID string, in TransitionInput, onlyKind Kind) (TransitionResult, error) {
	adminID = strings.TrimSpace(adminID)
	requestID = strings.TrimSpace(requestID)
	target := State(strings.TrimSpace(string(in.State)))

	if adminID == "" {
		return TransitionResult{}, ErrInvalidInput
	}
	if !target.AdminSettable() {
		return TransitionResult{}, invalid("state", "Estado no válido")
	}
	if err := validateVisit(target, in.Visit); err != nil {
		return TransitionResult{}, err
	}
	if requestID == "" {
		return TransitionResult{}, ErrNotFound
	}

	var res TransitionResult
	err := s.store.WithTx(ctx, func(tx Tx) error {
		r, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if onlyKind != "" && r.Kind != onlyKind {
			return fmt.Errorf("request kind is %s, expected %s: %w", r.Kind, onlyKind, ErrInvalidTransition)
		}
		if s.strict && !CanTransition(r.State, target) {
			return fmt.Errorf("%s -> %s: %w", r.State, target, ErrInvalidTransition)
		}

		prev := r.State
		now := s.now()

		r.State = target
		r.ReviewerID = adminID
		r.UpdatedAt = now
		if r.ReviewedAt == nil {
			r.ReviewedAt = &now
		}
		switch target {
		case StateApproved:
			r.ApprovedBy = adminID
			r.ApprovedAt = &now
		case StateRejected:
			r.RejectedBy = adminID
			r.RejectedAt = &now
			r.RejectionReason = strings.TrimSpace(in.Reason)
		}

		if err := tx.UpdateRequest(ctx, r); err != nil {
			return err
		}

		if in.Visit != nil {
			if err := tx.SaveVisit(ctx, Visit{
				ID:           uuid.NewString(),
				RequestID:    r.ID,
				ScheduledFor: in.Visit.ScheduledFor,
				VolunteerID:  strings.TrimSpace(in.Visit.VolunteerID),
				ScheduledBy:  adminID,
				Notes:        strings.TrimSpace(in.Visit.Notes),
				CreatedAt:    now,
				UpdatedAt:    now,
			}); err != nil {
				return err
			}
		}

		policy := policyFor(r.Kind)
		if av := policy.availabilityOn(target); av != "" {
			if err := tx.SetAnimalAvailability(ctx, r.AnimalID, av, now); err != nil {
				return err
			}
		}

		if err := tx.AppendHistory(ctx, HistoryEntry{
			ID:        uuid.NewString(),
			RequestID: r.ID,
			From:      &prev,
			To:        target,
			ActorID:   adminID,
			Note:      strings.TrimSpace(in.Note),
			CreatedAt: now,
		}); err != nil {
			return err
		}

		if err := tx.CreateNotification(ctx, notifications.Notification{
			ID:        uuid.NewString(),
			UserID:    r.ApplicantID,
			Title:     notificationTitle,
			Body:      policy.notificationBody(target),
			Category:  notifications.CategoryRequest,
			RequestID: r.ID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		res = TransitionResult{Request: r, Previous: prev}
		return nil
	})
	if err != nil {
		return TransitionResult{}, err
	}

	s.transitioned(res.Request, res.Previous)
	return res, nil
}

type MessageInput struct {
	Body     string
	Internal bool
}

// AddMessage: el admin escribe al solicitante; el solicitante escribe al
// revisor asignado, o al primer admin del directorio si nadie la revisó aún.
// internal se ignora si el remitente no es admin.
func (s *Service) AddMessage(ctx context.Context, sender auth.Claims, requestID string, in MessageInput) (Message, error) {
	senderID := strings.TrimSpace(sender.UserID)
	requestID = strings.TrimSpace(requestID)
	body := strings.TrimSpace(in.Body)
	if senderID == "" {
		return Message{}, ErrInvalidInput
	}
	if body == "" {
		return Message{}, invalid("message", "El mensaje no puede estar vacío")
	}
	internal := in.Internal && sender.IsAdmin
	if requestID == "" {
		return Message{}, ErrNotFound
	}

	var msg Message
	err := s.store.WithTx(ctx, func(tx Tx) error {
		r, err := tx.LockRequest(ctx, requestID)
		if err != nil {
			return err
		}

		recipient := r.ApplicantID
		if !sender.IsAdmin {
			if r.ApplicantID != senderID {
				return ErrNotFound
			}
			recipient, err = s.applicantRecipient(ctx, r, senderID)
			if err != nil {
				return err
			}
		}

		msg = Message{
			ID:          uuid.NewString(),
			RequestID:   r.ID,
			SenderID:    senderID,
			RecipientID: recipient,
			Body:        body,
			Internal:    internal,
			CreatedAt:   s.now(),
		}
		return tx.AddMessage(ctx, msg)
	})
	if err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (s *Service) applicantRecipient(ctx context.Context, r Request, senderID string) (string, error) {
	if r.ReviewerID != "" {
		return r.ReviewerID, nil
	}
	if s.directory != nil {
		admin, err := s.directory.FirstAdmin(ctx)
		switch {
		case err == nil:
			return admin.ID, nil
		case !errors.Is(err, users.ErrNotFound):
			return "", err
		}
	}
	// Sin admins registrados el mensaje queda dirigido al propio remitente.
	s.log.Warn("no admin found for message routing", map[string]any{"request_id": r.ID})
	return senderID, nil
}

func creationEntry(r Request, note string) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.NewString(),
		RequestID: r.ID,
		To:        r.State,
		ActorID:   r.ApplicantID,
		Note:      note,
		CreatedAt: r.CreatedAt,
	}
}

func validateVisit(target State, v *VisitInput) error {
	if v == nil {
		return nil
	}
	if target != StateVisitScheduled {
		return invalid("visit", "Solo se agenda una visita con el estado visit_scheduled")
	}
	if v.ScheduledFor.IsZero() {
		return invalid("visit.scheduled_for", "required")
	}
	return nil
}

func validateFilter(f ListFilter) error {
	if f.State != "" && !f.State.Valid() {
		return invalid("state", "Estado no válido")
	}
	if f.Kind != "" && !f.Kind.Valid() {
		return invalid("kind", "Tipo no válido")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return invalid("to", "must be after from")
	}
	return nil
}

func (s *Service) created(r Request) {
	s.log.Info("adoption request created", map[string]any{
		"request_id": r.ID,
		"kind":       string(r.Kind),
		"animal_id":  r.AnimalID,
	})
	if s.observer != nil {
		s.observer.RequestCreated(string(r.Kind))
	}
}

func (s *Service) transitioned(r Request, from State) {
	s.log.Info("adoption request transitioned", map[string]any{
		"request_id": r.ID,
		"kind":       string(r.Kind),
		"from":       string(from),
		"to":         string(r.State),
	})
	if s.observer != nil {
		s.observer.Transitioned(string(r.Kind), string(from), string(r.State))
	}
}
