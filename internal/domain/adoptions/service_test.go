package adoptions_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/adapters/storage/memory"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/adoptions"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/users"
	"github.com/Jorge-dev09/backend-tienda/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	applicantID = "user-1"
	otherUserID = "user-2"
	adminID     = "admin-1"
	admin2ID    = "admin-2"
	animalID    = "animal-42"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingObserver struct {
	mu          sync.Mutex
	created     []string
	transitions []string
}

func (o *recordingObserver) RequestCreated(kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, kind)
}

func (o *recordingObserver) Transitioned(kind, from, to string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, kind+":"+from+"->"+to)
}

type fixture struct {
	svc      *adoptions.Service
	store    *memory.Store
	clock    *clock
	observer *recordingObserver
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	store := memory.New()
	store.SeedUser(users.User{ID: adminID, Name: "Ana", LastName: "Admin", Email: "ana@newlife.test", IsAdmin: true})
	store.SeedUser(users.User{ID: admin2ID, Name: "Beto", LastName: "Admin", Email: "beto@newlife.test", IsAdmin: true})
	store.SeedUser(users.User{ID: applicantID, Name: "Lucía", LastName: "Pérez", Email: "lucia@example.com"})
	store.SeedUser(users.User{ID: otherUserID, Name: "Mario", LastName: "Gómez", Email: "mario@example.com"})

	c := &clock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	seedAnimal(store, animalID, "Firulais", animals.AvailabilityAvailable, c.Now())

	obs := &recordingObserver{}
	svc := adoptions.NewService(store, store, adoptions.Options{
		StrictTransitions: strict,
		Observer:          obs,
		Now:               c.Now,
	})
	return &fixture{svc: svc, store: store, clock: c, observer: obs}
}

func seedAnimal(store *memory.Store, id, name string, av animals.Availability, at time.Time) {
	store.SeedAnimal(animals.Animal{
		ID:           id,
		Name:         name,
		Species:      animals.SpeciesDog,
		Sex:          animals.SexMale,
		Availability: av,
		IntakeDate:   at,
		CreatedAt:    at,
		UpdatedAt:    at,
	})
}

func household() adoptions.HouseholdInput {
	return adoptions.HouseholdInput{
		HousingType: "casa",
		HasYard:     true,
		Motivation:  "Quiero darle un hogar",
	}
}

func (f *fixture) create(t *testing.T, userID, animal string) adoptions.Request {
	t.Helper()
	r, err := f.svc.CreateAdoption(context.Background(), userID, adoptions.CreateInput{
		AnimalID:  animal,
		Household: household(),
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) animal(t *testing.T, id string) animals.Animal {
	t.Helper()
	a, err := f.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func (f *fixture) history(t *testing.T, requestID string) []adoptions.HistoryEntry {
	t.Helper()
	h, err := f.store.ListHistory(context.Background(), requestID)
	require.NoError(t, err)
	return h
}

func (f *fixture) state(t *testing.T, requestID string) adoptions.State {
	t.Helper()
	v, err := f.store.GetView(context.Background(), requestID)
	require.NoError(t, err)
	return v.State
}

func statePtr(s adoptions.State) *adoptions.State { return &s }

// ---- create ----

func TestCreateAdoption_StartsPendingWithCreationHistory(t *testing.T) {
	f := newFixture(t, true)

	r := f.create(t, applicantID, animalID)

	assert.Equal(t, adoptions.StatePending, r.State)
	assert.Equal(t, adoptions.KindAdopt, r.Kind)
	assert.Nil(t, r.ReviewedAt)
	assert.Equal(t, animals.AvailabilityAvailable, f.animal(t, animalID).Availability)

	h := f.history(t, r.ID)
	require.Len(t, h, 1)
	assert.Nil(t, h[0].From)
	assert.Equal(t, adoptions.StatePending, h[0].To)
	assert.Equal(t, applicantID, h[0].ActorID)
	assert.Equal(t, "Lucía Pérez", h[0].ActorName)

	assert.Equal(t, []string{"adopt"}, f.observer.created)
}

func TestCreateAdoption_SecondActiveRequestConflicts(t *testing.T) {
	f := newFixture(t, true)
	f.create(t, applicantID, animalID)

	_, err := f.svc.CreateAdoption(context.Background(), applicantID, adoptions.CreateInput{
		AnimalID:  animalID,
		Household: household(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, adoptions.ErrConflict)
	assert.ErrorIs(t, err, adoptions.ErrDuplicateActive)

	mine, err := f.svc.ListMine(context.Background(), applicantID, adoptions.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCreateAdoption_AllowedAgainAfterCancel(t *testing.T) {
	f := newFixture(t, true)
	first := f.create(t, applicantID, animalID)

	_, err := f.svc.Cancel(context.Background(), applicantID, first.ID)
	require.NoError(t, err)

	second := f.create(t, applicantID, animalID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateAdoption_OtherUsersMayRequestSameAnimal(t *testing.T) {
	f := newFixture(t, true)
	f.create(t, applicantID, animalID)
	f.create(t, otherUserID, animalID)
}

func TestCreateAdoption_AnimalChecks(t *testing.T) {
	f := newFixture(t, true)
	seedAnimal(f.store, "animal-adopted", "Michi", animals.AvailabilityAdopted, f.clock.Now())

	_, err := f.svc.CreateAdoption(context.Background(), applicantID, adoptions.CreateInput{
		AnimalID: "animal-adopted", Household: household(),
	})
	assert.ErrorIs(t, err, adoptions.ErrConflict)
	assert.ErrorIs(t, err, adoptions.ErrAnimalUnavailable)

	_, err = f.svc.CreateAdoption(context.Background(), applicantID, adoptions.CreateInput{
		AnimalID: "nope", Household: household(),
	})
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
	assert.ErrorIs(t, err, adoptions.ErrAnimalNotFound)
}

func TestCreateAdoption_Validation(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.CreateAdoption(context.Background(), applicantID, adoptions.CreateInput{
		AnimalID:  animalID,
		Household: adoptions.HouseholdInput{HousingType: "  "},
	})
	require.ErrorIs(t, err, adoptions.ErrInvalidInput)

	var ve *adoptions.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "motivation")
	assert.Contains(t, ve.Fields, "housing_type")

	_, err = f.svc.CreateAdoption(context.Background(), applicantID, adoptions.CreateInput{Household: household()})
	assert.ErrorIs(t, err, adoptions.ErrInvalidInput)
}

// ---- admin transitions ----

func TestChangeState_ApproveAdoptFlipsAnimalAndNotifies(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)
	f.clock.Advance(2 * time.Hour)

	res, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{
		State: adoptions.StateApproved,
		Note:  "Todo en orden",
	})
	require.NoError(t, err)

	assert.Equal(t, adoptions.StatePending, res.Previous)
	assert.Equal(t, adoptions.StateApproved, res.Request.State)
	assert.Equal(t, adminID, res.Request.ApprovedBy)
	require.NotNil(t, res.Request.ApprovedAt)
	assert.Equal(t, f.clock.Now(), *res.Request.ApprovedAt)
	require.NotNil(t, res.Request.ReviewedAt)
	assert.Equal(t, adminID, res.Request.ReviewerID)

	assert.Equal(t, animals.AvailabilityAdopted, f.animal(t, animalID).Availability)

	h := f.history(t, r.ID)
	require.Len(t, h, 2)
	assert.Equal(t, statePtr(adoptions.StatePending), h[1].From)
	assert.Equal(t, adoptions.StateApproved, h[1].To)
	assert.Equal(t, adminID, h[1].ActorID)
	assert.Equal(t, "Todo en orden", h[1].Note)

	notes, err := f.store.ListByUser(context.Background(), applicantID, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Actualización de solicitud", notes[0].Title)
	assert.Equal(t, "¡Felicitaciones! Tu solicitud ha sido aprobada", notes[0].Body)
	assert.Equal(t, r.ID, notes[0].RequestID)

	assert.Equal(t, []string{"adopt:pending->approved"}, f.observer.transitions)
}

func TestChangeState_RejectAdoptKeepsAnimalAvailable(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	res, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{
		State:  adoptions.StateRejected,
		Reason: "  Vivienda no apta  ",
	})
	require.NoError(t, err)

	assert.Equal(t, adminID, res.Request.RejectedBy)
	assert.NotNil(t, res.Request.RejectedAt)
	assert.Equal(t, "Vivienda no apta", res.Request.RejectionReason)
	assert.Empty(t, res.Request.ApprovedBy)
	assert.Equal(t, animals.AvailabilityAvailable, f.animal(t, animalID).Availability)
}

func TestChangeState_NominalPathAndTemplates(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	path := []adoptions.State{
		adoptions.StateInReview,
		adoptions.StateInfoRequested,
		adoptions.StateInReview,
		adoptions.StateVisitScheduled,
		adoptions.StateApproved,
	}
	for _, to := range path {
		_, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: to})
		require.NoError(t, err, "-> %s", to)
	}

	h := f.history(t, r.ID)
	require.Len(t, h, len(path)+1)
	prev := adoptions.StatePending
	for i, to := range path {
		require.NotNil(t, h[i+1].From)
		assert.Equal(t, prev, *h[i+1].From)
		assert.Equal(t, to, h[i+1].To)
		prev = to
	}

	notes, err := f.store.ListByUser(context.Background(), applicantID, false)
	require.NoError(t, err)
	require.Len(t, notes, len(path))
	// Más recientes primero.
	assert.Equal(t, "¡Felicitaciones! Tu solicitud ha sido aprobada", notes[0].Body)
	assert.Equal(t, "Se ha agendado una visita domiciliaria", notes[1].Body)
	assert.Equal(t, "Necesitamos más información sobre tu solicitud", notes[3].Body)
	assert.Equal(t, "Tu solicitud está siendo revisada por nuestro equipo", notes[4].Body)
}

func TestChangeState_StrictRejectsIllegalEdges(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	_, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: adoptions.StateApproved})
	require.NoError(t, err)

	for _, to := range []adoptions.State{adoptions.StatePending, adoptions.StateRejected, adoptions.StateApproved} {
		_, err = f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: to})
		assert.ErrorIs(t, err, adoptions.ErrInvalidTransition, "approved -> %s", to)
	}

	assert.Equal(t, adoptions.StateApproved, f.state(t, r.ID))
	assert.Len(t, f.history(t, r.ID), 2)
}

func TestChangeState_PermissiveAllowsAnyListedTarget(t *testing.T) {
	f := newFixture(t, false)
	r := f.create(t, applicantID, animalID)

	_, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: adoptions.StateRejected})
	require.NoError(t, err)

	res, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: adoptions.StatePending})
	require.NoError(t, err)
	assert.Equal(t, adoptions.StateRejected, res.Previous)
	assert.Equal(t, adoptions.StatePending, res.Request.State)
	assert.Len(t, f.history(t, r.ID), 3)
}

func TestChangeState_PermissiveStillGuardsActiveDuplicate(t *testing.T) {
	f := newFixture(t, false)
	first := f.create(t, applicantID, animalID)
	_, err := f.svc.ChangeState(context.Background(), adminID, first.ID, adoptions.TransitionInput{State: adoptions.StateRejected})
	require.NoError(t, err)
	f.create(t, applicantID, animalID)

	_, err = f.svc.ChangeState(context.Background(), adminID, first.ID, adoptions.TransitionInput{State: adoptions.StateInReview})
	assert.ErrorIs(t, err, adoptions.ErrConflict)
	assert.Equal(t, adoptions.StateRejected, f.state(t, first.ID))
}

func TestChangeState_InvalidTargetAndMissingRequest(t *testing.T) {
	f := newFixture(t, false)
	r := f.create(t, applicantID, animalID)

	for _, to := range []adoptions.State{"", "bogus", adoptions.StateCancelled} {
		_, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: to})
		assert.ErrorIs(t, err, adoptions.ErrInvalidInput, "target %q", to)
	}

	_, err := f.svc.ChangeState(context.Background(), adminID, "missing", adoptions.TransitionInput{State: adoptions.StateApproved})
	assert.ErrorIs(t, err, adoptions.ErrNotFound)

	assert.Len(t, f.history(t, r.ID), 1)
}

// failingTx rompe la actualización del animal para probar el rollback.
type failingTx struct {
	adoptions.Tx
}

var errBoom = errors.New("boom")

func (failingTx) SetAnimalAvailability(context.Context, string, animals.Availability, time.Time) error {
	return errBoom
}

type failingStore struct {
	*memory.Store
}

func (s failingStore) WithTx(ctx context.Context, fn func(tx adoptions.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx adoptions.Tx) error {
		return fn(failingTx{Tx: tx})
	})
}

func TestChangeState_RollsBackEverythingWhenAnimalUpdateFails(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	svc := adoptions.NewService(failingStore{Store: f.store}, f.store, adoptions.Options{StrictTransitions: true, Now: f.clock.Now})

	_, err := svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: adoptions.StateApproved})
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, adoptions.StatePending, f.state(t, r.ID))
	assert.Len(t, f.history(t, r.ID), 1)
	assert.Equal(t, animals.AvailabilityAvailable, f.animal(t, animalID).Availability)

	notes, err := f.store.ListByUser(context.Background(), applicantID, false)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestApproveOffer_RollsBackWhenAnimalUpdateFails(t *testing.T) {
	f := newFixture(t, true)
	r, a, err := f.svc.CreateOffer(context.Background(), applicantID, offerInput())
	require.NoError(t, err)

	svc := adoptions.NewService(failingStore{Store: f.store}, f.store, adoptions.Options{StrictTransitions: true, Now: f.clock.Now})

	_, err = svc.ApproveOffer(context.Background(), adminID, r.ID, "publicar")
	require.ErrorIs(t, err, errBoom)

	v, err := f.store.GetView(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, adoptions.StatePending, v.State)
	assert.Nil(t, v.ApprovedAt)
	assert.Empty(t, v.ReviewerID)
	assert.Equal(t, animals.AvailabilityInReview, f.animal(t, a.ID).Availability)
	assert.Len(t, f.history(t, r.ID), 1)

	notes, err := f.store.ListByUser(context.Background(), applicantID, false)
	require.NoError(t, err)
	assert.Empty(t, notes)

	// El mismo pedido se puede aprobar después sin restos del intento fallido.
	res, err := f.svc.ApproveOffer(context.Background(), adminID, r.ID, "")
	require.NoError(t, err)
	assert.Equal(t, adoptions.StatePending, res.Previous)
	assert.Equal(t, animals.AvailabilityAvailable, f.animal(t, a.ID).Availability)
}

func TestChangeState_ConcurrentTransitionsSerialize(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	targets := []adoptions.State{adoptions.StateApproved, adoptions.StateRejected}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to adoptions.State) {
			defer wg.Done()
			_, errs[i] = f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: to})
		}(i, to)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, adoptions.ErrInvalidTransition)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	h := f.history(t, r.ID)
	require.Len(t, h, 2)
	assert.Equal(t, h[1].To, f.state(t, r.ID))
}

// ---- cancel ----

func TestCancel_FromCancellableStates(t *testing.T) {
	for _, from := range []adoptions.State{adoptions.StatePending, adoptions.StateInReview, adoptions.StateInfoRequested} {
		t.Run(string(from), func(t *testing.T) {
			f := newFixture(t, true)
			r := f.create(t, applicantID, animalID)
			if from != adoptions.StatePending {
				_, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: from})
				require.NoError(t, err)
			}
			before := len(f.history(t, r.ID))

			got, err := f.svc.Cancel(context.Background(), applicantID, r.ID)
			require.NoError(t, err)
			assert.Equal(t, adoptions.StateCancelled, got.State)

			h := f.history(t, r.ID)
			require.Len(t, h, before+1)
			last := h[len(h)-1]
			assert.Equal(t, statePtr(from), last.From)
			assert.Equal(t, adoptions.StateCancelled, last.To)
			assert.Equal(t, applicantID, last.ActorID)
		})
	}
}

func TestCancel_RejectedFromNonCancellableStates(t *testing.T) {
	for _, from := range []adoptions.State{adoptions.StateVisitScheduled, adoptions.StateApproved, adoptions.StateRejected} {
		t.Run(string(from), func(t *testing.T) {
			f := newFixture(t, true)
			r := f.create(t, applicantID, animalID)
			_, err := f.svc.ChangeState(context.Background(), adminID, r.ID, adoptions.TransitionInput{State: from})
			require.NoError(t, err)
			before := len(f.history(t, r.ID))

			_, err = f.svc.Cancel(context.Background(), applicantID, r.ID)
			assert.ErrorIs(t, err, adoptions.ErrInvalidTransition)
			assert.Equal(t, from, f.state(t, r.ID))
			assert.Len(t, f.history(t, r.ID), before)
		})
	}
}

func TestCancel_TwiceFails(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	_, err := f.svc.Cancel(context.Background(), applicantID, r.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), applicantID, r.ID)
	assert.ErrorIs(t, err, adoptions.ErrInvalidTransition)
}

func TestCancel_NotOwnerIsNotFound(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	_, err := f.svc.Cancel(context.Background(), otherUserID, r.ID)
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
	assert.Equal(t, adoptions.StatePending, f.state(t, r.ID))

	_, err = f.svc.Cancel(context.Background(), applicantID, "missing")
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

// ---- offers ----

func offerInput() adoptions.OfferInput {
	years := 2
	return adoptions.OfferInput{
		Animal: adoptions.OfferAnimalInput{
			Name:     "Luna",
			Species:  animals.SpeciesCat,
			Sex:      animals.SexFemale,
			AgeYears: &years,
		},
		Household: adoptions.HouseholdInput{HousingType: "departamento", Motivation: "Me mudo al extranjero"},
	}
}

func TestCreateOffer_CreatesAnimalInReview(t *testing.T) {
	f := newFixture(t, true)

	r, a, err := f.svc.CreateOffer(context.Background(), applicantID, offerInput())
	require.NoError(t, err)

	assert.Equal(t, adoptions.KindOffer, r.Kind)
	assert.Equal(t, adoptions.StatePending, r.State)
	assert.Equal(t, a.ID, r.AnimalID)
	assert.Equal(t, animals.AvailabilityInReview, f.animal(t, a.ID).Availability)
	assert.Len(t, f.history(t, r.ID), 1)
	assert.Equal(t, []string{"offer"}, f.observer.created)
}

func TestCreateOffer_Validation(t *testing.T) {
	f := newFixture(t, true)
	in := offerInput()
	in.Animal.Name = ""
	in.Animal.Species = ""
	in.Household.Motivation = ""

	_, _, err := f.svc.CreateOffer(context.Background(), applicantID, in)
	var ve *adoptions.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "species")
	assert.Contains(t, ve.Fields, "motivation")

	list, err := f.store.List(context.Background(), animals.ListFilter{Availability: animals.AvailabilityInReview})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApproveOffer_PublishesAnimal(t *testing.T) {
	f := newFixture(t, true)
	r, a, err := f.svc.CreateOffer(context.Background(), applicantID, offerInput())
	require.NoError(t, err)

	res, err := f.svc.ApproveOffer(context.Background(), adminID, r.ID, "")
	require.NoError(t, err)
	assert.Equal(t, adoptions.StateApproved, res.Request.State)
	assert.NotNil(t, res.Request.ApprovedAt)
	assert.Equal(t, animals.AvailabilityAvailable, f.animal(t, a.ID).Availability)

	notes, err := f.store.ListByUser(context.Background(), applicantID, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Tu mascota fue aprobada y ya está publicada para adopción", notes[0].Body)
}

func TestApproveOffer_RejectsAdoptRequests(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	_, err := f.svc.ApproveOffer(context.Background(), adminID, r.ID, "")
	assert.ErrorIs(t, err, adoptions.ErrInvalidTransition)
	assert.Equal(t, adoptions.StatePending, f.state(t, r.ID))

	_, err = f.svc.ApproveOffer(context.Background(), adminID, "missing", "")
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

func TestOffer_RejectOrCancelKeepsAnimalUnlisted(t *testing.T) {
	f := newFixture(t, true)

	rejected, a1, err := f.svc.CreateOffer(context.Background(), applicantID, offerInput())
	require.NoError(t, err)
	_, err = f.svc.ChangeState(context.Background(), adminID, rejected.ID, adoptions.TransitionInput{State: adoptions.StateRejected})
	require.NoError(t, err)
	assert.Equal(t, animals.AvailabilityUnavailable, f.animal(t, a1.ID).Availability)

	cancelled, a2, err := f.svc.CreateOffer(context.Background(), applicantID, offerInput())
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), applicantID, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, animals.AvailabilityUnavailable, f.animal(t, a2.ID).Availability)
}

// ---- reads and messages ----

func TestGetMine_OnlyOwner(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)

	d, err := f.svc.GetMine(context.Background(), applicantID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Firulais", d.Request.Animal.Name)
	assert.Equal(t, "lucia@example.com", d.Request.ApplicantEmail)
	assert.Len(t, d.History, 1)

	_, err = f.svc.GetMine(context.Background(), otherUserID, r.ID)
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

func TestChangeState_VisitScheduledStoresVisitForAdmins(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)
	ctx := context.Background()
	when := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	_, err := f.svc.ChangeState(ctx, adminID, r.ID, adoptions.TransitionInput{
		State: adoptions.StateVisitScheduled,
		Visit: &adoptions.VisitInput{ScheduledFor: when, VolunteerID: admin2ID, Notes: "  Llevar formulario  "},
	})
	require.NoError(t, err)

	d, err := f.svc.GetAny(ctx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Visit)
	assert.Equal(t, r.ID, d.Visit.RequestID)
	assert.True(t, when.Equal(d.Visit.ScheduledFor))
	assert.Equal(t, adminID, d.Visit.ScheduledBy)
	assert.Equal(t, "Ana Admin", d.Visit.ScheduledByName)
	assert.Equal(t, "Beto Admin", d.Visit.VolunteerName)
	assert.Equal(t, "Llevar formulario", d.Visit.Notes)

	mine, err := f.svc.GetMine(ctx, applicantID, r.ID)
	require.NoError(t, err)
	assert.Nil(t, mine.Visit)
}

func TestChangeState_VisitWithoutVisitStateIsInvalid(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)
	ctx := context.Background()

	_, err := f.svc.ChangeState(ctx, adminID, r.ID, adoptions.TransitionInput{
		State: adoptions.StateInReview,
		Visit: &adoptions.VisitInput{ScheduledFor: f.clock.Now()},
	})
	require.ErrorIs(t, err, adoptions.ErrInvalidInput)

	_, err = f.svc.ChangeState(ctx, adminID, r.ID, adoptions.TransitionInput{
		State: adoptions.StateVisitScheduled,
		Visit: &adoptions.VisitInput{},
	})
	require.ErrorIs(t, err, adoptions.ErrInvalidInput)
	var ve *adoptions.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "visit.scheduled_for")

	assert.Equal(t, adoptions.StatePending, f.state(t, r.ID))
	d, err := f.svc.GetAny(ctx, r.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Visit)
}

func TestMessages_InternalHiddenFromApplicant(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)
	ctx := context.Background()
	admin := auth.Claims{UserID: adminID, IsAdmin: true}

	internal, err := f.svc.AddMessage(ctx, admin, r.ID, adoptions.MessageInput{Body: "Revisar referencias", Internal: true})
	require.NoError(t, err)
	public, err := f.svc.AddMessage(ctx, admin, r.ID, adoptions.MessageInput{Body: "¿Tienes patio cercado?"})
	require.NoError(t, err)
	assert.Equal(t, applicantID, public.RecipientID)

	mine, err := f.svc.GetMine(ctx, applicantID, r.ID)
	require.NoError(t, err)
	require.Len(t, mine.Messages, 1)
	assert.Equal(t, public.ID, mine.Messages[0].ID)

	all, err := f.svc.GetAny(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, all.Messages, 2)
	assert.Equal(t, internal.ID, all.Messages[0].ID)
	assert.Equal(t, "Ana Admin", all.Messages[0].SenderName)
}

func TestMessages_ApplicantRoutedToReviewer(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)
	ctx := context.Background()
	applicant := auth.Claims{UserID: applicantID}

	// Sin revisor: primer admin del directorio.
	m, err := f.svc.AddMessage(ctx, applicant, r.ID, adoptions.MessageInput{Body: "Hola"})
	require.NoError(t, err)
	assert.Equal(t, adminID, m.RecipientID)

	_, err = f.svc.ChangeState(ctx, admin2ID, r.ID, adoptions.TransitionInput{State: adoptions.StateInReview})
	require.NoError(t, err)

	m, err = f.svc.AddMessage(ctx, applicant, r.ID, adoptions.MessageInput{Body: "¿Novedades?", Internal: true})
	require.NoError(t, err)
	assert.Equal(t, admin2ID, m.RecipientID)
	assert.False(t, m.Internal)
}

func TestMessages_FallbackToSenderWithoutAdmins(t *testing.T) {
	store := memory.New()
	seedAnimal(store, animalID, "Firulais", animals.AvailabilityAvailable, time.Now())
	svc := adoptions.NewService(store, store, adoptions.Options{})

	r, err := svc.CreateAdoption(context.Background(), applicantID, adoptions.CreateInput{AnimalID: animalID, Household: household()})
	require.NoError(t, err)

	m, err := svc.AddMessage(context.Background(), auth.Claims{UserID: applicantID}, r.ID, adoptions.MessageInput{Body: "Hola"})
	require.NoError(t, err)
	assert.Equal(t, applicantID, m.RecipientID)
}

func TestMessages_Validation(t *testing.T) {
	f := newFixture(t, true)
	r := f.create(t, applicantID, animalID)
	ctx := context.Background()

	_, err := f.svc.AddMessage(ctx, auth.Claims{UserID: applicantID}, r.ID, adoptions.MessageInput{Body: "   "})
	assert.ErrorIs(t, err, adoptions.ErrInvalidInput)

	_, err = f.svc.AddMessage(ctx, auth.Claims{UserID: otherUserID}, r.ID, adoptions.MessageInput{Body: "hola"})
	assert.ErrorIs(t, err, adoptions.ErrNotFound)

	_, err = f.svc.AddMessage(ctx, auth.Claims{UserID: adminID, IsAdmin: true}, "missing", adoptions.MessageInput{Body: "hola"})
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

func TestListAll_Filters(t *testing.T) {
	f := newFixture(t, true)
	seedAnimal(f.store, "animal-7", "Pelusa", animals.AvailabilityAvailable, f.clock.Now())
	ctx := context.Background()

	r1 := f.create(t, applicantID, animalID)
	f.clock.Advance(48 * time.Hour)
	r2 := f.create(t, otherUserID, "animal-7")
	_, err := f.svc.ChangeState(ctx, adminID, r2.ID, adoptions.TransitionInput{State: adoptions.StateInReview})
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx, adoptions.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, r2.ID, all[0].ID, "newest first")

	got, err := f.svc.ListAll(ctx, adoptions.ListFilter{State: adoptions.StateInReview})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r2.ID, got[0].ID)

	got, err = f.svc.ListAll(ctx, adoptions.ListFilter{Search: "pelu"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r2.ID, got[0].ID)

	got, err = f.svc.ListAll(ctx, adoptions.ListFilter{Search: "LUCÍA"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r1.ID, got[0].ID)

	got, err = f.svc.ListAll(ctx, adoptions.ListFilter{AnimalID: animalID})
	require.NoError(t, err)
	require.Len(t, got, 1)

	cut := r1.CreatedAt.Add(time.Hour)
	got, err = f.svc.ListAll(ctx, adoptions.ListFilter{To: &cut})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r1.ID, got[0].ID)

	got, err = f.svc.ListAll(ctx, adoptions.ListFilter{From: &cut})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, r2.ID, got[0].ID)

	_, err = f.svc.ListAll(ctx, adoptions.ListFilter{State: "bogus"})
	assert.ErrorIs(t, err, adoptions.ErrInvalidInput)
}

// ---- stats ----

func TestStats_ApprovalRateAndCounts(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	st, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.ApprovalRate)
	assert.Equal(t, 0, st.Total)

	n := 0
	decide := func(to adoptions.State) {
		n++
		id := fmt.Sprintf("animal-s%d", n)
		seedAnimal(f.store, id, "x", animals.AvailabilityAvailable, f.clock.Now())
		r := f.create(t, applicantID, id)
		f.clock.Advance(24 * time.Hour)
		_, err := f.svc.ChangeState(ctx, adminID, r.ID, adoptions.TransitionInput{State: to})
		require.NoError(t, err)
	}
	decide(adoptions.StateApproved)
	decide(adoptions.StateApproved)
	decide(adoptions.StateRejected)
	f.create(t, applicantID, animalID)

	st, err = f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 66.7, st.ApprovalRate)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.ByState[adoptions.StateApproved])
	assert.Equal(t, 1, st.ByState[adoptions.StateRejected])
	assert.Equal(t, 1, st.ByState[adoptions.StatePending])
	assert.Equal(t, 0, st.ByState[adoptions.StateCancelled])
	assert.Equal(t, 4, st.RequestsThisWeek)
	assert.Equal(t, 2, st.ApprovedThisMonth)
	assert.Equal(t, 1, st.AvgReviewDays)
}
