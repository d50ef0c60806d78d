package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/adoptions"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"
)

// memTx opera sobre la copia de WithTx; no toma locks propios.
type memTx struct {
	d *state
}

func (t *memTx) LockRequest(ctx context.Context, id string) (adoptions.Request, error) {
	r, ok := t.d.requests[id]
	if !ok {
		return adoptions.Request{}, adoptions.ErrNotFound
	}
	return r, nil
}

func (t *memTx) LockAnimal(ctx context.Context, id string) (animals.Animal, error) {
	a, ok := t.d.animals[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (t *memTx) HasActiveRequest(ctx context.Context, applicantID, animalID string) (bool, error) {
	return t.activeFor(applicantID, animalID, "") != "", nil
}

// activeFor emula el índice único parcial de postgres.
func (t *memTx) activeFor(applicantID, animalID, exceptID string) string {
	for id, r := range t.d.requests {
		if id != exceptID && r.ApplicantID == applicantID && r.AnimalID == animalID && r.Active() {
			return id
		}
	}
	return ""
}

func (t *memTx) CreateAnimal(ctx context.Context, a animals.Animal) error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := t.d.animals[a.ID]; exists {
		return errors.New("animal already exists")
	}
	t.d.animals[a.ID] = a
	return nil
}

func (t *memTx) SetAnimalAvailability(ctx context.Context, animalID string, av animals.Availability, at time.Time) error {
	a, ok := t.d.animals[animalID]
	if !ok {
		return animals.ErrNotFound
	}
	a.Availability = av
	a.UpdatedAt = at
	t.d.animals[animalID] = a
	return nil
}

func (t *memTx) CreateRequest(ctx context.Context, r adoptions.Request) error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("request id required")
	}
	if _, exists := t.d.requests[r.ID]; exists {
		return errors.New("request already exists")
	}
	if r.Active() && t.activeFor(r.ApplicantID, r.AnimalID, "") != "" {
		return adoptions.ErrDuplicateActive
	}
	t.d.requests[r.ID] = r
	return nil
}

func (t *memTx) UpdateRequest(ctx context.Context, r adoptions.Request) error {
	if _, exists := t.d.requests[r.ID]; !exists {
		return adoptions.ErrNotFound
	}
	if r.Active() && t.activeFor(r.ApplicantID, r.AnimalID, r.ID) != "" {
		return adoptions.ErrDuplicateActive
	}
	t.d.requests[r.ID] = r
	return nil
}

func (t *memTx) AppendHistory(ctx context.Context, h adoptions.HistoryEntry) error {
	t.d.history = append(t.d.history, h)
	return nil
}

func (t *memTx) AddMessage(ctx context.Context, m adoptions.Message) error {
	t.d.messages = append(t.d.messages, m)
	return nil
}

func (t *memTx) CreateNotification(ctx context.Context, n notifications.Notification) error {
	t.d.notifications = append(t.d.notifications, n)
	return nil
}

// SaveVisit conserva ID y CreatedAt de una visita previa.
func (t *memTx) SaveVisit(ctx context.Context, v adoptions.Visit) error {
	if _, ok := t.d.requests[v.RequestID]; !ok {
		return adoptions.ErrNotFound
	}
	if prev, ok := t.d.visits[v.RequestID]; ok {
		v.ID = prev.ID
		v.CreatedAt = prev.CreatedAt
	}
	t.d.visits[v.RequestID] = v
	return nil
}

// ---- lecturas ----

func (s *Store) GetView(ctx context.Context, id string) (adoptions.RequestView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data.requests[id]
	if !ok {
		return adoptions.RequestView{}, adoptions.ErrNotFound
	}
	return s.view(r), nil
}

func (s *Store) view(r adoptions.Request) adoptions.RequestView {
	v := adoptions.RequestView{Request: r}
	if a, ok := s.data.animals[r.AnimalID]; ok {
		v.Animal = adoptions.AnimalSnapshot{
			ID:           a.ID,
			Name:         a.Name,
			Species:      a.Species,
			Breed:        a.Breed,
			AgeYears:     a.AgeYears,
			AgeMonths:    a.AgeMonths,
			ImageURL:     a.ImageURL,
			Availability: a.Availability,
		}
	}
	applicant := s.lookupUser(r.ApplicantID)
	v.ApplicantName = applicant.FullName()
	v.ApplicantEmail = applicant.Email
	v.ReviewerName = s.lookupUser(r.ReviewerID).FullName()
	return v
}

func (s *Store) ListViews(ctx context.Context, f adoptions.ListFilter) ([]adoptions.RequestView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]adoptions.RequestView, 0)
	for _, r := range s.data.requests {
		if f.ApplicantID != "" && r.ApplicantID != f.ApplicantID {
			continue
		}
		if f.State != "" && r.State != f.State {
			continue
		}
		if f.Kind != "" && r.Kind != f.Kind {
			continue
		}
		if f.AnimalID != "" && r.AnimalID != f.AnimalID {
			continue
		}
		if f.From != nil && r.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !r.CreatedAt.Before(*f.To) {
			continue
		}

		v := s.view(r)
		if search != "" {
			applicant := s.lookupUser(r.ApplicantID)
			if !matchesSearch(search, applicant.Name, applicant.LastName, v.ApplicantEmail, v.Animal.Name) {
				continue
			}
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matchesSearch(term string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (s *Store) ListHistory(ctx context.Context, requestID string) ([]adoptions.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]adoptions.HistoryEntry, 0)
	for _, h := range s.data.history {
		if h.RequestID != requestID {
			continue
		}
		h.ActorName = s.lookupUser(h.ActorID).FullName()
		out = append(out, h)
	}
	return out, nil
}

func (s *Store) ListMessages(ctx context.Context, requestID string, includeInternal bool) ([]adoptions.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]adoptions.Message, 0)
	for _, m := range s.data.messages {
		if m.RequestID != requestID || (m.Internal && !includeInternal) {
			continue
		}
		m.SenderName = s.lookupUser(m.SenderID).FullName()
		out = append(out, m)
	}
	return out, nil
}

func (s *Store) GetVisit(ctx context.Context, requestID string) (*adoptions.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data.visits[requestID]
	if !ok {
		return nil, nil
	}
	v.VolunteerName = s.lookupUser(v.VolunteerID).FullName()
	v.ScheduledByName = s.lookupUser(v.ScheduledBy).FullName()
	return &v, nil
}

func (s *Store) Stats(ctx context.Context, w adoptions.StatsWindow) (adoptions.StatsCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := adoptions.StatsCounts{ByState: make(map[adoptions.State]int)}
	var reviewed, totalDays int
	for _, r := range s.data.requests {
		c.ByState[r.State]++
		if !r.CreatedAt.Before(w.WeekStart) {
			c.CreatedSince++
		}
		if r.State == adoptions.StateApproved && r.ApprovedAt != nil &&
			!r.ApprovedAt.Before(w.MonthStart) && r.ApprovedAt.Before(w.MonthEnd) {
			c.ApprovedInMonth++
		}
		if r.ReviewedAt != nil {
			reviewed++
			totalDays += adoptions.ReviewDays(r.CreatedAt, *r.ReviewedAt)
		}
	}
	if reviewed > 0 {
		c.HasReviewedSample = true
		c.AvgReviewDays = float64(totalDays) / float64(reviewed)
	}
	return c, nil
}
