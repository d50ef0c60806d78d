package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/adoptions"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
	"github.com/Jorge-dev09/backend-tienda/internal/domain/notifications"

	"github.com/jackc/pgx/v5"
)

const activeRequestIndex = "adoption_requests_active_uq"

const requestColumns = `
	r.id, r.applicant_id, r.animal_id, r.kind, r.state,
	r.housing_type, r.has_yard, r.has_other_pets, r.other_pets_description, r.motivation, r.experience,
	r.reviewer_id, r.approved_by, r.approved_at, r.rejected_by, r.rejected_at, r.rejection_reason,
	r.created_at, r.reviewed_at, r.updated_at`

// requestDest devuelve los destinos de Scan para requestColumns.
func requestDest(r *adoptions.Request, reviewer, approvedBy, rejectedBy **string) []any {
	return []any{
		&r.ID, &r.ApplicantID, &r.AnimalID, &r.Kind, &r.State,
		&r.Household.HousingType, &r.Household.HasYard, &r.Household.HasOtherPets,
		&r.Household.OtherPetsDescription, &r.Household.Motivation, &r.Household.Experience,
		reviewer, approvedBy, &r.ApprovedAt, rejectedBy, &r.RejectedAt, &r.RejectionReason,
		&r.CreatedAt, &r.ReviewedAt, &r.UpdatedAt,
	}
}

func scanRequest(row pgx.Row) (adoptions.Request, error) {
	var (
		r                                adoptions.Request
		reviewer, approvedBy, rejectedBy *string
	)
	if err := row.Scan(requestDest(&r, &reviewer, &approvedBy, &rejectedBy)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adoptions.Request{}, adoptions.ErrNotFound
		}
		return adoptions.Request{}, err
	}
	r.ReviewerID = deref(reviewer)
	r.ApprovedBy = deref(approvedBy)
	r.RejectedBy = deref(rejectedBy)
	return r, nil
}

// ---- transacción ----

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) LockRequest(ctx context.Context, id string) (adoptions.Request, error) {
	return scanRequest(t.tx.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM adoption_requests r
		WHERE r.id = $1
		FOR UPDATE
	`, id))
}

func (t *pgTx) LockAnimal(ctx context.Context, id string) (animals.Animal, error) {
	return scanAnimal(t.tx.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1 FOR UPDATE`, id))
}

func (t *pgTx) HasActiveRequest(ctx context.Context, applicantID, animalID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM adoption_requests
			WHERE applicant_id = $1 AND animal_id = $2
			  AND state NOT IN ('approved', 'rejected', 'cancelled')
		)
	`, applicantID, animalID).Scan(&exists)
	return exists, err
}

func (t *pgTx) CreateAnimal(ctx context.Context, a animals.Animal) error {
	return insertAnimal(ctx, t.tx, a)
}

func (t *pgTx) SetAnimalAvailability(ctx context.Context, animalID string, av animals.Availability, at time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE animals SET availability = $2, updated_at = $3 WHERE id = $1
	`, animalID, av, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (t *pgTx) CreateRequest(ctx context.Context, r adoptions.Request) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO adoption_requests (
			id, applicant_id, animal_id, kind, state,
			housing_type, has_yard, has_other_pets, other_pets_description, motivation, experience,
			reviewer_id, approved_by, approved_at, rejected_by, rejected_at, rejection_reason,
			created_at, reviewed_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		r.ID, r.ApplicantID, r.AnimalID, r.Kind, r.State,
		r.Household.HousingType, r.Household.HasYard, r.Household.HasOtherPets,
		r.Household.OtherPetsDescription, r.Household.Motivation, r.Household.Experience,
		nullString(r.ReviewerID), nullString(r.ApprovedBy), r.ApprovedAt,
		nullString(r.RejectedBy), r.RejectedAt, r.RejectionReason,
		r.CreatedAt, r.ReviewedAt, r.UpdatedAt,
	)
	if isUniqueViolation(err, activeRequestIndex) {
		return adoptions.ErrDuplicateActive
	}
	return err
}

// UpdateRequest no toca los datos del hogar: son inmutables.
func (t *pgTx) UpdateRequest(ctx context.Context, r adoptions.Request) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE adoption_requests
		SET
			state = $2,
			reviewer_id = $3,
			approved_by = $4,
			approved_at = $5,
			rejected_by = $6,
			rejected_at = $7,
			rejection_reason = $8,
			reviewed_at = $9,
			updated_at = $10
		WHERE id = $1
	`,
		r.ID, r.State,
		nullString(r.ReviewerID), nullString(r.ApprovedBy), r.ApprovedAt,
		nullString(r.RejectedBy), r.RejectedAt, r.RejectionReason,
		r.ReviewedAt, r.UpdatedAt,
	)
	if isUniqueViolation(err, activeRequestIndex) {
		return adoptions.ErrDuplicateActive
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func (t *pgTx) AppendHistory(ctx context.Context, h adoptions.HistoryEntry) error {
	var from *string
	if h.From != nil {
		s := string(*h.From)
		from = &s
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO request_history (id, request_id, from_state, to_state, actor_id, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, h.ID, h.RequestID, from, h.To, h.ActorID, h.Note, h.CreatedAt)
	return err
}

func (t *pgTx) AddMessage(ctx context.Context, m adoptions.Message) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO request_messages (id, request_id, sender_id, recipient_id, body, internal, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, m.ID, m.RequestID, m.SenderID, m.RecipientID, m.Body, m.Internal, m.CreatedAt)
	return err
}

func (t *pgTx) CreateNotification(ctx context.Context, n notifications.Notification) error {
	return insertNotification(ctx, t.tx, n)
}

// SaveVisit reagenda sobre la misma fila (request_id es UNIQUE).
func (t *pgTx) SaveVisit(ctx context.Context, v adoptions.Visit) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO home_visits (id, request_id, scheduled_for, volunteer_id, scheduled_by, notes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (request_id) DO UPDATE SET
			scheduled_for = EXCLUDED.scheduled_for,
			volunteer_id  = EXCLUDED.volunteer_id,
			scheduled_by  = EXCLUDED.scheduled_by,
			notes         = EXCLUDED.notes,
			updated_at    = EXCLUDED.updated_at
	`, v.ID, v.RequestID, v.ScheduledFor, nullString(v.VolunteerID), v.ScheduledBy, v.Notes, v.CreatedAt, v.UpdatedAt)
	return err
}

// ---- lecturas ----

const viewSelect = `
	SELECT ` + requestColumns + `,
		a.id, a.name, a.species, a.breed, a.age_years, a.age_months, a.image_url, a.availability,
		COALESCE(u.name, ''), COALESCE(u.last_name, ''), COALESCE(u.email, ''),
		COALESCE(rv.name, ''), COALESCE(rv.last_name, '')
	FROM adoption_requests r
	JOIN animals a ON a.id = r.animal_id
	LEFT JOIN users u ON u.id = r.applicant_id
	LEFT JOIN users rv ON rv.id = r.reviewer_id`

func scanView(row pgx.Row) (adoptions.RequestView, error) {
	var (
		v                                adoptions.RequestView
		reviewer, approvedBy, rejectedBy *string
		name, lastName                   string
		reviewerName, reviewerLast       string
	)
	dest := requestDest(&v.Request, &reviewer, &approvedBy, &rejectedBy)
	dest = append(dest,
		&v.Animal.ID, &v.Animal.Name, &v.Animal.Species, &v.Animal.Breed,
		&v.Animal.AgeYears, &v.Animal.AgeMonths, &v.Animal.ImageURL, &v.Animal.Availability,
		&name, &lastName, &v.ApplicantEmail,
		&reviewerName, &reviewerLast,
	)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return adoptions.RequestView{}, adoptions.ErrNotFound
		}
		return adoptions.RequestView{}, err
	}
	v.ReviewerID = deref(reviewer)
	v.ApprovedBy = deref(approvedBy)
	v.RejectedBy = deref(rejectedBy)
	v.ApplicantName = strings.TrimSpace(name + " " + lastName)
	v.ReviewerName = strings.TrimSpace(reviewerName + " " + reviewerLast)
	return v, nil
}

func (s *Store) GetView(ctx context.Context, id string) (adoptions.RequestView, error) {
	return scanView(s.pool.QueryRow(ctx, viewSelect+` WHERE r.id = $1`, id))
}

func (s *Store) ListViews(ctx context.Context, f adoptions.ListFilter) ([]adoptions.RequestView, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.ApplicantID != "" {
		add("r.applicant_id = $%d", f.ApplicantID)
	}
	if f.State != "" {
		add("r.state = $%d", f.State)
	}
	if f.Kind != "" {
		add("r.kind = $%d", f.Kind)
	}
	if f.AnimalID != "" {
		add("r.animal_id = $%d", f.AnimalID)
	}
	if f.From != nil {
		add("r.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("r.created_at < $%d", *f.To)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		args = append(args, "%"+term+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(u.name ILIKE $%[1]d OR u.last_name ILIKE $%[1]d OR u.email ILIKE $%[1]d OR a.name ILIKE $%[1]d)", n))
	}

	q := viewSelect
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY r.created_at DESC, r.id`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.RequestView, 0)
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) ListHistory(ctx context.Context, requestID string) ([]adoptions.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT h.id, h.request_id, h.from_state, h.to_state, h.actor_id,
			TRIM(COALESCE(u.name, '') || ' ' || COALESCE(u.last_name, '')),
			h.note, h.created_at
		FROM request_history h
		LEFT JOIN users u ON u.id = h.actor_id
		WHERE h.request_id = $1
		ORDER BY h.created_at, h.id
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.HistoryEntry, 0)
	for rows.Next() {
		var (
			h    adoptions.HistoryEntry
			from *string
		)
		if err := rows.Scan(&h.ID, &h.RequestID, &from, &h.To, &h.ActorID, &h.ActorName, &h.Note, &h.CreatedAt); err != nil {
			return nil, err
		}
		if from != nil {
			st := adoptions.State(*from)
			h.From = &st
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) ListMessages(ctx context.Context, requestID string, includeInternal bool) ([]adoptions.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.request_id, m.sender_id,
			TRIM(COALESCE(u.name, '') || ' ' || COALESCE(u.last_name, '')),
			m.recipient_id, m.body, m.internal, m.created_at
		FROM request_messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.request_id = $1 AND ($2 OR NOT m.internal)
		ORDER BY m.created_at, m.id
	`, requestID, includeInternal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adoptions.Message, 0)
	for rows.Next() {
		var m adoptions.Message
		if err := rows.Scan(&m.ID, &m.RequestID, &m.SenderID, &m.SenderName, &m.RecipientID, &m.Body, &m.Internal, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) GetVisit(ctx context.Context, requestID string) (*adoptions.Visit, error) {
	var (
		v         adoptions.Visit
		volunteer *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT v.id, v.request_id, v.scheduled_for, v.volunteer_id,
			TRIM(COALESCE(vu.name, '') || ' ' || COALESCE(vu.last_name, '')),
			v.scheduled_by,
			TRIM(COALESCE(su.name, '') || ' ' || COALESCE(su.last_name, '')),
			v.notes, v.created_at, v.updated_at
		FROM home_visits v
		LEFT JOIN users vu ON vu.id = v.volunteer_id
		LEFT JOIN users su ON su.id = v.scheduled_by
		WHERE v.request_id = $1
	`, requestID).Scan(&v.ID, &v.RequestID, &v.ScheduledFor, &volunteer, &v.VolunteerName,
		&v.ScheduledBy, &v.ScheduledByName, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	v.VolunteerID = deref(volunteer)
	return &v, nil
}

func (s *Store) Stats(ctx context.Context, w adoptions.StatsWindow) (adoptions.StatsCounts, error) {
	c := adoptions.StatsCounts{ByState: make(map[adoptions.State]int)}

	rows, err := s.pool.Query(ctx, `SELECT state, COUNT(*) FROM adoption_requests GROUP BY state`)
	if err != nil {
		return adoptions.StatsCounts{}, err
	}
	for rows.Next() {
		var (
			st adoptions.State
			n  int
		)
		if err := rows.Scan(&st, &n); err != nil {
			rows.Close()
			return adoptions.StatsCounts{}, err
		}
		c.ByState[st] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return adoptions.StatsCounts{}, err
	}

	var avgDays *float64
	err = s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE state = 'approved' AND approved_at >= $2 AND approved_at < $3),
			(AVG((reviewed_at AT TIME ZONE 'UTC')::date - (created_at AT TIME ZONE 'UTC')::date) FILTER (WHERE reviewed_at IS NOT NULL))::float8
		FROM adoption_requests
	`, w.WeekStart, w.MonthStart, w.MonthEnd).Scan(&c.CreatedSince, &c.ApprovedInMonth, &avgDays)
	if err != nil {
		return adoptions.StatsCounts{}, err
	}
	if avgDays != nil {
		c.HasReviewedSample = true
		c.AvgReviewDays = *avgDays
	}
	return c, nil
}
