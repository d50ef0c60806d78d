package adoptions

import (
	"testing"
	"time"

	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[State][]State{
		StatePending:        {StateInReview, StateInfoRequested, StateVisitScheduled, StateApproved, StateRejected},
		StateInReview:       {StateInfoRequested, StateVisitScheduled, StateApproved, StateRejected},
		StateInfoRequested:  {StateInReview, StateVisitScheduled, StateApproved, StateRejected},
		StateVisitScheduled: {StateApproved, StateRejected},
	}

	for _, from := range AllStates {
		for _, to := range AllStates {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, s := range []State{StateApproved, StateRejected, StateCancelled} {
		assert.True(t, s.Terminal())
		assert.False(t, s.Cancellable())
		for _, to := range AllStates {
			assert.False(t, CanTransition(s, to), "%s -> %s", s, to)
		}
	}
}

func TestAdminSettableExcludesCancelled(t *testing.T) {
	assert.False(t, StateCancelled.AdminSettable())
	assert.False(t, State("bogus").AdminSettable())
	for _, s := range AllStates {
		if s != StateCancelled {
			assert.True(t, s.AdminSettable(), s)
		}
	}
}

func TestKindPolicy(t *testing.T) {
	adopt := policyFor(KindAdopt)
	assert.Equal(t, animals.AvailabilityAdopted, adopt.availabilityOn(StateApproved))
	assert.Equal(t, animals.Availability(""), adopt.availabilityOn(StateRejected))
	assert.Equal(t, animals.Availability(""), adopt.availabilityOn(StateCancelled))
	assert.Equal(t, animals.Availability(""), adopt.availabilityOn(StateInReview))

	offer := policyFor(KindOffer)
	assert.Equal(t, animals.AvailabilityAvailable, offer.availabilityOn(StateApproved))
	assert.Equal(t, animals.AvailabilityUnavailable, offer.availabilityOn(StateRejected))
	assert.Equal(t, animals.AvailabilityUnavailable, offer.availabilityOn(StateCancelled))

	for _, s := range AllStates {
		if s.AdminSettable() {
			assert.NotEmpty(t, adopt.notificationBody(s), s)
			assert.NotEmpty(t, offer.notificationBody(s), s)
		}
	}
}

func TestApprovalRate(t *testing.T) {
	cases := []struct {
		approved, rejected int
		want               float64
	}{
		{0, 0, 0},
		{3, 0, 100},
		{0, 4, 0},
		{3, 1, 75},
		{1, 2, 33.3},
		{2, 1, 66.7},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, approvalRate(c.approved, c.rejected), "%d/%d", c.approved, c.rejected)
	}
}

func TestBuildStats(t *testing.T) {
	st := buildStats(StatsCounts{
		ByState:           map[State]int{StateApproved: 3, StateRejected: 1, StatePending: 2},
		CreatedSince:      4,
		ApprovedInMonth:   2,
		AvgReviewDays:     2.5,
		HasReviewedSample: true,
	})

	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 75.0, st.ApprovalRate)
	assert.Equal(t, 3, st.AvgReviewDays)
	assert.Equal(t, 4, st.RequestsThisWeek)
	assert.Equal(t, 2, st.ApprovedThisMonth)
	assert.Len(t, st.ByState, len(AllStates))
	assert.Equal(t, 0, st.ByState[StateCancelled])

	assert.Equal(t, 0, buildStats(StatsCounts{AvgReviewDays: 9}).AvgReviewDays)
}

func TestWindowAt(t *testing.T) {
	now := time.Date(2026, 12, 15, 9, 30, 0, 0, time.UTC)
	w := WindowAt(now)

	assert.Equal(t, time.Date(2026, 12, 8, 9, 30, 0, 0, time.UTC), w.WeekStart)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), w.MonthStart)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), w.MonthEnd)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"motivation": "required", "housing_type": "required"}}
	assert.Equal(t, "invalid input: housing_type: required, motivation: required", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewDays_CountsCalendarDays(t *testing.T) {
	late := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, ReviewDays(late, late.Add(2*time.Hour)))
	assert.Equal(t, 0, ReviewDays(late, late.Add(30*time.Minute)))
	assert.Equal(t, 0, ReviewDays(time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC), time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)))
	assert.Equal(t, 3, ReviewDays(late, time.Date(2026, 3, 13, 8, 0, 0, 0, time.UTC)))

	// Se compara en UTC aunque el valor venga con otra zona.
	art := time.FixedZone("ART", -3*3600)
	assert.Equal(t, 1, ReviewDays(time.Date(2026, 3, 10, 20, 0, 0, 0, art), time.Date(2026, 3, 10, 22, 0, 0, 0, art)))
}
