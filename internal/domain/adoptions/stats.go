package adoptions

import (
	"context"
	"math"
	"time"
)

// Stats es el tablero del admin.
type Stats struct {
	ByState           map[State]int
	Total             int
	RequestsThisWeek  int
	ApprovedThisMonth int
	// ApprovalRate = approved / (approved + rejected) * 100, un decimal.
	ApprovalRate float64
	// AvgReviewDays: promedio de ReviewDays, redondeado.
	AvgReviewDays int
}

// WindowAt calcula los cortes de semana (últimos 7 días) y mes calendario.
func WindowAt(now time.Time) StatsWindow {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return StatsWindow{
		WeekStart:  now.AddDate(0, 0, -7),
		MonthStart: monthStart,
		MonthEnd:   monthStart.AddDate(0, 1, 0),
	}
}

// ReviewDays cuenta días de calendario (UTC) entre alta y primera revisión:
// creada a las 23:00 y revisada a la 01:00 del día siguiente es 1.
func ReviewDays(createdAt, reviewedAt time.Time) int {
	c := createdAt.UTC()
	r := reviewedAt.UTC()
	from := time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.Year(), r.Month(), r.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.store.Stats(ctx, WindowAt(s.now()))
	if err != nil {
		return Stats{}, err
	}
	return buildStats(counts), nil
}

func buildStats(c StatsCounts) Stats {
	out := Stats{
		ByState:           make(map[State]int, len(AllStates)),
		RequestsThisWeek:  c.CreatedSince,
		ApprovedThisMonth: c.ApprovedInMonth,
	}
	for _, st := range AllStates {
		n := c.ByState[st]
		out.ByState[st] = n
		out.Total += n
	}
	out.ApprovalRate = approvalRate(out.ByState[StateApproved], out.ByState[StateRejected])
	if c.HasReviewedSample {
		out.AvgReviewDays = int(math.Round(c.AvgReviewDays))
	}
	return out
}

func approvalRate(approved, rejected int) float64 {
	decided := approved + rejected
	if decided == 0 {
		return 0
	}
	rate := float64(approved) / float64(decided) * 100
	return math.Round(rate*10) / 10
}
