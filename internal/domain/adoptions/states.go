package adoptions

// State del ciclo de vida de una solicitud.
// @Enum pending, in_review, info_requested, visit_scheduled, approved, rejected, cancelled
type State string

const (
	StatePending        State = "pending"
	StateInReview       State = "in_review"
	StateInfoRequested  State = "info_requested"
	StateVisitScheduled State = "visit_scheduled"
	StateApproved       State = "approved"
	StateRejected       State = "rejected"
	StateCancelled      State = "cancelled"
)

// AllStates en orden del flujo (útil para stats y filtros).
var AllStates = []State{
	StatePending,
	StateInReview,
	StateInfoRequested,
	StateVisitScheduled,
	StateApproved,
	StateRejected,
	StateCancelled,
}

func (s State) Valid() bool {
	for _, v := range AllStates {
		if v == s {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool {
	return s == StateApproved || s == StateRejected || s == StateCancelled
}

// AdminSettable: destinos aceptados por ChangeState. cancelled queda
// reservado al solicitante.
func (s State) AdminSettable() bool {
	return s.Valid() && s != StateCancelled
}

// Cancellable: estados desde los que el solicitante puede cancelar.
func (s State) Cancellable() bool {
	return s == StatePending || s == StateInReview || s == StateInfoRequested
}

// edges es el flujo nominal:
//
//	pending -> in_review -> info_requested -> visit_scheduled -> approved
//	cualquier no terminal -> rejected
//
// Se permite saltar etapas hacia adelante e info_requested -> in_review
// (el solicitante respondió).
var edges = map[State][]State{
	StatePending:        {StateInReview, StateInfoRequested, StateVisitScheduled, StateApproved, StateRejected},
	StateInReview:       {StateInfoRequested, StateVisitScheduled, StateApproved, StateRejected},
	StateInfoRequested:  {StateInReview, StateVisitScheduled, StateApproved, StateRejected},
	StateVisitScheduled: {StateApproved, StateRejected},
}

// CanTransition valida una transición de admin con el flujo estricto.
func CanTransition(from, to State) bool {
	for _, s := range edges[from] {
		if s == to {
			return true
		}
	}
	return false
}
