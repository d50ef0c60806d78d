package adoptions

import (
	"github.com/Jorge-dev09/backend-tienda/internal/domain/animals"
)

// kindPolicy concentra lo que cambia entre adopt y offer: el efecto de cada
// transición sobre la disponibilidad del animal y el texto de la notificación.
// Un valor vacío de Availability significa "no tocar el animal".
type kindPolicy struct {
	onApprove animals.Availability
	onReject  animals.Availability
	onCancel  animals.Availability

	approvedMessage string
}

var policies = map[Kind]kindPolicy{
	// Adoptar retira al animal del catálogo.
	KindAdopt: {
		onApprove:       animals.AvailabilityAdopted,
		approvedMessage: "¡Felicitaciones! Tu solicitud ha sido aprobada",
	},
	// Ofrecer lo publica; si se rechaza o se cancela nunca llega al catálogo.
	KindOffer: {
		onApprove:       animals.AvailabilityAvailable,
		onReject:        animals.AvailabilityUnavailable,
		onCancel:        animals.AvailabilityUnavailable,
		approvedMessage: "Tu mascota fue aprobada y ya está publicada para adopción",
	},
}

func policyFor(k Kind) kindPolicy {
	if p, ok := policies[k]; ok {
		return p
	}
	return policies[KindAdopt]
}

func (p kindPolicy) availabilityOn(to State) animals.Availability {
	switch to {
	case StateApproved:
		return p.onApprove
	case StateRejected:
		return p.onReject
	case StateCancelled:
		return p.onCancel
	}
	return ""
}

const notificationTitle = "Actualización de solicitud"

var stateMessages = map[State]string{
	StatePending:        "Tu solicitud está pendiente de revisión",
	StateInReview:       "Tu solicitud está siendo revisada por nuestro equipo",
	StateInfoRequested:  "Necesitamos más información sobre tu solicitud",
	StateVisitScheduled: "Se ha agendado una visita domiciliaria",
	StateRejected:       "Tu solicitud ha sido rechazada",
}

func (p kindPolicy) notificationBody(to State) string {
	if to == StateApproved {
		return p.approvedMessage
	}
	return stateMessages[to]
}
