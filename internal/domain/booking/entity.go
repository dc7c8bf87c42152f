package booking

import (
	"fmt"
	"math"
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type Actor = access.Actor

type party int

const (
	partyGuide party = iota
	partyTourist
)

// transitions lists the non-admin edges of the state machine and which
// participant may take each one.
var transitions = map[Status]map[Status]party{
	StatusPending: {
		StatusConfirmed: partyGuide,
		StatusRejected:  partyGuide,
	},
	StatusConfirmed: {
		StatusCompleted: partyGuide,
		StatusCancelled: partyTourist,
	},
}

// ===============================
// Domain Rules
// ===============================

func IsParticipant(b *models.Booking, userID uint) bool {
	return b.TouristID == userID || b.GuideID == userID
}

// CanView allows the two participants and admins.
func CanView(b *models.Booking, actor Actor) bool {
	return actor.Role == access.RoleAdmin || IsParticipant(b, actor.UserID)
}

// CanTransition checks both the state machine and who is acting. Admins may
// force any change of status.
func CanTransition(b *models.Booking, actor Actor, to Status) error {
	from := Status(b.Status)
	if from == to {
		return httperr.ErrBusinessf(httperr.CodeInvalidTransition, fmt.Sprintf("booking is already %s", to))
	}

	if actor.Role == access.RoleAdmin {
		return nil
	}

	if !IsParticipant(b, actor.UserID) {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}

	who, ok := transitions[from][to]
	if !ok {
		return httperr.ErrBusinessf(httperr.CodeInvalidTransition, fmt.Sprintf("booking cannot move from %s to %s", from, to))
	}

	switch who {
	case partyGuide:
		if actor.UserID != b.GuideID {
			return httperr.ErrBusiness(httperr.CodeTransitionNotOwned)
		}
	case partyTourist:
		if actor.UserID != b.TouristID {
			return httperr.ErrBusiness(httperr.CodeTransitionNotOwned)
		}
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

func Transition(b *models.Booking, actor Actor, to Status, reason string, now time.Time) error {
	if err := CanTransition(b, actor, to); err != nil {
		return err
	}

	b.Status = string(to)

	switch to {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusRejected:
		b.RejectedAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		by := actor.UserID
		b.CancelledBy = &by
		b.CancellationReason = reason
		b.CancelledAt = &now
	}
	return nil
}

// Price is the amount charged for a booking, rounded to cents.
func Price(hourlyRate float64, hours int) float64 {
	return math.Round(hourlyRate*float64(hours)*100) / 100
}
