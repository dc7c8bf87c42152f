package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type UpdateStatusInput struct {
	BookingID uint
	Actor     domain.Actor
	Status    string
	Reason    string
}

type UpdateBookingStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}

	from := b.Status
	if err := domain.Transition(b, in.Actor, to, in.Reason, uc.now().UTC()); err != nil {
		return nil, err
	}

	// reactivating a booking whose slot was taken again trips the active
	// slot index
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   audit.ActionBookingStatus,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"from":   from,
			"to":     b.Status,
			"role":   in.Actor.Role,
			"reason": in.Reason,
		},
	})

	return b, nil
}
