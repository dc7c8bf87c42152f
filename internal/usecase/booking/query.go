package booking

import (
	"context"

	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

// ======================================================
// GET
// ======================================================

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
	if !domain.CanView(b, actor) {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return b, nil
}

// ======================================================
// LIST
// ======================================================

type ListBookingsInput struct {
	Actor  domain.Actor
	Status string
	Page   int
	Limit  int
}

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Execute lists the bookings the actor takes part in: as tourist for
// tourists, as guide for guides, all of them for admins.
func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) ([]models.Booking, int64, error) {

	f := domain.ListFilter{Page: in.Page, Limit: in.Limit}

	if in.Status != "" {
		if _, ok := domain.ParseStatus(in.Status); !ok {
			return nil, 0, httperr.ErrBusiness(httperr.CodeInvalidStatus)
		}
		f.Status = in.Status
	}

	userID := in.Actor.UserID
	switch in.Actor.Role {
	case access.RoleTourist:
		f.TouristID = &userID
	case access.RoleGuide:
		f.GuideID = &userID
	case access.RoleAdmin:
	default:
		return nil, 0, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	return uc.repo.ListBookings(ctx, f)
}
