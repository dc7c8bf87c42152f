package review

import (
	"context"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	bookingdomain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/review"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

// RatingRefresher recomputes a guide's rating after a review change.
type RatingRefresher interface {
	Refresh(ctx context.Context, guideUserID uint)
}

// ======================================================
// INPUT
// ======================================================

type CreateReviewInput struct {
	Actor     access.Actor
	BookingID uint
	Rating    domain.ScoresInput
	Comment   string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReview struct {
	repo    domain.Repository
	ratings RatingRefresher
	audit   *audit.Dispatcher
}

func NewCreateReview(
	repo domain.Repository,
	ratings RatingRefresher,
	audit *audit.Dispatcher,
) *CreateReview {
	return &CreateReview{
		repo:    repo,
		ratings: ratings,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReview) Execute(
	ctx context.Context,
	in CreateReviewInput,
) (*models.Review, error) {

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
	if b.Status != string(bookingdomain.StatusCompleted) {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotCompleted)
	}
	if b.TouristID != in.Actor.UserID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	exists, err := uc.repo.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.ErrBusiness(httperr.CodeReviewExists)
	}

	scores, err := domain.NewScores(in.Rating)
	if err != nil {
		return nil, err
	}

	rv := &models.Review{
		BookingID:  b.ID,
		TouristID:  b.TouristID,
		GuideID:    b.GuideID,
		Rating:     scores,
		Comment:    in.Comment,
		IsApproved: true,
	}

	if err := uc.repo.Create(ctx, rv); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness(httperr.CodeReviewExists)
		}
		return nil, err
	}

	uc.ratings.Refresh(ctx, rv.GuideID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   audit.ActionReviewCreated,
		Entity:   "review",
		EntityID: &rv.ID,
		Metadata: map[string]any{"booking_id": b.ID, "overall": scores.Overall},
	})

	return rv, nil
}
