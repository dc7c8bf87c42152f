package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/audit"
	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	"github.com/BruksfildServices01/tour-guide-api/internal/domain/guide"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
	"github.com/BruksfildServices01/tour-guide-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TouristID uint
	GuideID   uint

	Date      string
	StartTime string
	Duration  int

	GroupSize    int
	MeetingPoint string
	Notes        string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
	now   func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
		loc:   loc,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if in.TouristID == in.GuideID {
		return nil, httperr.ErrBusiness(httperr.CodeCannotBookSelf)
	}

	// --------------------------------------------------
	// Guide must be bookable
	// --------------------------------------------------
	profile, err := uc.repo.GetGuideProfile(ctx, in.GuideID)
	if err != nil {
		return nil, err
	}
	if !guide.Bookable(profile) {
		return nil, httperr.ErrBusiness(httperr.CodeGuideNotFound)
	}

	// --------------------------------------------------
	// Date / time in the service timezone
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(in.Date, in.StartTime, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime)
	}
	if start.Before(uc.now().In(uc.loc)) {
		return nil, httperr.ErrBusiness(httperr.CodeDateInPast)
	}

	// --------------------------------------------------
	// Slot conflict
	// --------------------------------------------------
	conflict, err := uc.repo.HasSlotConflict(ctx, in.GuideID, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, httperr.ErrBusiness(httperr.CodeSlotTaken)
	}

	groupSize := in.GroupSize
	if groupSize <= 0 {
		groupSize = 1
	}

	b := &models.Booking{
		TouristID:    in.TouristID,
		GuideID:      in.GuideID,
		Date:         in.Date,
		StartTime:    in.StartTime,
		Duration:     in.Duration,
		GroupSize:    groupSize,
		MeetingPoint: in.MeetingPoint,
		Notes:        in.Notes,
		TotalPrice:   domain.Price(profile.HourlyRate, in.Duration),
		Status:       string(domain.InitialStatus()),
	}

	// the partial unique index catches a concurrent request that passed
	// the conflict check at the same time
	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.TouristID,
		Action:   audit.ActionBookingCreated,
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"guide_id":    b.GuideID,
			"date":        b.Date,
			"start_time":  b.StartTime,
			"total_price": b.TotalPrice,
		},
	})

	return b, nil
}
