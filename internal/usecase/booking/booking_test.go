package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/infra/repository"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
	"github.com/BruksfildServices01/tour-guide-api/internal/testutil"
)

// blindRepo never reports a conflict, so only the unique index can stop a
// double booking. It stands in for two requests racing past the check.
type blindRepo struct {
	*repository.BookingGormRepository
}

func (blindRepo) HasSlotConflict(context.Context, uint, string, string) (bool, error) {
	return false, nil
}

type fixture struct {
	db      *gorm.DB
	repo    *repository.BookingGormRepository
	tourist *models.User
	guide   *models.User
	profile *models.GuideProfile
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	g, p := testutil.CreateGuide(t, db, 45.5)
	return fixture{
		db:      db,
		repo:    repository.NewBookingGormRepository(db),
		tourist: testutil.CreateUser(t, db, "tourist"),
		guide:   g,
		profile: p,
	}
}

func (f fixture) input(date, start string) CreateBookingInput {
	return CreateBookingInput{
		TouristID: f.tourist.ID,
		GuideID:   f.guide.ID,
		Date:      date,
		StartTime: start,
		Duration:  3,
	}
}

// ======================================================
// CREATE
// ======================================================

func TestCreateBooking_FreezesPrice(t *testing.T) {
	f := setup(t)
	uc := NewCreateBooking(f.repo, nil, time.UTC)

	b, err := uc.Execute(context.Background(), f.input(testutil.FutureDate(3), "10:00"))
	require.NoError(t, err)

	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, 136.5, b.TotalPrice)
	assert.Equal(t, 1, b.GroupSize)

	// later rate changes do not touch existing bookings
	require.NoError(t, f.db.Model(f.profile).Update("hourly_rate", 99).Error)
	var stored models.Booking
	require.NoError(t, f.db.First(&stored, b.ID).Error)
	assert.Equal(t, 136.5, stored.TotalPrice)
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	f := setup(t)
	uc := NewCreateBooking(f.repo, nil, time.UTC)
	ctx := context.Background()
	date := testutil.FutureDate(5)

	_, err := uc.Execute(ctx, f.input(date, "09:00"))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, f.input(date, "09:00"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))

	// overlapping but different start time is not detected
	_, err = uc.Execute(ctx, f.input(date, "10:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_UniqueIndexClosesRace(t *testing.T) {
	f := setup(t)
	uc := NewCreateBooking(blindRepo{f.repo}, nil, time.UTC)
	ctx := context.Background()
	date := testutil.FutureDate(5)

	_, err := uc.Execute(ctx, f.input(date, "09:00"))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, f.input(date, "09:00"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))
}

func TestCreateBooking_SlotFreedAfterReject(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	create := NewCreateBooking(f.repo, nil, time.UTC)
	update := NewUpdateBookingStatus(f.repo, nil)
	date := testutil.FutureDate(5)

	b, err := create.Execute(ctx, f.input(date, "09:00"))
	require.NoError(t, err)

	_, err = update.Execute(ctx, UpdateStatusInput{
		BookingID: b.ID,
		Actor:     domain.Actor{UserID: f.guide.ID, Role: access.RoleGuide},
		Status:    "rejected",
	})
	require.NoError(t, err)

	_, err = create.Execute(ctx, f.input(date, "09:00"))
	assert.NoError(t, err)
}

func TestCreateBooking_Rejections(t *testing.T) {
	f := setup(t)
	uc := NewCreateBooking(f.repo, nil, time.UTC)
	ctx := context.Background()

	in := f.input(testutil.FutureDate(2), "10:00")
	in.TouristID = f.guide.ID
	_, err := uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeCannotBookSelf))

	in = f.input(testutil.FutureDate(2), "10:00")
	in.GuideID = f.tourist.ID + 1000
	_, err = uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeGuideNotFound))

	_, err = uc.Execute(ctx, f.input("2020-01-01", "10:00"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDateInPast))

	_, err = uc.Execute(ctx, f.input("2026-02-30", "10:00"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidDateOrTime))
}

func TestCreateBooking_GuideMustBeBookable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f fixture) error
	}{
		{"pending verification", func(f fixture) error {
			return f.db.Model(f.profile).Update("verification_status", "pending").Error
		}},
		{"unavailable", func(f fixture) error {
			return f.db.Model(f.profile).Update("is_available", false).Error
		}},
		{"banned", func(f fixture) error {
			return f.db.Model(f.guide).Update("is_banned", true).Error
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			require.NoError(t, tt.mutate(f))

			_, err := NewCreateBooking(f.repo, nil, time.UTC).
				Execute(context.Background(), f.input(testutil.FutureDate(2), "10:00"))
			assert.True(t, httperr.IsBusiness(err, httperr.CodeGuideNotFound))
		})
	}
}

func TestCreateBooking_UsesServiceTimezone(t *testing.T) {
	f := setup(t)
	loc := time.FixedZone("UTC+5", 5*60*60)
	uc := NewCreateBooking(f.repo, nil, loc)

	// 2026-06-01 02:00 UTC is already 07:00 on the service clock
	uc.now = func() time.Time { return time.Date(2026, 6, 1, 2, 0, 0, 0, time.UTC) }

	_, err := uc.Execute(context.Background(), f.input("2026-06-01", "06:00"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeDateInPast))

	_, err = uc.Execute(context.Background(), f.input("2026-06-01", "08:00"))
	assert.NoError(t, err)
}

// ======================================================
// STATUS
// ======================================================

func TestUpdateStatus_RejectThenCancel(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := NewUpdateBookingStatus(f.repo, nil)
	b := testutil.CreateBooking(t, f.db, f.tourist.ID, f.guide.ID, "pending")

	got, err := uc.Execute(ctx, UpdateStatusInput{
		BookingID: b.ID,
		Actor:     domain.Actor{UserID: f.guide.ID, Role: access.RoleGuide},
		Status:    "rejected",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", got.Status)

	_, err = uc.Execute(ctx, UpdateStatusInput{
		BookingID: b.ID,
		Actor:     domain.Actor{UserID: f.tourist.ID, Role: access.RoleTourist},
		Status:    "cancelled",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	var stored models.Booking
	require.NoError(t, f.db.First(&stored, b.ID).Error)
	assert.Equal(t, "rejected", stored.Status)
	assert.NotNil(t, stored.RejectedAt)
}

func TestUpdateStatus_AdminCancelRecordsAdmin(t *testing.T) {
	f := setup(t)
	admin := testutil.CreateUser(t, f.db, "admin")
	b := testutil.CreateBooking(t, f.db, f.tourist.ID, f.guide.ID, "completed")

	got, err := NewUpdateBookingStatus(f.repo, nil).Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID,
		Actor:     domain.Actor{UserID: admin.ID, Role: access.RoleAdmin},
		Status:    "cancelled",
		Reason:    "fraud",
	})
	require.NoError(t, err)
	require.NotNil(t, got.CancelledBy)
	assert.Equal(t, admin.ID, *got.CancelledBy)
}

func TestUpdateStatus_AdminReactivateOnTakenSlot(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, f.db, "admin")
	adminActor := domain.Actor{UserID: admin.ID, Role: access.RoleAdmin}
	uc := NewUpdateBookingStatus(f.repo, nil)

	first := testutil.CreateBooking(t, f.db, f.tourist.ID, f.guide.ID, "pending")
	_, err := uc.Execute(ctx, UpdateStatusInput{BookingID: first.ID, Actor: adminActor, Status: "cancelled"})
	require.NoError(t, err)

	second := &models.Booking{
		TouristID:  f.tourist.ID,
		GuideID:    f.guide.ID,
		Date:       first.Date,
		StartTime:  first.StartTime,
		Duration:   2,
		GroupSize:  1,
		TotalPrice: 100,
		Status:     "pending",
	}
	require.NoError(t, f.db.Create(second).Error)

	_, err = uc.Execute(ctx, UpdateStatusInput{BookingID: first.ID, Actor: adminActor, Status: "pending"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))

	var stored models.Booking
	require.NoError(t, f.db.First(&stored, first.ID).Error)
	assert.Equal(t, "cancelled", stored.Status)
}

func TestUpdateStatus_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	uc := NewUpdateBookingStatus(f.repo, nil)
	b := testutil.CreateBooking(t, f.db, f.tourist.ID, f.guide.ID, "pending")
	guideActor := domain.Actor{UserID: f.guide.ID, Role: access.RoleGuide}

	_, err := uc.Execute(ctx, UpdateStatusInput{BookingID: b.ID, Actor: guideActor, Status: "archived"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStatus))

	_, err = uc.Execute(ctx, UpdateStatusInput{BookingID: 9999, Actor: guideActor, Status: "confirmed"})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingNotFound))

	other, _ := testutil.CreateGuide(t, f.db, 10)
	_, err = uc.Execute(ctx, UpdateStatusInput{
		BookingID: b.ID,
		Actor:     domain.Actor{UserID: other.ID, Role: access.RoleGuide},
		Status:    "confirmed",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))
}

// ======================================================
// QUERIES
// ======================================================

func TestListBookings_ScopedByRole(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	other := testutil.CreateUser(t, f.db, "tourist")
	admin := testutil.CreateUser(t, f.db, "admin")

	testutil.CreateBooking(t, f.db, f.tourist.ID, f.guide.ID, "pending")
	testutil.CreateBooking(t, f.db, other.ID, f.guide.ID, "confirmed")

	uc := NewListBookings(f.repo)

	_, total, err := uc.Execute(ctx, ListBookingsInput{Actor: domain.Actor{UserID: f.tourist.ID, Role: access.RoleTourist}, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = uc.Execute(ctx, ListBookingsInput{Actor: domain.Actor{UserID: f.guide.ID, Role: access.RoleGuide}, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = uc.Execute(ctx, ListBookingsInput{Actor: domain.Actor{UserID: admin.ID, Role: access.RoleAdmin}, Status: "confirmed", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, _, err = uc.Execute(ctx, ListBookingsInput{Actor: domain.Actor{UserID: admin.ID, Role: access.RoleAdmin}, Status: "lost", Page: 1, Limit: 10})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStatus))
}

func TestGetBooking_Visibility(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	b := testutil.CreateBooking(t, f.db, f.tourist.ID, f.guide.ID, "pending")
	uc := NewGetBooking(f.repo)

	got, err := uc.Execute(ctx, domain.Actor{UserID: f.tourist.ID, Role: access.RoleTourist}, b.ID)
	require.NoError(t, err)
	assert.Equal(t, f.guide.ID, got.Guide.ID)

	stranger := testutil.CreateUser(t, f.db, "tourist")
	_, err = uc.Execute(ctx, domain.Actor{UserID: stranger.ID, Role: access.RoleTourist}, b.ID)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))

	_, err = uc.Execute(ctx, domain.Actor{UserID: f.tourist.ID, Role: access.RoleTourist}, 4242)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingNotFound))
}
