package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	bookingdomain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	guidedomain "github.com/BruksfildServices01/tour-guide-api/internal/domain/guide"
	ratingdomain "github.com/BruksfildServices01/tour-guide-api/internal/domain/rating"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
	"github.com/BruksfildServices01/tour-guide-api/internal/testutil"
)

// --------------------------------------------------
// Booking
// --------------------------------------------------

func TestBookingRepository_SlotConflictOnlyForActive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	tourist := testutil.CreateUser(t, db, "tourist")
	guideUser, _ := testutil.CreateGuide(t, db, 40)
	b := testutil.CreateBooking(t, db, tourist.ID, guideUser.ID, "pending")

	conflict, err := repo.HasSlotConflict(ctx, guideUser.ID, b.Date, b.StartTime)
	require.NoError(t, err)
	assert.True(t, conflict)

	require.NoError(t, db.Model(b).Update("status", "rejected").Error)

	conflict, err = repo.HasSlotConflict(ctx, guideUser.ID, b.Date, b.StartTime)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestBookingRepository_UniqueIndexRejectsSecondActive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	tourist := testutil.CreateUser(t, db, "tourist")
	guideUser, _ := testutil.CreateGuide(t, db, 40)
	first := testutil.CreateBooking(t, db, tourist.ID, guideUser.ID, "confirmed")

	dup := &models.Booking{
		TouristID:  tourist.ID,
		GuideID:    guideUser.ID,
		Date:       first.Date,
		StartTime:  first.StartTime,
		Duration:   1,
		TotalPrice: 40,
		Status:     "pending",
	}
	err := repo.CreateBooking(ctx, dup)
	require.Error(t, err)
	assert.True(t, httperr.IsUniqueViolation(err))

	// a cancelled booking does not hold the slot
	require.NoError(t, db.Model(first).Update("status", "cancelled").Error)
	dup.ID = 0
	require.NoError(t, repo.CreateBooking(ctx, dup))
}

func TestBookingRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	t1 := testutil.CreateUser(t, db, "tourist")
	t2 := testutil.CreateUser(t, db, "tourist")
	g, _ := testutil.CreateGuide(t, db, 40)

	testutil.CreateBooking(t, db, t1.ID, g.ID, "pending")
	testutil.CreateBooking(t, db, t1.ID, g.ID, "confirmed")
	testutil.CreateBooking(t, db, t2.ID, g.ID, "pending")

	list, total, err := repo.ListBookings(ctx, bookingdomain.ListFilter{TouristID: &t1.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)
	assert.Equal(t, t1.ID, list[0].Tourist.ID)

	list, total, err = repo.ListBookings(ctx, bookingdomain.ListFilter{GuideID: &g.ID, Status: "pending", Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 1)
}

func TestBookingRepository_UpdatePersistsTransition(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	tourist := testutil.CreateUser(t, db, "tourist")
	g, _ := testutil.CreateGuide(t, db, 40)
	b := testutil.CreateBooking(t, db, tourist.ID, g.ID, "confirmed")

	loaded, err := repo.GetBooking(ctx, b.ID)
	require.NoError(t, err)

	actor := bookingdomain.Actor{UserID: tourist.ID, Role: "tourist"}
	require.NoError(t, bookingdomain.Transition(loaded, actor, bookingdomain.StatusCancelled, "rain", loaded.CreatedAt))
	require.NoError(t, repo.UpdateBooking(ctx, loaded))

	again, err := repo.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", again.Status)
	assert.Equal(t, "rain", again.CancellationReason)
	require.NotNil(t, again.CancelledBy)
	assert.Equal(t, tourist.ID, *again.CancelledBy)

	missing, err := repo.GetBooking(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// --------------------------------------------------
// Rating
// --------------------------------------------------

func TestRatingRepository_SnapshotRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRatingGormRepository(db)
	ctx := context.Background()

	tourist := testutil.CreateUser(t, db, "tourist")
	g, _ := testutil.CreateGuide(t, db, 40)

	for _, overall := range []int{5, 4, 3} {
		b := testutil.CreateBooking(t, db, tourist.ID, g.ID, "completed")
		require.NoError(t, db.Create(&models.Review{
			BookingID:  b.ID,
			TouristID:  tourist.ID,
			GuideID:    g.ID,
			Rating:     models.ReviewScores{Overall: overall},
			IsApproved: true,
		}).Error)
	}

	scores, err := repo.ListApprovedScores(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	found, err := repo.SaveSnapshot(ctx, g.ID, ratingdomain.Compute(scores))
	require.NoError(t, err)
	assert.True(t, found)

	var p models.GuideProfile
	require.NoError(t, db.Where("user_id = ?", g.ID).First(&p).Error)
	assert.Equal(t, 4.0, p.Rating.Average)
	assert.Equal(t, 3, p.Rating.Count)
	assert.Equal(t, 4.0, p.Rating.Breakdown.Punctuality)

	// an empty snapshot must zero the columns
	found, err = repo.SaveSnapshot(ctx, g.ID, ratingdomain.Snapshot{})
	require.NoError(t, err)
	assert.True(t, found)
	require.NoError(t, db.Where("user_id = ?", g.ID).First(&p).Error)
	assert.Equal(t, 0.0, p.Rating.Average)
	assert.Equal(t, 0, p.Rating.Count)
}

func TestRatingRepository_MissingProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRatingGormRepository(db)

	u := testutil.CreateUser(t, db, "guide")
	found, err := repo.SaveSnapshot(context.Background(), u.ID, ratingdomain.Snapshot{Average: 5, Count: 1})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRatingRepository_ListGuideUserIDs(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRatingGormRepository(db)

	g1, _ := testutil.CreateGuide(t, db, 10)
	g2, _ := testutil.CreateGuide(t, db, 20)

	ids, err := repo.ListGuideUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{g1.ID, g2.ID}, ids)
}

// --------------------------------------------------
// Review
// --------------------------------------------------

func TestReviewRepository_CreateKeepsUnapproved(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewGormRepository(db)
	ctx := context.Background()

	tourist := testutil.CreateUser(t, db, "tourist")
	g, _ := testutil.CreateGuide(t, db, 40)
	b := testutil.CreateBooking(t, db, tourist.ID, g.ID, "completed")

	rv := &models.Review{BookingID: b.ID, TouristID: tourist.ID, GuideID: g.ID, Rating: models.ReviewScores{Overall: 2}}
	require.NoError(t, repo.Create(ctx, rv))

	loaded, err := repo.Get(ctx, rv.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsApproved)

	exists, err := repo.ExistsForBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, total, err := repo.ListApprovedForGuide(ctx, g.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestReviewRepository_UniquePerBooking(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewGormRepository(db)
	ctx := context.Background()

	tourist := testutil.CreateUser(t, db, "tourist")
	g, _ := testutil.CreateGuide(t, db, 40)
	b := testutil.CreateBooking(t, db, tourist.ID, g.ID, "completed")

	require.NoError(t, repo.Create(ctx, &models.Review{BookingID: b.ID, TouristID: tourist.ID, GuideID: g.ID, Rating: models.ReviewScores{Overall: 5}, IsApproved: true}))
	err := repo.Create(ctx, &models.Review{BookingID: b.ID, TouristID: tourist.ID, GuideID: g.ID, Rating: models.ReviewScores{Overall: 1}, IsApproved: true})
	assert.True(t, httperr.IsUniqueViolation(err))
}

// --------------------------------------------------
// Guide
// --------------------------------------------------

func TestGuideRepository_ListFiltersAndSorts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGuideGormRepository(db)
	ctx := context.Background()

	_, cheap := testutil.CreateGuide(t, db, 20)
	_, pricey := testutil.CreateGuide(t, db, 90)
	require.NoError(t, db.Model(pricey).Updates(map[string]any{
		"cities":         datatypes.JSONSlice[string]{"Porto", "Lisbon"},
		"languages":      datatypes.JSONSlice[string]{"Portuguese"},
		"specialties":    datatypes.JSONSlice[string]{"food"},
		"rating_average": 4.8,
	}).Error)

	_, pending := testutil.CreateGuide(t, db, 50)
	require.NoError(t, db.Model(pending).Update("verification_status", "pending").Error)

	bannedUser, _ := testutil.CreateGuide(t, db, 60)
	require.NoError(t, db.Model(bannedUser).Update("is_banned", true).Error)

	page := func(f guidedomain.ListFilter) ([]models.GuideProfile, int64) {
		f.Page, f.Limit = 1, 10
		list, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		return list, total
	}

	list, total := page(guidedomain.ListFilter{Sort: guidedomain.SortPriceAsc})
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, cheap.ID, list[0].ID)
	assert.NotEmpty(t, list[0].User.Name)

	list, _ = page(guidedomain.ListFilter{City: "lisbon", Sort: guidedomain.SortPriceDesc})
	require.Len(t, list, 2)
	assert.Equal(t, pricey.ID, list[0].ID)

	list, _ = page(guidedomain.ListFilter{City: "PORTO"})
	require.Len(t, list, 1)
	assert.Equal(t, pricey.ID, list[0].ID)

	list, _ = page(guidedomain.ListFilter{Language: "portuguese", Specialty: "food"})
	require.Len(t, list, 1)

	minPrice := 50.0
	list, _ = page(guidedomain.ListFilter{MinPrice: &minPrice})
	require.Len(t, list, 1)
	assert.Equal(t, pricey.ID, list[0].ID)

	minRating := 4.5
	list, _ = page(guidedomain.ListFilter{MinRating: &minRating})
	require.Len(t, list, 1)

	list, _ = page(guidedomain.ListFilter{Sort: guidedomain.SortRating})
	require.Len(t, list, 2)
	assert.Equal(t, pricey.ID, list[0].ID)
}

func TestGuideRepository_GetByUserID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGuideGormRepository(db)

	u, p := testutil.CreateGuide(t, db, 20)
	got, err := repo.GetByUserID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, u.Email, got.User.Email)

	got, err = repo.GetByUserID(context.Background(), 4242)
	require.NoError(t, err)
	assert.Nil(t, got)
}
