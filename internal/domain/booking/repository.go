package booking

import (
	"context"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type ListFilter struct {
	TouristID *uint
	GuideID   *uint
	Status    string
	Page      int
	Limit     int
}

type Repository interface {
	// -------- Guide --------
	GetGuideProfile(
		ctx context.Context,
		guideUserID uint,
	) (*models.GuideProfile, error)

	// -------- Booking (create / conflict) --------
	HasSlotConflict(
		ctx context.Context,
		guideID uint,
		date string,
		startTime string,
	) (bool, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (read / state change) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookings(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Booking, int64, error)
}
