package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/booking"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Guide
// --------------------------------------------------

// GetGuideProfile loads the profile together with its user. Returns
// (nil, nil) when the guide has none.
func (r *BookingGormRepository) GetGuideProfile(
	ctx context.Context,
	guideUserID uint,
) (*models.GuideProfile, error) {

	var profile models.GuideProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", guideUserID).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) HasSlotConflict(
	ctx context.Context,
	guideID uint,
	date string,
	startTime string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"guide_id = ? AND date = ? AND start_time = ? AND status IN ?",
			guideID, date, startTime, domain.ActiveStatuses(),
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// --------------------------------------------------
// Booking (read / state change)
// --------------------------------------------------

// GetBooking returns (nil, nil) when the booking does not exist.
func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Tourist").
		Preload("Guide").
		First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).
		Model(b).
		Select(
			"status",
			"cancelled_by",
			"cancellation_reason",
			"cancelled_at",
			"confirmed_at",
			"rejected_at",
			"completed_at",
			"updated_at",
		).
		Updates(b).Error
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})

	if f.TouristID != nil {
		q = q.Where("tourist_id = ?", *f.TouristID)
	}
	if f.GuideID != nil {
		q = q.Where("guide_id = ?", *f.GuideID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	if err := q.
		Preload("Tourist").
		Preload("Guide").
		Order("date DESC, start_time DESC, id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
