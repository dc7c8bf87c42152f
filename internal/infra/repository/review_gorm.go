package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/review"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) GetBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).First(&b, bookingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *ReviewGormRepository) ExistsForBooking(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the review. is_approved is written explicitly because the
// column default would otherwise replace a false value.
func (r *ReviewGormRepository) Create(ctx context.Context, rv *models.Review) error {
	approved := rv.IsApproved
	if err := r.db.WithContext(ctx).Create(rv).Error; err != nil {
		return err
	}
	if !approved {
		rv.IsApproved = false
		return r.db.WithContext(ctx).Model(rv).Update("is_approved", false).Error
	}
	return nil
}

// Get returns (nil, nil) when the review does not exist.
func (r *ReviewGormRepository) Get(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	err := r.db.WithContext(ctx).Preload("Tourist").First(&rv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewGormRepository) Update(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).
		Model(rv).
		Select(
			"rating_overall",
			"rating_knowledge",
			"rating_communication",
			"rating_punctuality",
			"comment",
			"is_approved",
			"guide_response",
			"responded_at",
			"updated_at",
		).
		Updates(rv).Error
}

func (r *ReviewGormRepository) Delete(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Delete(rv).Error
}

func (r *ReviewGormRepository) ListApprovedForGuide(
	ctx context.Context,
	guideUserID uint,
	page, limit int,
) ([]models.Review, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("guide_id = ? AND is_approved = ?", guideUserID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	if err := q.
		Preload("Tourist").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// Compile-time check
var _ domain.Repository = (*ReviewGormRepository)(nil)
