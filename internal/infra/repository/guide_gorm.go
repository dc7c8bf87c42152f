package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/guide"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type GuideGormRepository struct {
	db *gorm.DB
}

func NewGuideGormRepository(db *gorm.DB) *GuideGormRepository {
	return &GuideGormRepository{db: db}
}

func (r *GuideGormRepository) List(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.GuideProfile, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.GuideProfile{}).
		Joins("JOIN users ON users.id = guide_profiles.user_id").
		Where("guide_profiles.verification_status = ?", domain.VerificationApproved).
		Where("guide_profiles.is_available = ?", true).
		Where("users.is_active = ? AND users.is_banned = ?", true, false)

	// --------------------------------------------------
	// Filters
	// --------------------------------------------------

	if f.City != "" {
		q = q.Where(jsonArrayContains(r.db, "guide_profiles.cities"), strings.ToLower(f.City))
	}
	if f.Language != "" {
		q = q.Where(jsonArrayContains(r.db, "guide_profiles.languages"), strings.ToLower(f.Language))
	}
	if f.Specialty != "" {
		q = q.Where(jsonArrayContains(r.db, "guide_profiles.specialties"), strings.ToLower(f.Specialty))
	}
	if f.MinPrice != nil {
		q = q.Where("guide_profiles.hourly_rate >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("guide_profiles.hourly_rate <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("guide_profiles.rating_average >= ?", *f.MinRating)
	}
	if f.MinExperience != nil {
		q = q.Where("guide_profiles.years_of_experience >= ?", *f.MinExperience)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var guides []models.GuideProfile
	if err := q.
		Preload("User").
		Order(orderFor(f.Sort)).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&guides).Error; err != nil {
		return nil, 0, err
	}

	return guides, total, nil
}

func (r *GuideGormRepository) GetByUserID(
	ctx context.Context,
	userID uint,
) (*models.GuideProfile, error) {

	var p models.GuideProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func orderFor(s domain.Sort) string {
	switch s {
	case domain.SortPriceAsc:
		return "guide_profiles.hourly_rate ASC, guide_profiles.id ASC"
	case domain.SortPriceDesc:
		return "guide_profiles.hourly_rate DESC, guide_profiles.id ASC"
	case domain.SortExperience:
		return "guide_profiles.years_of_experience DESC, guide_profiles.id ASC"
	case domain.SortNewest:
		return "guide_profiles.created_at DESC, guide_profiles.id DESC"
	default:
		return "guide_profiles.rating_average DESC, guide_profiles.rating_count DESC, guide_profiles.id ASC"
	}
}

// jsonArrayContains builds a case-insensitive membership test on a JSON
// array of strings. The argument must already be lowercased.
func jsonArrayContains(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE LOWER(json_each.value) = ?)"
	}
	return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(" + column + ") AS elem WHERE LOWER(elem) = ?)"
}

// Compile-time check
var _ domain.Repository = (*GuideGormRepository)(nil)
