package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-guide-api/internal/domain/rating"
	reviewDomain "github.com/BruksfildServices01/tour-guide-api/internal/domain/review"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type RatingGormRepository struct {
	db *gorm.DB
}

func NewRatingGormRepository(db *gorm.DB) *RatingGormRepository {
	return &RatingGormRepository{db: db}
}

func (r *RatingGormRepository) ListApprovedScores(
	ctx context.Context,
	guideUserID uint,
) ([]domain.Scores, error) {

	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Select("rating_overall", "rating_knowledge", "rating_communication", "rating_punctuality").
		Where("guide_id = ? AND is_approved = ?", guideUserID, true).
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	scores := make([]domain.Scores, 0, len(reviews))
	for _, rv := range reviews {
		scores = append(scores, reviewDomain.ToRating(rv.Rating))
	}
	return scores, nil
}

// SaveSnapshot overwrites every rating column, zero values included.
func (r *RatingGormRepository) SaveSnapshot(
	ctx context.Context,
	guideUserID uint,
	s domain.Snapshot,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.GuideProfile{}).
		Where("user_id = ?", guideUserID).
		Updates(map[string]any{
			"rating_average":                 s.Average,
			"rating_count":                   s.Count,
			"rating_breakdown_knowledge":     s.Breakdown.Knowledge,
			"rating_breakdown_communication": s.Breakdown.Communication,
			"rating_breakdown_punctuality":   s.Breakdown.Punctuality,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *RatingGormRepository) ListGuideUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.GuideProfile{}).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Compile-time check
var _ domain.Repository = (*RatingGormRepository)(nil)
