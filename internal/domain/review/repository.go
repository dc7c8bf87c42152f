package review

import (
	"context"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type Repository interface {
	GetBooking(ctx context.Context, bookingID uint) (*models.Booking, error)
	ExistsForBooking(ctx context.Context, bookingID uint) (bool, error)

	Create(ctx context.Context, r *models.Review) error
	Get(ctx context.Context, id uint) (*models.Review, error)
	Update(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, r *models.Review) error

	ListApprovedForGuide(ctx context.Context, guideUserID uint, page, limit int) ([]models.Review, int64, error)
}
