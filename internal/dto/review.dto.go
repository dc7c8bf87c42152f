package dto

import (
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type ReviewDTO struct {
	ID        uint           `json:"id"`
	BookingID uint           `json:"booking_id"`
	GuideID   uint           `json:"guide_id"`
	Tourist   UserSummaryDTO `json:"tourist"`

	Rating     models.ReviewScores `json:"rating"`
	Comment    string              `json:"comment"`
	IsApproved bool                `json:"is_approved"`

	GuideResponse string     `json:"guide_response,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewReview(r *models.Review) ReviewDTO {
	tourist := NewUserSummary(r.Tourist)
	tourist.ID = r.TouristID

	return ReviewDTO{
		ID:            r.ID,
		BookingID:     r.BookingID,
		GuideID:       r.GuideID,
		Tourist:       tourist,
		Rating:        r.Rating,
		Comment:       r.Comment,
		IsApproved:    r.IsApproved,
		GuideResponse: r.GuideResponse,
		RespondedAt:   r.RespondedAt,
		CreatedAt:     r.CreatedAt,
	}
}

func NewReviewList(reviews []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReview(&reviews[i]))
	}
	return out
}
