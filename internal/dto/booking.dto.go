package dto

import (
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type BookingDTO struct {
	ID      uint           `json:"id"`
	Tourist UserContactDTO `json:"tourist"`
	Guide   UserContactDTO `json:"guide"`

	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	Duration     int     `json:"duration"`
	GroupSize    int     `json:"group_size"`
	MeetingPoint string  `json:"meeting_point"`
	Notes        string  `json:"notes"`
	TotalPrice   float64 `json:"total_price"`
	Status       string  `json:"status"`

	CancelledBy        *uint      `json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewBooking(b *models.Booking) BookingDTO {
	tourist := NewUserContact(b.Tourist)
	tourist.ID = b.TouristID
	guide := NewUserContact(b.Guide)
	guide.ID = b.GuideID

	return BookingDTO{
		ID:                 b.ID,
		Tourist:            tourist,
		Guide:              guide,
		Date:               b.Date,
		StartTime:          b.StartTime,
		Duration:           b.Duration,
		GroupSize:          b.GroupSize,
		MeetingPoint:       b.MeetingPoint,
		Notes:              b.Notes,
		TotalPrice:         b.TotalPrice,
		Status:             b.Status,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		ConfirmedAt:        b.ConfirmedAt,
		RejectedAt:         b.RejectedAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
	}
}

func NewBookingList(bookings []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(bookings))
	for i := range bookings {
		out = append(out, NewBooking(&bookings[i]))
	}
	return out
}
