package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TouristID uint `gorm:"not null;index" json:"tourist_id"`
	Tourist   User `gorm:"foreignKey:TouristID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tourist"`

	GuideID uint `gorm:"not null;index" json:"guide_id"`
	Guide   User `gorm:"foreignKey:GuideID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"guide"`

	Date      string `gorm:"size:10;not null" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	Duration  int    `gorm:"not null" json:"duration"`

	GroupSize    int    `gorm:"not null;default:1" json:"group_size"`
	MeetingPoint string `gorm:"size:255" json:"meeting_point"`
	Notes        string `gorm:"size:1000" json:"notes"`

	// TotalPrice is frozen at creation from the guide's hourly rate.
	TotalPrice float64 `gorm:"not null" json:"total_price"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CancelledBy        *uint      `json:"cancelled_by"`
	CancellationReason string     `gorm:"size:500" json:"cancellation_reason"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	ConfirmedAt        *time.Time `json:"confirmed_at"`
	RejectedAt         *time.Time `json:"rejected_at"`
	CompletedAt        *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
