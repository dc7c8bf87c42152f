package models

import "time"

type ReviewScores struct {
	Overall       int  `gorm:"not null" json:"overall"`
	Knowledge     *int `json:"knowledge"`
	Communication *int `json:"communication"`
	Punctuality   *int `json:"punctuality"`
}

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID uint `gorm:"uniqueIndex;not null" json:"booking_id"`
	TouristID uint `gorm:"not null;index" json:"tourist_id"`
	Tourist   User `gorm:"foreignKey:TouristID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"tourist"`
	GuideID   uint `gorm:"not null;index" json:"guide_id"`

	Rating  ReviewScores `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`
	Comment string       `gorm:"size:2000" json:"comment"`

	IsApproved bool `gorm:"not null;default:true;index" json:"is_approved"`

	GuideResponse string     `gorm:"size:1000" json:"guide_response"`
	RespondedAt   *time.Time `json:"responded_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
