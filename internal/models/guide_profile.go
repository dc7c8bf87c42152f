package models

import (
	"time"

	"gorm.io/datatypes"
)

type AvailabilitySlot struct {
	Day       int    `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type RatingBreakdown struct {
	Knowledge     float64 `gorm:"not null;default:0" json:"knowledge"`
	Communication float64 `gorm:"not null;default:0" json:"communication"`
	Punctuality   float64 `gorm:"not null;default:0" json:"punctuality"`
}

// Rating is the denormalized aggregate of the guide's approved reviews.
// It is only ever written by the rating aggregator.
type Rating struct {
	Average   float64         `gorm:"not null;default:0" json:"average"`
	Count     int             `gorm:"not null;default:0" json:"count"`
	Breakdown RatingBreakdown `gorm:"embedded;embeddedPrefix:breakdown_" json:"breakdown"`
}

type GuideProfile struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Bio               string  `gorm:"size:2000" json:"bio"`
	HourlyRate        float64 `gorm:"not null" json:"hourly_rate"`
	YearsOfExperience int     `gorm:"not null;default:0" json:"years_of_experience"`

	Specialties  datatypes.JSONSlice[string]           `json:"specialties"`
	Cities       datatypes.JSONSlice[string]           `json:"cities"`
	Languages    datatypes.JSONSlice[string]           `json:"languages"`
	Availability datatypes.JSONSlice[AvailabilitySlot] `json:"availability"`
	IsAvailable  bool                                  `gorm:"not null;default:true" json:"is_available"`

	VerificationStatus string     `gorm:"size:20;not null;default:'pending';index" json:"verification_status"`
	VerificationNote   string     `gorm:"size:500" json:"verification_note"`
	VerifiedAt         *time.Time `json:"verified_at"`

	Rating Rating `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
