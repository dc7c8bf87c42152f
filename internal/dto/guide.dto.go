package dto

import (
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

type GuideDTO struct {
	ID     uint           `json:"id"`
	UserID uint           `json:"user_id"`
	User   UserSummaryDTO `json:"user"`

	Bio               string  `json:"bio"`
	HourlyRate        float64 `json:"hourly_rate"`
	YearsOfExperience int     `json:"years_of_experience"`

	Specialties  []string                  `json:"specialties"`
	Cities       []string                  `json:"cities"`
	Languages    []string                  `json:"languages"`
	Availability []models.AvailabilitySlot `json:"availability"`
	IsAvailable  bool                      `json:"is_available"`

	VerificationStatus string     `json:"verification_status"`
	VerificationNote   string     `json:"verification_note,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`

	Rating models.Rating `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
}

func NewGuide(p *models.GuideProfile) GuideDTO {
	return GuideDTO{
		ID:                 p.ID,
		UserID:             p.UserID,
		User:               NewUserSummary(p.User),
		Bio:                p.Bio,
		HourlyRate:         p.HourlyRate,
		YearsOfExperience:  p.YearsOfExperience,
		Specialties:        orEmpty(p.Specialties),
		Cities:             orEmpty(p.Cities),
		Languages:          orEmpty(p.Languages),
		Availability:       orEmpty(p.Availability),
		IsAvailable:        p.IsAvailable,
		VerificationStatus: p.VerificationStatus,
		VerificationNote:   p.VerificationNote,
		VerifiedAt:         p.VerifiedAt,
		Rating:             p.Rating,
		CreatedAt:          p.CreatedAt,
	}
}

func NewGuideList(profiles []models.GuideProfile) []GuideDTO {
	out := make([]GuideDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, NewGuide(&profiles[i]))
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
