package guide

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

// ===============================
// Verification
// ===============================

type Verification string

const (
	VerificationPending  Verification = "pending"
	VerificationApproved Verification = "approved"
	VerificationRejected Verification = "rejected"
)

func ParseVerification(s string) (Verification, bool) {
	switch Verification(s) {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return Verification(s), true
	}
	return "", false
}

// ===============================
// Specialties
// ===============================

var Specialties = []string{
	"history", "culture", "food", "nature", "adventure", "art",
	"architecture", "nightlife", "shopping", "photography", "religious", "walking",
}

func IsSpecialty(s string) bool {
	for _, v := range Specialties {
		if v == s {
			return true
		}
	}
	return false
}

// ===============================
// Bookability
// ===============================

// Bookable reports whether tourists may book this guide: the profile is
// approved and available and the owning account is in good standing.
func Bookable(p *models.GuideProfile) bool {
	if p == nil {
		return false
	}
	return p.VerificationStatus == string(VerificationApproved) &&
		p.IsAvailable &&
		!p.User.Suspended()
}

// ===============================
// Availability
// ===============================

// ValidateAvailability checks the weekly slots: day 0-6, start before end,
// and no two slots of the same day overlapping. Times are already known to
// be HH:MM, so they order as strings.
func ValidateAvailability(slots []models.AvailabilitySlot) error {
	for _, s := range slots {
		if s.Day < 0 || s.Day > 6 {
			return httperr.ErrBusinessf(httperr.CodeInvalidRequest, "availability day must be between 0 and 6")
		}
		start, err1 := time.Parse("15:04", s.StartTime)
		end, err2 := time.Parse("15:04", s.EndTime)
		if err1 != nil || err2 != nil || !start.Before(end) {
			return httperr.ErrBusinessf(httperr.CodeInvalidRequest, "availability start_time must be before end_time")
		}
	}

	sorted := append([]models.AvailabilitySlot(nil), slots...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Day == prev.Day && cur.StartTime < prev.EndTime {
			return httperr.ErrBusinessf(httperr.CodeInvalidRequest, "availability slots must not overlap")
		}
	}
	return nil
}

// NormalizeList trims entries and drops empty ones and duplicates,
// comparing case-insensitively.
func NormalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ===============================
// Listing
// ===============================

type Sort string

const (
	SortRating     Sort = "rating"
	SortPriceAsc   Sort = "price_asc"
	SortPriceDesc  Sort = "price_desc"
	SortExperience Sort = "experience"
	SortNewest     Sort = "newest"
)

// ParseSort falls back to rating for unknown values.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPriceAsc, SortPriceDesc, SortExperience, SortNewest:
		return Sort(s)
	}
	return SortRating
}

type ListFilter struct {
	City          string
	Language      string
	Specialty     string
	MinPrice      *float64
	MaxPrice      *float64
	MinRating     *float64
	MinExperience *int
	Sort          Sort
	Page          int
	Limit         int
}

type Repository interface {
	// List returns bookable guides matching f.
	List(ctx context.Context, f ListFilter) ([]models.GuideProfile, int64, error)

	// GetByUserID returns (nil, nil) when the user has no profile.
	GetByUserID(ctx context.Context, userID uint) (*models.GuideProfile, error)
}
