// Package testutil provides fixtures shared by package tests: an in-memory
// database with the production schema and seeded users, profiles and bookings.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/tour-guide-api/internal/db"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every new connection to :memory: is a different database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dbpkg.Migrate(db))
	return db
}

var seq int

func CreateUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	seq++
	u := &models.User{
		Name:         fmt.Sprintf("%s %d", role, seq),
		Email:        fmt.Sprintf("%s%d@example.com", role, seq),
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateGuide creates a guide user with an approved, available profile.
func CreateGuide(t *testing.T, db *gorm.DB, hourlyRate float64) (*models.User, *models.GuideProfile) {
	t.Helper()
	u := CreateUser(t, db, "guide")
	p := &models.GuideProfile{
		UserID:             u.ID,
		HourlyRate:         hourlyRate,
		YearsOfExperience:  3,
		Specialties:        datatypes.JSONSlice[string]{"history"},
		Cities:             datatypes.JSONSlice[string]{"Lisbon"},
		Languages:          datatypes.JSONSlice[string]{"English"},
		IsAvailable:        true,
		VerificationStatus: "approved",
	}
	require.NoError(t, db.Create(p).Error)
	return u, p
}

func CreateBooking(t *testing.T, db *gorm.DB, touristID, guideID uint, status string) *models.Booking {
	t.Helper()
	seq++
	b := &models.Booking{
		TouristID:  touristID,
		GuideID:    guideID,
		Date:       FutureDate(7),
		StartTime:  fmt.Sprintf("%02d:00", seq%24),
		Duration:   2,
		GroupSize:  1,
		TotalPrice: 100,
		Status:     status,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

// FutureDate returns the UTC date days from today as YYYY-MM-DD.
func FutureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func IntPtr(v int) *int { return &v }
