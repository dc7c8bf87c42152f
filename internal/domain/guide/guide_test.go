package guide

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

func TestBookable(t *testing.T) {
	ok := &models.GuideProfile{
		VerificationStatus: string(VerificationApproved),
		IsAvailable:        true,
		User:               models.User{IsActive: true},
	}
	assert.True(t, Bookable(ok))

	pending := *ok
	pending.VerificationStatus = string(VerificationPending)
	assert.False(t, Bookable(&pending))

	away := *ok
	away.IsAvailable = false
	assert.False(t, Bookable(&away))

	banned := *ok
	banned.User.IsBanned = true
	assert.False(t, Bookable(&banned))

	assert.False(t, Bookable(nil))
}

func TestValidateAvailability(t *testing.T) {
	assert.NoError(t, ValidateAvailability([]models.AvailabilitySlot{{Day: 1, StartTime: "09:00", EndTime: "17:00"}}))

	err := ValidateAvailability([]models.AvailabilitySlot{{Day: 7, StartTime: "09:00", EndTime: "17:00"}})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))

	err = ValidateAvailability([]models.AvailabilitySlot{{Day: 2, StartTime: "18:00", EndTime: "09:00"}})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}

func TestValidateAvailability_Overlaps(t *testing.T) {
	err := ValidateAvailability([]models.AvailabilitySlot{
		{Day: 3, StartTime: "13:00", EndTime: "17:00"},
		{Day: 3, StartTime: "09:00", EndTime: "13:30"},
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))

	// touching slots and the same hours on another day are fine
	assert.NoError(t, ValidateAvailability([]models.AvailabilitySlot{
		{Day: 3, StartTime: "13:00", EndTime: "17:00"},
		{Day: 3, StartTime: "09:00", EndTime: "13:00"},
		{Day: 4, StartTime: "09:00", EndTime: "17:00"},
	}))
}

func TestNormalizeList(t *testing.T) {
	assert.Equal(t, []string{"Lisbon", "porto"}, NormalizeList([]string{" Lisbon", "porto ", "LISBON", ""}))
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSort("price_asc"))
	assert.Equal(t, SortRating, ParseSort(""))
	assert.Equal(t, SortRating, ParseSort("bogus"))
}

func TestIsSpecialty(t *testing.T) {
	assert.True(t, IsSpecialty("food"))
	assert.False(t, IsSpecialty("Food"))
	assert.False(t, IsSpecialty("karaoke"))
}
