package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tour-guide-api/internal/domain/access"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/models"
)

const (
	touristID  uint = 10
	guideID    uint = 20
	adminID    uint = 1
	strangerID uint = 99
)

var (
	tourist  = Actor{UserID: touristID, Role: access.RoleTourist}
	guide    = Actor{UserID: guideID, Role: access.RoleGuide}
	admin    = Actor{UserID: adminID, Role: access.RoleAdmin}
	stranger = Actor{UserID: strangerID, Role: access.RoleGuide}
)

func newBooking(status Status) *models.Booking {
	return &models.Booking{ID: 1, TouristID: touristID, GuideID: guideID, Status: string(status)}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  Status
		to    Status
		actor Actor
		code  string
	}{
		{"guide confirms pending", StatusPending, StatusConfirmed, guide, ""},
		{"guide rejects pending", StatusPending, StatusRejected, guide, ""},
		{"tourist cannot confirm", StatusPending, StatusConfirmed, tourist, httperr.CodeTransitionNotOwned},
		{"tourist cannot cancel pending", StatusPending, StatusCancelled, tourist, httperr.CodeInvalidTransition},
		{"tourist cancels confirmed", StatusConfirmed, StatusCancelled, tourist, ""},
		{"guide cannot cancel confirmed", StatusConfirmed, StatusCancelled, guide, httperr.CodeTransitionNotOwned},
		{"guide completes confirmed", StatusConfirmed, StatusCompleted, guide, ""},
		{"tourist cannot complete", StatusConfirmed, StatusCompleted, tourist, httperr.CodeTransitionNotOwned},
		{"pending cannot complete", StatusPending, StatusCompleted, guide, httperr.CodeInvalidTransition},
		{"rejected is terminal", StatusRejected, StatusCancelled, tourist, httperr.CodeInvalidTransition},
		{"completed is terminal", StatusCompleted, StatusCancelled, tourist, httperr.CodeInvalidTransition},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, guide, httperr.CodeInvalidTransition},
		{"same status", StatusPending, StatusPending, guide, httperr.CodeInvalidTransition},
		{"stranger", StatusPending, StatusConfirmed, stranger, httperr.CodeForbidden},
		{"admin forces terminal", StatusCancelled, StatusConfirmed, admin, ""},
		{"admin completes pending", StatusPending, StatusCompleted, admin, ""},
		{"admin same status", StatusPending, StatusPending, admin, httperr.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(newBooking(tt.from), tt.actor, tt.to)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}

func TestTransition_CancelCapturesDetails(t *testing.T) {
	b := newBooking(StatusConfirmed)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, Transition(b, tourist, StatusCancelled, "change of plans", now))

	assert.Equal(t, string(StatusCancelled), b.Status)
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, touristID, *b.CancelledBy)
	assert.Equal(t, "change of plans", b.CancellationReason)
	assert.Equal(t, now, *b.CancelledAt)
}

func TestTransition_RejectThenCancelFails(t *testing.T) {
	b := newBooking(StatusPending)
	now := time.Now()

	require.NoError(t, Transition(b, guide, StatusRejected, "", now))
	assert.Equal(t, string(StatusRejected), b.Status)
	assert.NotNil(t, b.RejectedAt)

	err := Transition(b, tourist, StatusCancelled, "", now)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
	assert.Equal(t, string(StatusRejected), b.Status)
	assert.Nil(t, b.CancelledAt)
}

func TestTransition_Timestamps(t *testing.T) {
	now := time.Now()

	b := newBooking(StatusPending)
	require.NoError(t, Transition(b, guide, StatusConfirmed, "", now))
	assert.NotNil(t, b.ConfirmedAt)

	require.NoError(t, Transition(b, guide, StatusCompleted, "", now))
	assert.NotNil(t, b.CompletedAt)
	assert.True(t, StatusCompleted.IsTerminal())
}

func TestCanView(t *testing.T) {
	b := newBooking(StatusPending)
	assert.True(t, CanView(b, tourist))
	assert.True(t, CanView(b, guide))
	assert.True(t, CanView(b, admin))
	assert.False(t, CanView(b, stranger))
}

func TestPrice(t *testing.T) {
	assert.Equal(t, 150.0, Price(50, 3))
	assert.Equal(t, 75.99, Price(25.33, 3))
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, s)

	_, ok = ParseStatus("archived")
	assert.False(t, ok)
}
