package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-guide-api/internal/models"
	"github.com/BruksfildServices01/tour-guide-api/internal/testutil"
)

func TestDispatcher_WritesEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), zap.NewNop())

	userID, bookingID := uint(7), uint(42)
	d.Dispatch(Event{
		UserID:   &userID,
		Action:   ActionBookingCreated,
		Entity:   "booking",
		EntityID: &bookingID,
		Metadata: map[string]any{"status": "pending"},
	})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionBookingCreated, logs[0].Action)
	assert.Equal(t, bookingID, *logs[0].EntityID)
	assert.JSONEq(t, `{"status":"pending"}`, logs[0].Metadata)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}

func TestLogger_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	l := New(db)
	ctx := context.Background()

	admin := uint(1)
	require.NoError(t, l.Log(ctx, Event{UserID: &admin, Action: ActionUserBanned, Entity: "user"}))
	require.NoError(t, l.Log(ctx, Event{UserID: &admin, Action: ActionGuideVerified, Entity: "guide_profile"}))
	require.NoError(t, l.Log(ctx, Event{Action: ActionUserRegistered, Entity: "user"}))

	logs, total, err := l.List(ctx, ListFilter{Entity: "user", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, logs, 2)

	logs, total, err = l.List(ctx, ListFilter{UserID: &admin, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionGuideVerified, logs[0].Action)
}
