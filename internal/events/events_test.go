package events

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type failingSink struct{ calls int }

func (f *failingSink) Publish(context.Context, Event) error {
	f.calls++
	return errors.New("broker down")
}

func TestEmitter_StampsAndFansOut(t *testing.T) {
	session := uuid.New()
	rec := NewRecorder()
	bad := &failingSink{}
	e := NewEmitter(session, testLogger(), bad, rec)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	e.PickupDecision(7, true)
	e.RequestDespawn(7)
	e.JobCompleted(7)
	e.GhostRefused(8)

	events := rec.Events()
	require.Len(t, events, 4, "a failing sink does not stop delivery to the others")
	assert.Equal(t, 4, bad.calls)

	assert.Equal(t, EventTypePickupDecision, events[0].Type)
	require.NotNil(t, events[0].Accepted)
	assert.True(t, *events[0].Accepted)
	assert.Equal(t, session.String(), events[0].SessionID)
	assert.Equal(t, fixed, events[0].Time)

	assert.Equal(t, EventTypeRequestDespawn, events[1].Type)
	assert.Nil(t, events[1].Accepted)
	assert.Equal(t, EventTypeJobCompleted, events[2].Type)
	assert.Equal(t, EventTypeGhostRefused, events[3].Type)
	assert.Equal(t, 8, events[3].PassengerID)
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	ctx := context.Background()
	require.NoError(t, rec.Publish(ctx, Event{Type: EventTypeJobCompleted, PassengerID: 1}))
	require.NoError(t, rec.Publish(ctx, Event{Type: EventTypeGhostRefused, PassengerID: 2}))

	assert.Len(t, rec.OfType(EventTypeGhostRefused), 1)
	assert.Empty(t, rec.OfType(EventTypeRequestDespawn))

	rec.Reset()
	assert.Empty(t, rec.Events())
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{
		NewEmitter(uuid.New(), testLogger(), a),
		NewEmitter(uuid.New(), testLogger(), b),
	}

	m.PickupDecision(1, false)
	m.RequestDespawn(1)
	m.JobCompleted(2)
	m.GhostRefused(3)

	for _, rec := range []*Recorder{a, b} {
		got := rec.Events()
		require.Len(t, got, 4)
		assert.Equal(t, EventTypePickupDecision, got[0].Type)
		assert.False(t, *got[0].Accepted)
		assert.Equal(t, 3, got[3].PassengerID)
	}

	Multi(nil).JobCompleted(9)
}
