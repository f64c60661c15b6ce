// Package events carries the ride core's outbound notifications to the spawn
// authority and anything else that listens.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event being emitted
type EventType string

const (
	EventTypePickupDecision EventType = "pickup.decision"
	EventTypeRequestDespawn EventType = "passenger.despawn_requested"
	EventTypeJobCompleted   EventType = "ride.job_completed"
	EventTypeGhostRefused   EventType = "ride.ghost_refused"
)

// Event is the wire form of a notification.
type Event struct {
	Type        EventType `json:"type"`
	SessionID   string    `json:"session_id"`
	PassengerID int       `json:"passenger_id"`
	Accepted    *bool     `json:"accepted,omitempty"` // Only set on pickup.decision
	Time        time.Time `json:"time"`
}

// Listener receives the ride core's notifications. Calls are fire-and-forget.
type Listener interface {
	PickupDecision(passengerID int, accepted bool)
	RequestDespawn(passengerID int)
	JobCompleted(passengerID int)
	GhostRefused(passengerID int)
}

// Sink delivers events somewhere: memory, Redis, MQTT.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Emitter turns Listener calls into Events stamped with a session id and
// publishes them to every sink in turn. Sink failures are logged and dropped.
// Sinks that do network I/O belong behind an AsyncSink so the host loop never
// waits on them.
type Emitter struct {
	sessionID uuid.UUID
	sinks     []Sink
	logger    *slog.Logger
	timeout   time.Duration
	now       func() time.Time
}

var _ Listener = (*Emitter)(nil)

// NewEmitter creates an emitter for one orchestrator session.
func NewEmitter(sessionID uuid.UUID, logger *slog.Logger, sinks ...Sink) *Emitter {
	return &Emitter{
		sessionID: sessionID,
		sinks:     sinks,
		logger:    logger,
		timeout:   2 * time.Second,
		now:       time.Now,
	}
}

// SessionID returns the id stamped on every event.
func (e *Emitter) SessionID() uuid.UUID {
	return e.sessionID
}

func (e *Emitter) PickupDecision(passengerID int, accepted bool) {
	e.emit(EventTypePickupDecision, passengerID, &accepted)
}

func (e *Emitter) RequestDespawn(passengerID int) {
	e.emit(EventTypeRequestDespawn, passengerID, nil)
}

func (e *Emitter) JobCompleted(passengerID int) {
	e.emit(EventTypeJobCompleted, passengerID, nil)
}

func (e *Emitter) GhostRefused(passengerID int) {
	e.emit(EventTypeGhostRefused, passengerID, nil)
}

func (e *Emitter) emit(t EventType, passengerID int, accepted *bool) {
	ev := Event{
		Type:        t,
		SessionID:   e.sessionID.String(),
		PassengerID: passengerID,
		Accepted:    accepted,
		Time:        e.now().UTC(),
	}
	e.logger.Debug("Emitting event", "event_type", t, "passenger_id", passengerID)

	for _, s := range e.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		if err := s.Publish(ctx, ev); err != nil {
			e.logger.Warn("Failed to deliver event", "event_type", t, "passenger_id", passengerID, "error", err)
		}
		cancel()
	}
}

// Recorder is an in-memory Sink. The console uses it for its event log and
// tests use it to assert on emitted notifications.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Sink = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType returns recorded events of one type.
func (r *Recorder) OfType(t EventType) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Multi fans Listener calls out to several listeners in order.
type Multi []Listener

var _ Listener = Multi(nil)

func (m Multi) PickupDecision(passengerID int, accepted bool) {
	for _, l := range m {
		l.PickupDecision(passengerID, accepted)
	}
}

func (m Multi) RequestDespawn(passengerID int) {
	for _, l := range m {
		l.RequestDespawn(passengerID)
	}
}

func (m Multi) JobCompleted(passengerID int) {
	for _, l := range m {
		l.JobCompleted(passengerID)
	}
}

func (m Multi) GhostRefused(passengerID int) {
	for _, l := range m {
		l.GhostRefused(passengerID)
	}
}
