// Package mediator sits between the spawn side of the world and the ride core.
// It tracks which passenger is waiting at the stop the taxi is parked at and
// relays the core's outbound notifications to a SpawnAuthority.
package mediator

import (
	"log/slog"

	"github.com/jwebster45206/ride-engine/internal/events"
	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

// Core is the part of the ride orchestrator the mediator drives.
type Core interface {
	NotifyReachedPickup(p *passenger.Passenger)
	NotifyLeftPickup(p *passenger.Passenger)
	NotifyReachedDropoff(p *passenger.Passenger)
}

// SpawnAuthority creates and removes passenger instances in the world.
type SpawnAuthority interface {
	Despawn(passengerID int)
	JobCompleted(passengerID int)
	GhostRefused(passengerID int)
}

// Mediator forwards zone notifications to the core and core notifications to
// the spawn authority.
type Mediator struct {
	core      Core
	authority SpawnAuthority
	logger    *slog.Logger
	waiting   *passenger.Passenger
}

var _ events.Listener = (*Mediator)(nil)

// New creates a mediator. The core is usually bound later with Bind, since
// the orchestrator needs the mediator as its listener.
func New(authority SpawnAuthority, logger *slog.Logger) *Mediator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mediator{authority: authority, logger: logger}
}

// Bind sets the core that zone notifications are forwarded to.
func (m *Mediator) Bind(core Core) {
	m.core = core
}

// Waiting returns the passenger whose pickup zone the taxi is in, or nil.
func (m *Mediator) Waiting() *passenger.Passenger { return m.waiting }

// EnterPickup reports that the taxi entered p's pickup zone. A pickup still
// open for a different passenger is closed first.
func (m *Mediator) EnterPickup(p *passenger.Passenger) {
	if p == nil || m.core == nil {
		return
	}
	if m.waiting != nil && m.waiting != p {
		m.logger.Debug("Closing stale pickup", "passenger_id", m.waiting.ID, "next_id", p.ID)
		m.core.NotifyLeftPickup(m.waiting)
		m.waiting = nil
	}
	m.waiting = p
	m.core.NotifyReachedPickup(p)
}

// ExitPickup reports that the taxi left p's pickup zone before a decision.
func (m *Mediator) ExitPickup(p *passenger.Passenger) {
	if p == nil || m.core == nil || m.waiting != p {
		return
	}
	m.core.NotifyLeftPickup(p)
	m.waiting = nil
}

// ReachedDropoff reports that the taxi reached p's destination.
func (m *Mediator) ReachedDropoff(p *passenger.Passenger) {
	if p == nil || m.core == nil {
		return
	}
	m.core.NotifyReachedDropoff(p)
}

// PickupDecision clears the waiting passenger once the core has decided.
// Despawning declined passengers is left to RequestDespawn, which the core
// only sends when the spawn authority owns instances.
func (m *Mediator) PickupDecision(passengerID int, accepted bool) {
	if m.waiting != nil && m.waiting.ID == passengerID {
		m.waiting = nil
	}
	m.logger.Debug("Pickup decided", "passenger_id", passengerID, "accepted", accepted)
}

func (m *Mediator) RequestDespawn(passengerID int) {
	if m.authority != nil {
		m.authority.Despawn(passengerID)
	}
}

func (m *Mediator) JobCompleted(passengerID int) {
	if m.authority != nil {
		m.authority.JobCompleted(passengerID)
	}
}

func (m *Mediator) GhostRefused(passengerID int) {
	if m.authority != nil {
		m.authority.GhostRefused(passengerID)
	}
}
