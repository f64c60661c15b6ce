package ride

import (
	"fmt"
	"time"

	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

// Options configures an Orchestrator.
type Options struct {
	Capacity        int           // Seat count, at least 1
	PickupDebounce  time.Duration // Repeated pickup notifications inside this window are ignored
	RideStartDelay  time.Duration // Wait between accepting a passenger and opening the ride dialogue
	RideFirstNodeID string        // Overrides the ride set's entry node when set
	Ownership       Ownership     // Who destroys passenger instances
}

func DefaultOptions() Options {
	return Options{
		Capacity:       3,
		PickupDebounce: 250 * time.Millisecond,
		RideStartDelay: 5 * time.Second,
		Ownership:      SpawnAuthorityOwned,
	}
}

func (o Options) validate() error {
	if o.PickupDebounce < 0 {
		return fmt.Errorf("pickup debounce must not be negative: %s", o.PickupDebounce)
	}
	if o.RideStartDelay < 0 {
		return fmt.Errorf("ride start delay must not be negative: %s", o.RideStartDelay)
	}
	if o.Ownership == nil {
		return fmt.Errorf("ownership is required")
	}
	return nil
}

// Ownership decides how passengers leave the world once the ride core is done
// with them. It is fixed when the orchestrator is built.
type Ownership interface {
	// abandon handles a passenger that never boarded: declined, or its
	// dialogue content is missing.
	abandon(o *Orchestrator, p *passenger.Passenger)
	// finish removes a passenger that got out of the taxi.
	finish(o *Orchestrator, p *passenger.Passenger)
	String() string
}

var (
	// CoreOwned destroys passenger instances itself and never asks the spawn
	// authority to despawn.
	CoreOwned Ownership = coreOwned{}
	// SpawnAuthorityOwned leaves instances alive and emits RequestDespawn so
	// the spawn authority can remove them.
	SpawnAuthorityOwned Ownership = spawnAuthorityOwned{}
)

type coreOwned struct{}

func (coreOwned) abandon(*Orchestrator, *passenger.Passenger) {}

func (coreOwned) finish(o *Orchestrator, p *passenger.Passenger) {
	o.roster.Remove(p, true)
}

func (coreOwned) String() string { return "core" }

type spawnAuthorityOwned struct{}

func (spawnAuthorityOwned) abandon(o *Orchestrator, p *passenger.Passenger) {
	o.listener.RequestDespawn(p.IDOrNone())
}

func (spawnAuthorityOwned) finish(o *Orchestrator, p *passenger.Passenger) {
	o.roster.Remove(p, false)
	o.listener.RequestDespawn(p.IDOrNone())
}

func (spawnAuthorityOwned) String() string { return "spawn_authority" }

// OwnershipFor maps the "instances owned by spawn authority" setting to a strategy.
func OwnershipFor(spawnAuthorityOwnsInstances bool) Ownership {
	if spawnAuthorityOwnsInstances {
		return SpawnAuthorityOwned
	}
	return CoreOwned
}
