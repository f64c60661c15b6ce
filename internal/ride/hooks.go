package ride

import (
	"github.com/jwebster45206/ride-engine/pkg/dialogue"
	"github.com/jwebster45206/ride-engine/pkg/interpreter"
	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

// HookContext is what a gameplay hook acts on.
type HookContext struct {
	Run       *interpreter.Run
	Passenger *passenger.Passenger
}

// HookHandler performs a gameplay hook. It may close the run.
type HookHandler func(o *Orchestrator, hc HookContext)

// RegisterHook installs a handler for a hook kind on this orchestrator.
// Registering a built-in kind replaces its handler.
func (o *Orchestrator) RegisterHook(kind dialogue.HookKind, h HookHandler) {
	o.hooks[kind] = h
}

// Hooks returns the hook kinds this orchestrator handles, for validating the
// content it will play.
func (o *Orchestrator) Hooks() dialogue.HookSet {
	out := make(dialogue.HookSet, len(o.hooks))
	for k := range o.hooks {
		out.Add(k)
	}
	return out
}

// hookApplier routes a run's gameplay hooks back into the orchestrator.
type hookApplier struct {
	o *Orchestrator
	p *passenger.Passenger
}

func (a hookApplier) ApplyEffect(r *interpreter.Run, e dialogue.Effect) {
	kind := dialogue.HookKind(e.Key)
	h, ok := a.o.hooks[kind]
	if !ok {
		a.o.logger.Warn("No handler for gameplay hook", "hook", kind, "passenger_id", a.p.ID)
		return
	}
	h(a.o, HookContext{Run: r, Passenger: a.p})
}

func acceptPickup(o *Orchestrator, hc HookContext) {
	p := hc.Passenger
	if !o.seats.HasSpace() {
		o.logger.Info("Pickup accepted but no seat is free", "passenger_id", p.ID)
		o.listener.PickupDecision(p.ID, false)
		return
	}
	if !o.roster.Add(p) {
		o.logger.Info("Passenger could not join the roster", "passenger_id", p.ID)
		o.listener.PickupDecision(p.ID, false)
		return
	}
	o.seats.TrySeat(p)
	hc.Run.State().Accepted = true
	o.setCurrent(p)
	o.logger.Info("Pickup accepted", "passenger_id", p.ID, "seat", o.seats.SeatIndex(p))
	o.listener.PickupDecision(p.ID, true)

	hc.Run.Close()
	o.scheduleRideStart(p)
}

func declinePickup(o *Orchestrator, hc HookContext) {
	p := hc.Passenger
	hc.Run.State().Accepted = false
	o.logger.Info("Pickup declined", "passenger_id", p.ID)
	o.decline(p)
}
