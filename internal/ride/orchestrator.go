// Package ride sequences a passenger through pickup, ride and dropoff.
//
// The Orchestrator is driven from a single host loop: zone triggers call the
// Notify methods, the presentation layer calls Advance and SelectChoice, and
// the host calls Tick once per frame. Only one dialogue plays at a time;
// notifications that arrive while one is playing are dropped, not queued.
package ride

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/ride-engine/internal/events"
	"github.com/jwebster45206/ride-engine/pkg/dialogue"
	"github.com/jwebster45206/ride-engine/pkg/interpreter"
	"github.com/jwebster45206/ride-engine/pkg/passenger"
	"github.com/jwebster45206/ride-engine/pkg/sched"
	"github.com/jwebster45206/ride-engine/pkg/seats"
	"github.com/jwebster45206/ride-engine/pkg/state"
)

// ErrNoDialogue is returned by Advance and SelectChoice when nothing is playing.
var ErrNoDialogue = errors.New("no dialogue is playing")

// Orchestrator owns the seat ledger, the active roster and the per-passenger
// run states, and is the only thing that mutates them.
type Orchestrator struct {
	opts      Options
	logger    *slog.Logger
	presenter interpreter.Presenter
	listener  events.Listener
	sched     *sched.Scheduler

	seats  *seats.Ledger
	roster *passenger.Roster
	runs   *state.RunStateTable
	hooks  map[dialogue.HookKind]HookHandler

	playing bool
	run     *interpreter.Run
	current *passenger.Passenger

	lastPickup     time.Duration
	pickupSeen     bool
	rideStartTasks map[*passenger.Passenger]sched.Handle
	progress       rideProgress
}

// New builds an orchestrator. A nil scheduler gets a private one, and a nil
// logger falls back to slog.Default.
func New(opts Options, presenter interpreter.Presenter, listener events.Listener, scheduler *sched.Scheduler, logger *slog.Logger) (*Orchestrator, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid ride options: %w", err)
	}
	if presenter == nil {
		return nil, errors.New("presenter is required")
	}
	if listener == nil {
		return nil, errors.New("listener is required")
	}
	if scheduler == nil {
		scheduler = sched.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		opts:           opts,
		logger:         logger,
		presenter:      presenter,
		listener:       listener,
		sched:          scheduler,
		runs:           state.NewRunStateTable(),
		rideStartTasks: make(map[*passenger.Passenger]sched.Handle),
	}
	o.seats = seats.NewLedger(opts.Capacity, seats.Listener{
		OnSeated:   func(p *passenger.Passenger) { o.logger.Debug("Passenger seated", "passenger_id", p.ID) },
		OnUnseated: func(p *passenger.Passenger) { o.logger.Debug("Passenger unseated", "passenger_id", p.ID) },
		OnFull:     func() { o.logger.Info("All seats taken", "capacity", o.seats.Capacity()) },
		OnFreed:    func() { o.logger.Info("A seat was freed", "capacity", o.seats.Capacity()) },
	})
	o.roster = passenger.NewRoster(opts.Capacity, passenger.RosterListener{
		OnAdded:   func(p *passenger.Passenger) { o.logger.Debug("Passenger joined the roster", "passenger_id", p.ID) },
		OnRemoved: func(p *passenger.Passenger) { o.logger.Debug("Passenger left the roster", "passenger_id", p.ID) },
		OnFull:    func() { o.logger.Info("Roster is full", "capacity", o.roster.Capacity()) },
		OnFreed:   func() { o.logger.Info("Roster has room again", "capacity", o.roster.Capacity()) },
	})
	o.hooks = map[dialogue.HookKind]HookHandler{
		dialogue.HookAcceptPickup:  acceptPickup,
		dialogue.HookDeclinePickup: declinePickup,
	}
	return o, nil
}

// IsPlaying reports whether a dialogue is being interpreted.
func (o *Orchestrator) IsPlaying() bool { return o.playing }

// CurrentPassenger returns the passenger between acceptance and dropoff, or nil.
func (o *Orchestrator) CurrentPassenger() *passenger.Passenger { return o.current }

// Run returns the dialogue being interpreted, or nil.
func (o *Orchestrator) Run() *interpreter.Run { return o.run }

// Seats exposes the seat ledger for inspection.
func (o *Orchestrator) Seats() *seats.Ledger { return o.seats }

// Roster exposes the active roster for inspection.
func (o *Orchestrator) Roster() *passenger.Roster { return o.roster }

// RunState returns the passenger's run state if one exists.
func (o *Orchestrator) RunState(passengerID int) (*state.PassengerRunState, bool) {
	return o.runs.Lookup(passengerID)
}

// Ownership returns the instance ownership strategy.
func (o *Orchestrator) Ownership() Ownership { return o.opts.Ownership }

// Now returns the orchestrator's clock.
func (o *Orchestrator) Now() time.Duration { return o.sched.Now() }

// Tick advances time: pending ride starts are polled and ride-time triggers
// are checked.
func (o *Orchestrator) Tick(dt time.Duration) {
	o.sched.Tick(dt)
	if o.current != nil && dt > 0 {
		o.progress.elapsed += dt
		o.checkRideTriggers()
	}
}

// NotifyReachedPickup starts the pickup dialogue for a passenger waiting at a
// stop. Nil passengers, repeats inside the debounce window and calls while a
// dialogue is playing are ignored. Missing pickup content counts as a decline.
func (o *Orchestrator) NotifyReachedPickup(p *passenger.Passenger) {
	if p == nil {
		return
	}
	now := o.sched.Now()
	if o.pickupSeen && now-o.lastPickup < o.opts.PickupDebounce {
		o.logger.Debug("Pickup notification debounced", "passenger_id", p.ID)
		return
	}
	o.lastPickup = now
	o.pickupSeen = true

	if o.playing {
		o.logger.Debug("Pickup ignored, dialogue already playing", "passenger_id", p.ID)
		return
	}

	set := p.Profile.PickupSet()
	if set == nil {
		o.logger.Warn("Passenger has no pickup dialogue, declining", "passenger_id", p.ID, "profile", p.ProfileKey)
		o.decline(p)
		return
	}
	node, ok := set.Entry()
	if !ok {
		o.logger.Warn("Pickup entry node not found, declining", "passenger_id", p.ID, "set_id", set.ID, "node_id", set.EntryNodeID)
		o.decline(p)
		return
	}

	o.play(p, set, node, true)
}

// NotifyLeftPickup closes the playing dialogue, if any. Run state is kept.
func (o *Orchestrator) NotifyLeftPickup(p *passenger.Passenger) {
	if !o.playing {
		return
	}
	o.logger.Debug("Left pickup, closing dialogue", "passenger_id", p.IDOrNone())
	o.closeDialogue()
}

// NotifyRideTrigger opens the current passenger's ride dialogue at nodeID.
// It does nothing without a current passenger, when the node does not resolve,
// or while a dialogue is playing.
func (o *Orchestrator) NotifyRideTrigger(nodeID string) {
	o.startRideDialogue(nodeID)
}

// NotifyReachedDropoff lets the current passenger out. Humans are unseated and
// removed, ghosts refuse to leave. A passenger other than the current one is
// ignored.
func (o *Orchestrator) NotifyReachedDropoff(p *passenger.Passenger) {
	if p == nil {
		return
	}
	if o.current != nil && p != o.current {
		o.logger.Debug("Dropoff ignored for passenger who is not riding", "passenger_id", p.ID, "current_id", o.current.ID)
		return
	}

	if p.IsGhost() {
		o.clearCurrent(p)
		o.logger.Info("Ghost refused to leave", "passenger_id", p.ID)
		o.listener.GhostRefused(p.ID)
		return
	}

	o.seats.TryUnseat(p)
	o.opts.Ownership.finish(o, p)
	o.clearCurrent(p)
	o.runs.Evict(p.ID)
	o.logger.Info("Job completed", "passenger_id", p.ID)
	o.listener.JobCompleted(p.ID)
}

// Advance forwards the presentation layer's "line advanced" signal.
func (o *Orchestrator) Advance() error {
	if o.run == nil {
		return ErrNoDialogue
	}
	return o.run.Advance()
}

// SelectChoice forwards the index of the choice the player picked.
func (o *Orchestrator) SelectChoice(index int) error {
	if o.run == nil {
		return ErrNoDialogue
	}
	return o.run.Select(index)
}

// RideStartPending reports whether p is waiting for its ride dialogue.
func (o *Orchestrator) RideStartPending(p *passenger.Passenger) bool {
	h, ok := o.rideStartTasks[p]
	return ok && o.sched.Running(h)
}

func (o *Orchestrator) play(p *passenger.Passenger, set *dialogue.Set, node *dialogue.Node, pickup bool) {
	o.playing = true
	run, err := interpreter.Start(interpreter.Config{
		Subject: interpreter.Subject{
			PassengerID: p.ID,
			IsGhost:     p.IsGhost(),
			State:       o.runs.GetOrCreate(p.ID),
		},
		Set:       set,
		Node:      node,
		Pickup:    pickup,
		Presenter: o.presenter,
		Effects:   hookApplier{o: o, p: p},
		OnClose:   o.onRunClosed,
		Logger:    o.logger,
	})
	if err != nil {
		o.playing = false
		o.logger.Warn("Failed to start dialogue", "passenger_id", p.ID, "error", err)
		return
	}
	if !run.Closed() {
		o.run = run
	}
}

func (o *Orchestrator) onRunClosed(r *interpreter.Run) {
	if o.run != nil && o.run != r {
		return
	}
	o.run = nil
	o.playing = false
}

func (o *Orchestrator) closeDialogue() {
	if o.run != nil {
		o.run.Close()
		return
	}
	o.presenter.Close()
	o.playing = false
}

func (o *Orchestrator) decline(p *passenger.Passenger) {
	o.listener.PickupDecision(p.IDOrNone(), false)
	o.opts.Ownership.abandon(o, p)
	o.runs.Evict(p.ID)
}

func (o *Orchestrator) setCurrent(p *passenger.Passenger) {
	o.current = p
	o.progress = newRideProgress(p.Profile.RideSet())
}

func (o *Orchestrator) clearCurrent(p *passenger.Passenger) {
	if o.current == p {
		o.current = nil
		o.progress = rideProgress{}
	}
}

// scheduleRideStart waits the ride start delay, then opens the ride dialogue.
// The wait ends silently once p is destroyed, leaves the roster or gives up
// its seat.
func (o *Orchestrator) scheduleRideStart(p *passenger.Passenger) {
	if h, ok := o.rideStartTasks[p]; ok {
		o.sched.Cancel(h)
	}
	alive := func() bool {
		if p.Valid() && o.roster.Contains(p) && o.seats.Contains(p) {
			return true
		}
		o.logger.Debug("Ride start cancelled, passenger gone", "passenger_id", p.ID)
		delete(o.rideStartTasks, p)
		return false
	}
	o.rideStartTasks[p] = o.sched.Start(sched.Delay(o.opts.RideStartDelay, alive, func() {
		delete(o.rideStartTasks, p)
		o.openFirstRideNode(p)
	}))
}

func (o *Orchestrator) openFirstRideNode(p *passenger.Passenger) {
	if o.playing {
		o.logger.Debug("Ride start skipped, dialogue already playing", "passenger_id", p.ID)
		return
	}
	set := p.Profile.RideSet()
	if set == nil {
		o.logger.Warn("Passenger has no ride dialogue", "passenger_id", p.ID, "profile", p.ProfileKey)
		return
	}
	entry := o.opts.RideFirstNodeID
	if entry == "" {
		entry = set.EntryNodeID
	}
	node, ok := set.Node(entry)
	if !ok {
		o.logger.Warn("Ride node not found", "passenger_id", p.ID, "set_id", set.ID, "node_id", entry)
		return
	}
	o.play(p, set, node, false)
}

func (o *Orchestrator) startRideDialogue(nodeID string) bool {
	p := o.current
	if p == nil || !p.Valid() || nodeID == "" {
		return false
	}
	set := p.Profile.RideSet()
	node, ok := set.Node(nodeID)
	if !ok {
		return false
	}
	if o.playing {
		return false
	}
	o.play(p, set, node, false)
	return true
}
