// Package interpreter walks a dialogue graph for one passenger.
//
// A Run is an explicit state machine suspended at two kinds of wait points:
// after each displayed line (resumed by Advance) and while choices are shown
// (resumed by Select). It knows nothing about rides; picked effects are handed
// to an EffectApplier, which may close the run from inside the callback.
package interpreter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/ride-engine/pkg/conditionals"
	"github.com/jwebster45206/ride-engine/pkg/dialogue"
	"github.com/jwebster45206/ride-engine/pkg/state"
)

var (
	ErrRunClosed            = errors.New("dialogue run is closed")
	ErrNotWaitingForAdvance = errors.New("dialogue is not showing a line")
	ErrNotWaitingForChoice  = errors.New("dialogue is not showing choices")
	ErrChoiceOutOfRange     = errors.New("choice index out of range")
)

// Phase is the wait point a run is suspended at.
type Phase int

const (
	PhaseLine Phase = iota
	PhaseChoice
	PhaseApplying
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseLine:
		return "line"
	case PhaseChoice:
		return "choice"
	case PhaseApplying:
		return "applying"
	default:
		return "closed"
	}
}

// Option is one choice as shown to the player. Index is what Select expects.
type Option struct {
	Text  string
	Index int
}

// Presenter displays a run. Calls arrive in order: Open, then any mix of
// ShowLine and ShowChoices, then Close.
type Presenter interface {
	Open()
	ShowLine(speaker, text string)
	ShowChoices(options []Option)
	Close()
}

// EffectApplier applies the effects of a picked choice.
type EffectApplier interface {
	ApplyEffect(r *Run, e dialogue.Effect)
}

// Subject is the passenger a run talks to.
type Subject struct {
	PassengerID int
	IsGhost     bool
	State       *state.PassengerRunState
}

// Config starts a run.
type Config struct {
	Subject   Subject
	Set       *dialogue.Set
	Node      *dialogue.Node // Starting node, must belong to Set
	Pickup    bool           // True for the pickup conversation, false for the ride
	Presenter Presenter
	Effects   EffectApplier
	OnClose   func(r *Run) // Called exactly once when the run ends
	Logger    *slog.Logger
}

// Run is one interpretation of a dialogue set, from its starting node until
// the node chain is exhausted or it is closed from outside.
type Run struct {
	cfg     Config
	log     *slog.Logger
	node    *dialogue.Node
	line    int
	choices []dialogue.Choice
	phase   Phase
	// silentHops counts auto transitions through nodes that showed nothing,
	// so an authored cycle of empty nodes ends instead of spinning.
	silentHops int
}

// Start opens the presenter and enters the starting node. The returned run may
// already be closed if the node chain shows nothing.
func Start(cfg Config) (*Run, error) {
	if cfg.Node == nil {
		return nil, fmt.Errorf("start dialogue: %w", dialogue.ErrNodeNotFound)
	}
	if cfg.Presenter == nil {
		return nil, errors.New("start dialogue: presenter is required")
	}
	if cfg.Subject.State == nil {
		cfg.Subject.State = state.NewPassengerRunState(cfg.Subject.PassengerID)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := &Run{
		cfg: cfg,
		log: log.With("passenger_id", cfg.Subject.PassengerID, "set_id", setID(cfg.Set)),
	}
	r.cfg.Presenter.Open()
	r.enter(cfg.Node)
	return r, nil
}

func (r *Run) Phase() Phase                    { return r.phase }
func (r *Run) Closed() bool                    { return r.phase == PhaseClosed }
func (r *Run) Pickup() bool                    { return r.cfg.Pickup }
func (r *Run) Subject() Subject                { return r.cfg.Subject }
func (r *Run) Set() *dialogue.Set              { return r.cfg.Set }
func (r *Run) State() *state.PassengerRunState { return r.cfg.Subject.State }

// Node returns the node being shown, or nil once closed.
func (r *Run) Node() *dialogue.Node {
	if r.Closed() {
		return nil
	}
	return r.node
}

// Choices returns the choices currently offered.
func (r *Run) Choices() []dialogue.Choice {
	if r.phase != PhaseChoice {
		return nil
	}
	return r.choices
}

// Advance acknowledges the displayed line and moves on.
func (r *Run) Advance() error {
	switch r.phase {
	case PhaseClosed:
		return ErrRunClosed
	case PhaseLine:
	default:
		return ErrNotWaitingForAdvance
	}

	r.line++
	if r.line < len(r.node.Lines) {
		r.showLine()
		return nil
	}
	r.resolve()
	return nil
}

// Select picks one of the offered choices by its index, applies its effects in
// order and follows its next node. If an effect closes the run, the remaining
// effects still apply but the next node is not entered.
func (r *Run) Select(index int) error {
	switch r.phase {
	case PhaseClosed:
		return ErrRunClosed
	case PhaseChoice:
	default:
		return ErrNotWaitingForChoice
	}
	if index < 0 || index >= len(r.choices) {
		return fmt.Errorf("%w: %d of %d", ErrChoiceOutOfRange, index, len(r.choices))
	}

	choice := r.choices[index]
	r.choices = nil
	r.phase = PhaseApplying
	r.log.Debug("Choice selected", "node_id", r.node.ID, "choice", choice.Text)

	for _, e := range choice.Effects {
		r.apply(e)
	}
	if r.Closed() {
		return nil
	}

	if next, ok := r.cfg.Set.Node(choice.NextNodeID); ok {
		r.silentHops = 0
		r.enter(next)
		return nil
	}
	if choice.NextNodeID != "" {
		r.log.Warn("Choice points at unknown node, ending dialogue", "node_id", r.node.ID, "next_node_id", choice.NextNodeID)
	}
	r.Close()
	return nil
}

// Close ends the run. It is safe to call more than once and from inside an
// effect callback.
func (r *Run) Close() {
	if r.phase == PhaseClosed {
		return
	}
	r.phase = PhaseClosed
	r.choices = nil
	r.cfg.Presenter.Close()
	if r.cfg.OnClose != nil {
		r.cfg.OnClose(r)
	}
}

func (r *Run) apply(e dialogue.Effect) {
	switch e.Type {
	case dialogue.EffectSetVar:
		r.cfg.Subject.State.Set(e.Key, e.Value)
	case dialogue.EffectGameplayHook:
		if r.cfg.Effects != nil {
			r.cfg.Effects.ApplyEffect(r, e)
		}
	default:
		r.log.Warn("Ignoring unknown effect type", "type", e.Type, "key", e.Key)
	}
}

func (r *Run) enter(n *dialogue.Node) {
	r.node = n
	r.line = 0
	r.log.Debug("Entering dialogue node", "node_id", n.ID)
	if len(n.Lines) > 0 {
		r.silentHops = 0
		r.phase = PhaseLine
		r.showLine()
		return
	}
	r.resolve()
}

func (r *Run) showLine() {
	l := r.node.Lines[r.line]
	r.cfg.Presenter.ShowLine(l.Speaker, l.Text)
}

// resolve picks what follows the node's lines: offered choices, the automatic
// successor, or the end of the run.
func (r *Run) resolve() {
	r.choices = conditionals.FilterChoices(r.node, r.cfg.Subject.State, r.cfg.Subject.IsGhost)
	if len(r.choices) > 0 {
		r.silentHops = 0
		r.phase = PhaseChoice
		opts := make([]Option, len(r.choices))
		for i, c := range r.choices {
			opts[i] = Option{Text: c.Text, Index: i}
		}
		r.cfg.Presenter.ShowChoices(opts)
		return
	}

	if next, ok := r.cfg.Set.Node(r.node.AutoNextNodeID); ok {
		if len(r.node.Lines) == 0 {
			r.silentHops++
			if r.silentHops > len(r.cfg.Set.Nodes) {
				r.log.Warn("Dialogue loops through empty nodes, ending dialogue", "node_id", r.node.ID)
				r.Close()
				return
			}
		}
		r.enter(next)
		return
	}
	if r.node.HasNext() {
		r.log.Warn("Auto next points at unknown node, ending dialogue", "node_id", r.node.ID, "next_node_id", r.node.AutoNextNodeID)
	}
	r.Close()
}

func setID(s *dialogue.Set) string {
	if s == nil {
		return ""
	}
	return s.ID
}
