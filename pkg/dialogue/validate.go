package dialogue

import (
	"errors"
	"fmt"
)

// Validate checks a set against the built-in hooks. See ValidateHooks.
func (s *Set) Validate() error {
	return s.ValidateHooks(BuiltinHooks())
}

// ValidateHooks checks a set for authoring mistakes that would otherwise be
// silently tolerated at runtime: dangling node references, unknown operators,
// unknown effect types and hooks missing from hooks. All problems are joined
// into the returned error.
func (s *Set) ValidateHooks(hooks HookSet) error {
	if s == nil {
		return nil
	}
	var errs []error
	if err := s.Index(); err != nil {
		errs = append(errs, err)
	}
	// Resolve against every node id so a duplicate does not also surface as
	// a string of missing references.
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		ids[n.ID] = true
	}
	has := func(id string) bool { return id != "" && ids[id] }

	if !has(s.EntryNodeID) {
		errs = append(errs, fmt.Errorf("set %q: entry %w: %q", s.ID, ErrNodeNotFound, s.EntryNodeID))
	}

	for _, n := range s.Nodes {
		if n.ID == "" {
			errs = append(errs, fmt.Errorf("set %q: node with empty id", s.ID))
		}
		if n.HasNext() {
			if !has(n.AutoNextNodeID) {
				errs = append(errs, fmt.Errorf("set %q node %q: auto next %w: %q", s.ID, n.ID, ErrNodeNotFound, n.AutoNextNodeID))
			}
		}
		for ci, c := range n.Choices {
			where := fmt.Sprintf("set %q node %q choice %d", s.ID, n.ID, ci)
			if c.NextNodeID != "" {
				if !has(c.NextNodeID) {
					errs = append(errs, fmt.Errorf("%s: next %w: %q", where, ErrNodeNotFound, c.NextNodeID))
				}
			}
			for _, cond := range c.Conditions {
				if cond.Key == "" {
					errs = append(errs, fmt.Errorf("%s: condition with empty key", where))
				}
				switch cond.Op {
				case "", OpEqual, OpNotEqual:
				default:
					errs = append(errs, fmt.Errorf("%s: %w: %q", where, ErrUnknownOperator, cond.Op))
				}
			}
			for _, e := range c.Effects {
				switch e.Type {
				case EffectSetVar:
					if e.Key == "" {
						errs = append(errs, fmt.Errorf("%s: set_var with empty key", where))
					}
				case EffectGameplayHook:
					if !hooks.Has(HookKind(e.Key)) {
						errs = append(errs, fmt.Errorf("%s: %w: %q", where, ErrUnknownHook, e.Key))
					}
				default:
					errs = append(errs, fmt.Errorf("%s: %w: %q", where, ErrUnknownEffect, e.Type))
				}
			}
		}
	}

	for i, t := range s.RideTriggers {
		switch t.Type {
		case TriggerRideTime, TriggerRideDistance, TriggerGameEvent:
		default:
			errs = append(errs, fmt.Errorf("set %q trigger %d: %w: %q", s.ID, i, ErrUnknownTrigger, t.Type))
		}
		if !has(t.EntryNodeID) {
			errs = append(errs, fmt.Errorf("set %q trigger %d: entry %w: %q", s.ID, i, ErrNodeNotFound, t.EntryNodeID))
		}
	}

	return errors.Join(errs...)
}

// Validate checks both sets of the profile against the built-in hooks.
func (p *Profile) Validate() error {
	return p.ValidateHooks(BuiltinHooks())
}

// ValidateHooks checks both sets of the profile.
func (p *Profile) ValidateHooks(hooks HookSet) error {
	if p == nil {
		return errors.New("nil profile")
	}
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("profile id is required"))
	}
	if err := p.Pickup.ValidateHooks(hooks); err != nil {
		errs = append(errs, fmt.Errorf("profile %q pickup: %w", p.ID, err))
	}
	if err := p.Ride.ValidateHooks(hooks); err != nil {
		errs = append(errs, fmt.Errorf("profile %q ride: %w", p.ID, err))
	}
	return errors.Join(errs...)
}
