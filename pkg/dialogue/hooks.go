package dialogue

import (
	"sort"
)

// HookKind names a gameplay action a choice can invoke.
type HookKind string

const (
	HookAcceptPickup  HookKind = "ACCEPT_PICKUP"
	HookDeclinePickup HookKind = "DECLINE_PICKUP"
)

// HookSet is the set of hook kinds authored content may invoke. Each host
// builds its own; there is no process-wide registry.
type HookSet map[HookKind]struct{}

// BuiltinHooks returns a new set holding the pickup hooks.
func BuiltinHooks() HookSet {
	return HookSet{
		HookAcceptPickup:  {},
		HookDeclinePickup: {},
	}
}

// Add makes kinds valid in the set.
func (h HookSet) Add(kinds ...HookKind) {
	for _, k := range kinds {
		h[k] = struct{}{}
	}
}

// Has reports whether kind is in the set.
func (h HookSet) Has(kind HookKind) bool {
	_, ok := h[kind]
	return ok
}

// Kinds lists the set in sorted order.
func (h HookSet) Kinds() []HookKind {
	out := make([]HookKind, 0, len(h))
	for k := range h {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
