// Package seats tracks which passengers occupy the taxi's seats.
package seats

import "github.com/jwebster45206/ride-engine/pkg/passenger"

// Listener receives seat changes. Any field may be nil.
type Listener struct {
	OnSeated   func(p *passenger.Passenger)
	OnUnseated func(p *passenger.Passenger)
	OnFull     func()
	OnFreed    func()
}

// Ledger is an ordered, capacity-bounded set of seated passengers. Seat order
// is insertion order. The order slice and the membership set always hold the
// same passengers.
type Ledger struct {
	capacity int
	order    []*passenger.Passenger
	members  map[*passenger.Passenger]struct{}
	listener Listener
}

// NewLedger creates a ledger. Capacity is clamped to at least 1.
func NewLedger(capacity int, listener Listener) *Ledger {
	if capacity < 1 {
		capacity = 1
	}
	return &Ledger{
		capacity: capacity,
		members:  make(map[*passenger.Passenger]struct{}),
		listener: listener,
	}
}

func (l *Ledger) Capacity() int  { return l.capacity }
func (l *Ledger) Count() int     { return len(l.order) }
func (l *Ledger) HasSpace() bool { return len(l.order) < l.capacity }

// Contains reports whether p is seated.
func (l *Ledger) Contains(p *passenger.Passenger) bool {
	if p == nil {
		return false
	}
	_, ok := l.members[p]
	return ok
}

// SeatIndex returns p's position in seat order, or -1.
func (l *Ledger) SeatIndex(p *passenger.Passenger) int {
	if !l.Contains(p) {
		return -1
	}
	for i, s := range l.order {
		if s == p {
			return i
		}
	}
	return -1
}

// Order returns a copy of the seated passengers in seat order.
func (l *Ledger) Order() []*passenger.Passenger {
	out := make([]*passenger.Passenger, len(l.order))
	copy(out, l.order)
	return out
}

// TrySeat seats p. It fails if p is nil, already seated, or there is no space.
func (l *Ledger) TrySeat(p *passenger.Passenger) bool {
	if p == nil || !l.HasSpace() || l.Contains(p) {
		return false
	}
	l.order = append(l.order, p)
	l.members[p] = struct{}{}

	if l.listener.OnSeated != nil {
		l.listener.OnSeated(p)
	}
	if !l.HasSpace() && l.listener.OnFull != nil {
		l.listener.OnFull()
	}
	return true
}

// TryUnseat frees p's seat. It fails if p is not seated.
func (l *Ledger) TryUnseat(p *passenger.Passenger) bool {
	if !l.Contains(p) {
		return false
	}
	wasFull := !l.HasSpace()

	delete(l.members, p)
	for i, s := range l.order {
		if s == p {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	if l.listener.OnUnseated != nil {
		l.listener.OnUnseated(p)
	}
	if wasFull && l.HasSpace() && l.listener.OnFreed != nil {
		l.listener.OnFreed()
	}
	return true
}

// UnseatAll frees every seat in seat order.
func (l *Ledger) UnseatAll() {
	for _, p := range l.Order() {
		l.TryUnseat(p)
	}
}

// SetCapacity changes the capacity, clamped to at least 1. When shrinking
// below occupancy the most recently seated passengers are unseated first.
func (l *Ledger) SetCapacity(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	l.capacity = capacity
	for len(l.order) > l.capacity {
		l.TryUnseat(l.order[len(l.order)-1])
	}
}
