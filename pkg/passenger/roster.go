package passenger

// RosterListener receives roster changes. Any field may be nil.
type RosterListener struct {
	OnAdded   func(p *Passenger)
	OnRemoved func(p *Passenger)
	OnFull    func()
	OnFreed   func()
}

// Roster is the capacity-bounded, ordered set of passengers currently taking
// part in a ride.
type Roster struct {
	capacity int
	active   []*Passenger
	listener RosterListener
}

// NewRoster creates a roster. Capacity is clamped to at least 1.
func NewRoster(capacity int, listener RosterListener) *Roster {
	if capacity < 1 {
		capacity = 1
	}
	return &Roster{capacity: capacity, listener: listener}
}

func (r *Roster) Capacity() int  { return r.capacity }
func (r *Roster) Count() int     { return len(r.active) }
func (r *Roster) HasSpace() bool { return len(r.active) < r.capacity }

// Active returns a copy of the roster in insertion order.
func (r *Roster) Active() []*Passenger {
	out := make([]*Passenger, len(r.active))
	copy(out, r.active)
	return out
}

// Contains reports whether p is in the roster.
func (r *Roster) Contains(p *Passenger) bool {
	return r.indexOf(p) >= 0
}

// ContainsID reports whether a passenger with the given id is in the roster.
func (r *Roster) ContainsID(id int) bool {
	_, ok := r.Get(id)
	return ok
}

// Get looks up an active passenger by id.
func (r *Roster) Get(id int) (*Passenger, bool) {
	for _, p := range r.active {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// IDs returns the ids of all active passengers in order.
func (r *Roster) IDs() []int {
	ids := make([]int, 0, len(r.active))
	for _, p := range r.active {
		ids = append(ids, p.ID)
	}
	return ids
}

// Add puts an existing passenger into the roster. It fails for nil or
// destroyed passengers, duplicates, or when the roster is full.
func (r *Roster) Add(p *Passenger) bool {
	if !p.Valid() || r.Contains(p) || !r.HasSpace() {
		return false
	}
	r.active = append(r.active, p)
	p.seated = true
	if r.listener.OnAdded != nil {
		r.listener.OnAdded(p)
	}
	if !r.HasSpace() && r.listener.OnFull != nil {
		r.listener.OnFull()
	}
	return true
}

// Remove takes p out of the roster. When destroy is set the passenger is
// invalidated as well, which is how the core ends the life of passengers it owns.
func (r *Roster) Remove(p *Passenger, destroy bool) bool {
	i := r.indexOf(p)
	if i < 0 {
		return false
	}
	wasFull := !r.HasSpace()
	r.active = append(r.active[:i], r.active[i+1:]...)
	p.seated = false

	if r.listener.OnRemoved != nil {
		r.listener.OnRemoved(p)
	}
	if wasFull && r.HasSpace() && r.listener.OnFreed != nil {
		r.listener.OnFreed()
	}
	if destroy {
		p.Destroy()
	}
	return true
}

// RemoveAll empties the roster.
func (r *Roster) RemoveAll(destroy bool) {
	for _, p := range r.Active() {
		r.Remove(p, destroy)
	}
}

// SetCapacity changes the capacity, clamped to at least 1, removing the most
// recently added passengers until the roster fits.
func (r *Roster) SetCapacity(capacity int, destroy bool) {
	if capacity < 1 {
		capacity = 1
	}
	r.capacity = capacity
	for len(r.active) > r.capacity {
		r.Remove(r.active[len(r.active)-1], destroy)
	}
}

func (r *Roster) indexOf(p *Passenger) int {
	if p == nil {
		return -1
	}
	for i, a := range r.active {
		if a == p {
			return i
		}
	}
	return -1
}
