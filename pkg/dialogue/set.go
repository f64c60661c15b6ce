package dialogue

import (
	"fmt"
)

// DefaultEntryNodeID is used when a set does not name its entry node.
const DefaultEntryNodeID = "start"

// TriggerType says what causes a ride trigger to fire.
type TriggerType string

const (
	TriggerRideTime     TriggerType = "ride_time"     // Threshold is seconds since the ride started
	TriggerRideDistance TriggerType = "ride_distance" // Threshold is distance travelled since the ride started
	TriggerGameEvent    TriggerType = "game_event"    // Fires when EventKey is reported
)

// RideTrigger opens a ride dialogue node when its condition is first met.
type RideTrigger struct {
	Type        TriggerType `json:"type" yaml:"type"`
	Threshold   float64     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	EventKey    string      `json:"event_key,omitempty" yaml:"event_key,omitempty"`
	EntryNodeID string      `json:"entry_node_id" yaml:"entry_node_id"`
}

// Set is an authored dialogue graph. Nodes are looked up by id; use NewSet or
// Index before calling Node on a set built by hand.
type Set struct {
	ID           string        `json:"id" yaml:"id"`
	EntryNodeID  string        `json:"entry_node_id,omitempty" yaml:"entry_node_id,omitempty"`
	Nodes        []Node        `json:"nodes" yaml:"nodes"`
	RideTriggers []RideTrigger `json:"ride_triggers,omitempty" yaml:"ride_triggers,omitempty"`

	byID map[string]*Node
}

// NewSet builds and indexes a set.
func NewSet(id, entry string, nodes ...Node) (*Set, error) {
	s := &Set{ID: id, EntryNodeID: entry, Nodes: nodes}
	if err := s.Index(); err != nil {
		return nil, err
	}
	return s, nil
}

// Index builds the id lookup table. Duplicate ids are an error.
func (s *Set) Index() error {
	if s.EntryNodeID == "" {
		s.EntryNodeID = DefaultEntryNodeID
	}
	s.byID = make(map[string]*Node, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if _, dup := s.byID[n.ID]; dup {
			s.byID = nil
			return fmt.Errorf("set %q: %w: %q", s.ID, ErrDuplicateNode, n.ID)
		}
		s.byID[n.ID] = n
	}
	return nil
}

// Node returns the node with the given id, or nil and false if there is none.
// A nil set resolves nothing.
func (s *Set) Node(id string) (*Node, bool) {
	if s == nil || id == "" {
		return nil, false
	}
	if s.byID == nil {
		if err := s.Index(); err != nil {
			return nil, false
		}
	}
	n, ok := s.byID[id]
	return n, ok
}

// Entry returns the set's entry node.
func (s *Set) Entry() (*Node, bool) {
	if s == nil {
		return nil, false
	}
	return s.Node(s.EntryNodeID)
}

// Profile pairs the dialogue a passenger uses while waiting at the stop with
// the dialogue used during the ride.
type Profile struct {
	ID     string `json:"id" yaml:"id"`
	Pickup *Set   `json:"pickup,omitempty" yaml:"pickup,omitempty"`
	Ride   *Set   `json:"ride,omitempty" yaml:"ride,omitempty"`
}

// PickupSet returns the profile's pickup set. Safe on a nil profile.
func (p *Profile) PickupSet() *Set {
	if p == nil {
		return nil
	}
	return p.Pickup
}

// RideSet returns the profile's ride set. Safe on a nil profile.
func (p *Profile) RideSet() *Set {
	if p == nil {
		return nil
	}
	return p.Ride
}
