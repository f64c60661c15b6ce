package state

import "maps"

// BranchKey is the free-form passenger flag every run state starts with.
const BranchKey = "branch_key"

// PassengerRunState is the per-passenger memory a dialogue reads and writes.
type PassengerRunState struct {
	PassengerID int               `json:"passenger_id"`
	Accepted    bool              `json:"accepted"`
	Vars        map[string]string `json:"vars"`
}

// NewPassengerRunState returns a run state with branch_key pre-seeded to "".
func NewPassengerRunState(passengerID int) *PassengerRunState {
	return &PassengerRunState{
		PassengerID: passengerID,
		Vars:        map[string]string{BranchKey: ""},
	}
}

// Get returns the variable's value, or "" if it is unset.
func (rs *PassengerRunState) Get(key string) string {
	if rs == nil || rs.Vars == nil {
		return ""
	}
	return rs.Vars[key]
}

// Set stores a variable.
func (rs *PassengerRunState) Set(key, value string) {
	if rs.Vars == nil {
		rs.Vars = make(map[string]string)
	}
	rs.Vars[key] = value
}

// IsAccepted reports whether the passenger's pickup was accepted. Safe on nil.
func (rs *PassengerRunState) IsAccepted() bool {
	return rs != nil && rs.Accepted
}

// Clone returns a deep copy.
func (rs *PassengerRunState) Clone() *PassengerRunState {
	if rs == nil {
		return nil
	}
	return &PassengerRunState{
		PassengerID: rs.PassengerID,
		Accepted:    rs.Accepted,
		Vars:        maps.Clone(rs.Vars),
	}
}

// RunStateTable holds run states by passenger id. Entries are created on first
// use and live until Evict is called.
type RunStateTable struct {
	byID map[int]*PassengerRunState
}

func NewRunStateTable() *RunStateTable {
	return &RunStateTable{byID: make(map[int]*PassengerRunState)}
}

// GetOrCreate returns the run state for id, creating it if needed.
func (t *RunStateTable) GetOrCreate(id int) *PassengerRunState {
	rs, ok := t.byID[id]
	if !ok {
		rs = NewPassengerRunState(id)
		t.byID[id] = rs
	}
	return rs
}

// Lookup returns the run state for id without creating one.
func (t *RunStateTable) Lookup(id int) (*PassengerRunState, bool) {
	rs, ok := t.byID[id]
	return rs, ok
}

// Evict forgets the run state for id. Evicting an unknown id is a no-op.
func (t *RunStateTable) Evict(id int) {
	delete(t.byID, id)
}

// Len returns the number of tracked passengers.
func (t *RunStateTable) Len() int {
	return len(t.byID)
}
