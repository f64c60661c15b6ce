package passenger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
)

// Kind classifies a passenger. Ghosts are never let out at dropoff.
type Kind int

const (
	Human Kind = iota
	Ghost
)

func (k Kind) String() string {
	switch k {
	case Ghost:
		return "ghost"
	default:
		return "human"
	}
}

// ParseKind accepts "human" or "ghost", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "":
		return Human, nil
	case "ghost":
		return Ghost, nil
	}
	return Human, fmt.Errorf("unknown passenger kind: %q", s)
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Passenger is a spawned entity the ride can pick up. Its lifetime is owned by
// either the ride orchestrator or the external spawn authority; Destroy marks
// it invalid, after which it must not be used for a ride.
type Passenger struct {
	ID          int
	DisplayName string
	Kind        Kind
	ProfileKey  string            // Dialogue profile key, see Profile
	Profile     *dialogue.Profile // Resolved dialogue profile, may be nil

	seated    bool
	destroyed bool
}

// New returns a passenger with a resolved profile.
func New(id int, name string, kind Kind, profile *dialogue.Profile) *Passenger {
	p := &Passenger{ID: id, DisplayName: name, Kind: kind, Profile: profile}
	if profile != nil {
		p.ProfileKey = profile.ID
	}
	return p
}

// IsGhost reports whether the passenger is a ghost.
func (p *Passenger) IsGhost() bool {
	return p != nil && p.Kind == Ghost
}

// IsSeated reports whether the passenger is in a roster.
func (p *Passenger) IsSeated() bool {
	return p != nil && p.seated
}

// Valid reports whether the passenger reference can still be used.
func (p *Passenger) Valid() bool {
	return p != nil && !p.destroyed
}

// Destroy invalidates the passenger.
func (p *Passenger) Destroy() {
	if p != nil {
		p.destroyed = true
	}
}

// IDOrNone returns the passenger id, or -1 for a nil passenger.
func (p *Passenger) IDOrNone() int {
	if p == nil {
		return -1
	}
	return p.ID
}

func (p *Passenger) String() string {
	if p == nil {
		return "<nil passenger>"
	}
	return fmt.Sprintf("%s#%d(%s)", p.DisplayName, p.ID, p.Kind)
}
