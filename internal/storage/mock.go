package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	mu         sync.RWMutex
	profiles   map[string]*dialogue.Profile
	passengers []PassengerSpec
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{profiles: make(map[string]*dialogue.Profile)}
}

// AddProfile stores a profile under its id.
func (m *MockStore) AddProfile(p *dialogue.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
}

// AddPassenger appends a passenger to the roster.
func (m *MockStore) AddPassenger(spec PassengerSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passengers = append(m.passengers, spec)
}

func (m *MockStore) ListProfiles(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.profiles))
	for id := range m.profiles {
		out[id] = id + ".json"
	}
	return out, nil
}

func (m *MockStore) GetProfile(ctx context.Context, id string) (*dialogue.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return p, nil
}

func (m *MockStore) LoadPassengers(ctx context.Context) ([]*passenger.Passenger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*passenger.Passenger, 0, len(m.passengers))
	for _, s := range m.passengers {
		p := passenger.New(s.ID, s.Name, s.Kind, m.profiles[s.Profile])
		p.ProfileKey = s.Profile
		out = append(out, p)
	}
	return out, nil
}
