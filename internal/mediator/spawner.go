package mediator

import (
	"log/slog"
	"sort"

	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

// Spawner is an in-memory SpawnAuthority: it owns the passengers placed in
// the world and destroys them on request.
type Spawner struct {
	logger     *slog.Logger
	passengers map[int]*passenger.Passenger
	completed  []int
	refused    []int
}

var _ SpawnAuthority = (*Spawner)(nil)

func NewSpawner(logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{logger: logger, passengers: make(map[int]*passenger.Passenger)}
}

// Spawn places p in the world. A passenger with the same id is replaced.
func (s *Spawner) Spawn(p *passenger.Passenger) {
	if !p.Valid() {
		return
	}
	if old, ok := s.passengers[p.ID]; ok && old != p {
		old.Destroy()
	}
	s.passengers[p.ID] = p
	s.logger.Debug("Passenger spawned", "passenger_id", p.ID, "name", p.DisplayName)
}

// Get returns a live passenger by id.
func (s *Spawner) Get(id int) (*passenger.Passenger, bool) {
	p, ok := s.passengers[id]
	if !ok || !p.Valid() {
		return nil, false
	}
	return p, true
}

// Live returns the live passengers ordered by id.
func (s *Spawner) Live() []*passenger.Passenger {
	out := make([]*passenger.Passenger, 0, len(s.passengers))
	for _, p := range s.passengers {
		if p.Valid() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Despawn destroys the passenger with the given id.
func (s *Spawner) Despawn(id int) {
	if id < 0 {
		s.logger.Warn("Despawn requested for invalid id", "passenger_id", id)
		return
	}
	p, ok := s.passengers[id]
	if !ok {
		s.logger.Warn("Despawn requested for unknown passenger", "passenger_id", id)
		return
	}
	p.Destroy()
	delete(s.passengers, id)
	s.logger.Info("Passenger despawned", "passenger_id", id, "name", p.DisplayName)
}

func (s *Spawner) JobCompleted(id int) {
	s.completed = append(s.completed, id)
	s.logger.Info("Job completed", "passenger_id", id, "jobs", len(s.completed))
}

func (s *Spawner) GhostRefused(id int) {
	s.refused = append(s.refused, id)
	s.logger.Info("Ghost refused to leave", "passenger_id", id)
}

// Completed returns the ids of passengers delivered so far.
func (s *Spawner) Completed() []int { return append([]int(nil), s.completed...) }

// Refused returns the ids of ghosts that refused to get out.
func (s *Spawner) Refused() []int { return append([]int(nil), s.refused...) }
