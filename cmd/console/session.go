package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/jwebster45206/ride-engine/internal/config"
	"github.com/jwebster45206/ride-engine/internal/events"
	"github.com/jwebster45206/ride-engine/internal/mediator"
	"github.com/jwebster45206/ride-engine/internal/ride"
	"github.com/jwebster45206/ride-engine/pkg/interpreter"
	"github.com/jwebster45206/ride-engine/pkg/passenger"
)

// session is everything one console run drives: the orchestrator, the
// mediator in front of it and the spawner behind it.
type session struct {
	id      uuid.UUID
	orch    *ride.Orchestrator
	med     *mediator.Mediator
	spawner *mediator.Spawner
	events  *events.Recorder
	screen  *transcript
	logger  *slog.Logger
	names   map[int]string

	copyText func(string) error
}

func rideOptions(cfg config.Ride) ride.Options {
	return ride.Options{
		Capacity:        cfg.SeatCapacity,
		PickupDebounce:  cfg.PickupDebounce,
		RideStartDelay:  cfg.StartDelay,
		RideFirstNodeID: cfg.FirstNodeID,
		Ownership:       ride.OwnershipFor(cfg.SpawnAuthorityOwnsInstances),
	}
}

func newSession(cfg config.Ride, passengers []*passenger.Passenger, sinks []events.Sink, logger *slog.Logger) (*session, error) {
	s := &session{
		id:       uuid.New(),
		spawner:  mediator.NewSpawner(logger),
		events:   events.NewRecorder(),
		screen:   newTranscript(),
		logger:   logger,
		names:    make(map[int]string, len(passengers)),
		copyText: clipboard.WriteAll,
	}
	for _, p := range passengers {
		s.spawner.Spawn(p)
		s.names[p.ID] = p.DisplayName
	}
	s.med = mediator.New(s.spawner, logger)

	emitter := events.NewEmitter(s.id, logger, append([]events.Sink{s.events}, sinks...)...)
	listener := events.Multi{noticeListener{s}, s.med, emitter}

	orch, err := ride.New(rideOptions(cfg), s.screen, listener, nil, logger)
	if err != nil {
		return nil, err
	}
	s.orch = orch
	s.med.Bind(orch)
	return s, nil
}

func (s *session) name(id int) string {
	if n, ok := s.names[id]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("#%d", id)
}

// exec runs one console command and returns a status message.
func (s *session) exec(c command) (string, error) {
	switch c.kind {
	case cmdAdvance:
		if err := s.orch.Advance(); err != nil {
			return "", s.dialogueError(err)
		}
		return "", nil

	case cmdChoose:
		if err := s.orch.SelectChoice(c.choice); err != nil {
			return "", s.dialogueError(err)
		}
		return "", nil

	case cmdPickup:
		p, ok := s.spawner.Get(c.passengerID)
		if !ok {
			return "", fmt.Errorf("no passenger %d is waiting", c.passengerID)
		}
		if s.orch.Roster().Contains(p) {
			return "", fmt.Errorf("%s is already aboard", p.DisplayName)
		}
		s.med.EnterPickup(p)
		return fmt.Sprintf("Pulled up for %s.", p.DisplayName), nil

	case cmdLeave:
		w := s.med.Waiting()
		if w == nil {
			return "", errors.New("not at a pickup")
		}
		s.med.ExitPickup(w)
		return fmt.Sprintf("Drove away from %s.", w.DisplayName), nil

	case cmdDropoff:
		cur := s.orch.CurrentPassenger()
		if cur == nil {
			return "", errors.New("nobody to drop off")
		}
		s.med.ReachedDropoff(cur)
		return fmt.Sprintf("Reached %s's destination.", cur.DisplayName), nil

	case cmdDrive:
		s.orch.AddDistance(c.distance)
		return fmt.Sprintf("Drove %.0fm.", c.distance), nil

	case cmdWait:
		d := time.Duration(c.seconds * float64(time.Second))
		s.orch.Tick(d)
		return fmt.Sprintf("Waited %s.", d), nil

	case cmdEvent:
		s.orch.NotifyGameEvent(c.key)
		return fmt.Sprintf("Raised %q.", c.key), nil

	case cmdTrigger:
		s.orch.NotifyRideTrigger(c.key)
		return "", nil

	case cmdCopy:
		if err := s.copyText(s.screen.Text()); err != nil {
			return "", fmt.Errorf("failed to copy transcript: %w", err)
		}
		return "Transcript copied to clipboard.", nil

	case cmdHelp:
		return helpText, nil
	}
	return "", fmt.Errorf("unsupported command")
}

func (s *session) dialogueError(err error) error {
	switch {
	case errors.Is(err, ride.ErrNoDialogue):
		return errors.New("no dialogue is open")
	case errors.Is(err, interpreter.ErrNotWaitingForAdvance):
		return errors.New("pick a choice first")
	case errors.Is(err, interpreter.ErrNotWaitingForChoice):
		return errors.New("press Enter to continue the dialogue")
	case errors.Is(err, interpreter.ErrChoiceOutOfRange):
		return errors.New("no such choice")
	}
	return err
}

// noticeListener narrates the core's notifications into the transcript.
type noticeListener struct{ s *session }

func (n noticeListener) PickupDecision(id int, accepted bool) {
	if accepted {
		n.s.screen.notice(fmt.Sprintf("%s got in.", n.s.name(id)))
		return
	}
	n.s.screen.notice(fmt.Sprintf("%s was not picked up.", n.s.name(id)))
}

func (n noticeListener) RequestDespawn(id int) {}

func (n noticeListener) JobCompleted(id int) {
	n.s.screen.notice(fmt.Sprintf("Dropped off %s.", n.s.name(id)))
}

func (n noticeListener) GhostRefused(id int) {
	n.s.screen.notice(fmt.Sprintf("%s won't get out.", n.s.name(id)))
}
