package ride

import (
	"time"

	"github.com/jwebster45206/ride-engine/pkg/dialogue"
)

// rideProgress tracks how far the current ride has gone so the ride set's
// triggers can fire. Each trigger fires at most once per ride.
type rideProgress struct {
	set      *dialogue.Set
	elapsed  time.Duration
	distance float64
	fired    map[int]bool
}

func newRideProgress(set *dialogue.Set) rideProgress {
	return rideProgress{set: set, fired: make(map[int]bool)}
}

// AddDistance records distance driven with the current passenger aboard and
// fires any distance triggers that are now due.
func (o *Orchestrator) AddDistance(d float64) {
	if o.current == nil || d <= 0 {
		return
	}
	o.progress.distance += d
	o.checkRideTriggers()
}

// NotifyGameEvent fires the current ride's game_event triggers for key.
func (o *Orchestrator) NotifyGameEvent(key string) {
	if o.current == nil || o.progress.set == nil {
		return
	}
	for i, t := range o.progress.set.RideTriggers {
		if t.Type == dialogue.TriggerGameEvent && t.EventKey == key {
			o.fireTrigger(i, t)
		}
	}
}

func (o *Orchestrator) checkRideTriggers() {
	if o.progress.set == nil || o.playing {
		return
	}
	seconds := o.progress.elapsed.Seconds()
	for i, t := range o.progress.set.RideTriggers {
		switch t.Type {
		case dialogue.TriggerRideTime:
			if seconds >= t.Threshold {
				o.fireTrigger(i, t)
			}
		case dialogue.TriggerRideDistance:
			if o.progress.distance >= t.Threshold {
				o.fireTrigger(i, t)
			}
		}
	}
}

// fireTrigger opens the trigger's node. A trigger that could not open because
// another dialogue was playing stays armed.
func (o *Orchestrator) fireTrigger(i int, t dialogue.RideTrigger) {
	if o.progress.fired[i] {
		return
	}
	if o.startRideDialogue(t.EntryNodeID) {
		o.progress.fired[i] = true
		o.logger.Debug("Ride trigger fired", "type", t.Type, "node_id", t.EntryNodeID)
	}
}
