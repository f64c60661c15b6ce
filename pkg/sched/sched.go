// Package sched runs suspended tasks cooperatively from a host update loop.
// Nothing here blocks or starts goroutines: the host calls Tick once per frame
// and every pending task gets one step.
package sched

import "time"

// Task is a suspended operation. Step is called once per tick with the time
// elapsed since the previous tick and reports whether the task has finished.
type Task interface {
	Step(dt time.Duration) (done bool)
}

// TaskFunc adapts a function to Task.
type TaskFunc func(dt time.Duration) bool

func (f TaskFunc) Step(dt time.Duration) bool { return f(dt) }

// Handle identifies a started task.
type Handle uint64

type entry struct {
	id   Handle
	task Task
	dead bool
}

// Scheduler owns the clock and the pending tasks. It is not safe for
// concurrent use; all calls must come from the host loop.
type Scheduler struct {
	now    time.Duration
	nextID Handle
	tasks  []*entry
}

func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the total time ticked so far.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Start queues a task. It gets its first step on the next Tick.
func (s *Scheduler) Start(t Task) Handle {
	s.nextID++
	s.tasks = append(s.tasks, &entry{id: s.nextID, task: t})
	return s.nextID
}

// Cancel drops a pending task. Cancelling a finished task is a no-op.
func (s *Scheduler) Cancel(h Handle) {
	for _, e := range s.tasks {
		if e.id == h {
			e.dead = true
		}
	}
}

// Running reports whether the task is still pending.
func (s *Scheduler) Running(h Handle) bool {
	for _, e := range s.tasks {
		if e.id == h && !e.dead {
			return true
		}
	}
	return false
}

// Pending returns the number of unfinished tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.tasks {
		if !e.dead {
			n++
		}
	}
	return n
}

// Tick advances the clock by dt and steps every task that was pending when
// the tick began. Tasks started during a tick run from the next one.
func (s *Scheduler) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	s.now += dt

	batch := s.tasks
	for _, e := range batch {
		if e.dead {
			continue
		}
		if e.task.Step(dt) {
			e.dead = true
		}
	}

	live := s.tasks[:0:0]
	for _, e := range s.tasks {
		if !e.dead {
			live = append(live, e)
		}
	}
	s.tasks = live
}

// Delay returns a task that waits d and then calls fire. Before every step it
// checks alive; once alive reports false the task ends without firing.
func Delay(d time.Duration, alive func() bool, fire func()) Task {
	remaining := d
	return TaskFunc(func(dt time.Duration) bool {
		if alive != nil && !alive() {
			return true
		}
		remaining -= dt
		if remaining > 0 {
			return false
		}
		fire()
		return true
	})
}
