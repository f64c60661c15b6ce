package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultAsyncBuffer is the queue length used when NewAsyncSink is given none.
const DefaultAsyncBuffer = 64

var (
	ErrSinkFull   = errors.New("event sink buffer full")
	ErrSinkClosed = errors.New("event sink closed")
)

// AsyncSink queues events for a wrapped Sink and delivers them from its own
// goroutine, so Publish never waits on the network. An event that arrives
// while the queue is full is dropped and Publish reports ErrSinkFull.
type AsyncSink struct {
	name    string
	sink    Sink
	queue   chan Event
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ Sink = (*AsyncSink)(nil)

// NewAsyncSink starts the delivery goroutine. timeout bounds each delivery to
// the wrapped sink.
func NewAsyncSink(name string, sink Sink, buffer int, timeout time.Duration, logger *slog.Logger) *AsyncSink {
	if buffer <= 0 {
		buffer = DefaultAsyncBuffer
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &AsyncSink{
		name:    name,
		sink:    sink,
		queue:   make(chan Event, buffer),
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues the event without blocking.
func (a *AsyncSink) Publish(_ context.Context, event Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return fmt.Errorf("%s: %w", a.name, ErrSinkClosed)
	}
	select {
	case a.queue <- event:
		return nil
	default:
		return fmt.Errorf("%s: %w", a.name, ErrSinkFull)
	}
}

// Pending returns the number of queued events not yet handed to the sink.
func (a *AsyncSink) Pending() int {
	return len(a.queue)
}

func (a *AsyncSink) run() {
	defer close(a.done)
	for ev := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.sink.Publish(ctx, ev); err != nil {
			a.logger.Warn("Failed to deliver event",
				"sink", a.name,
				"event_type", ev.Type,
				"passenger_id", ev.PassengerID,
				"error", err)
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queue to drain or for ctx
// to end. It is safe to call more than once.
func (a *AsyncSink) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: drain: %w", a.name, ctx.Err())
	}
}
