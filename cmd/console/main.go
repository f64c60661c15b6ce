package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/ride-engine/internal/config"
	"github.com/jwebster45206/ride-engine/internal/events"
	"github.com/jwebster45206/ride-engine/internal/logger"
	"github.com/jwebster45206/ride-engine/internal/storage"
)

const (
	logFile     = "ride-console.log"
	sinkTimeout = 2 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	log := logger.SetupWriter(cfg, f)

	ctx := context.Background()
	store := storage.NewFileStore(cfg.DataDir, log)
	passengers, err := store.LoadPassengers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load passengers: %v\n", err)
		os.Exit(1)
	}
	sinks, closeSinks := connectSinks(ctx, cfg, log)
	defer closeSinks()

	sess, err := newSession(cfg.Ride, passengers, sinks, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start session: %v\n", err)
		os.Exit(1)
	}
	log = logger.WithSession(log, sess.id)
	hooks := sess.orch.Hooks()
	for _, p := range passengers {
		if p.Profile == nil {
			continue
		}
		if err := p.Profile.ValidateHooks(hooks); err != nil {
			log.Warn("Profile failed validation", "profile", p.ProfileKey, "error", err)
		}
	}
	log.Info("Console session started",
		"passengers", len(passengers),
		"capacity", cfg.Ride.SeatCapacity,
		"ownership", sess.orch.Ownership().String(),
		"hooks", hooks.Kinds())

	p := tea.NewProgram(NewConsoleUI(sess),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// connectSinks builds the optional Redis and MQTT event sinks. A sink that
// cannot connect is logged and skipped; the console runs without it. Both are
// delivered off the UI loop.
func connectSinks(ctx context.Context, cfg *config.Config, log *slog.Logger) ([]events.Sink, func()) {
	var (
		sinks   []events.Sink
		closers []func()
	)

	if cfg.RedisURL != "" {
		client, err := events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, events will not be broadcast", "error", err)
		} else {
			async := events.NewAsyncSink("redis", events.NewBroadcaster(client, cfg.RedisChannel, log), events.DefaultAsyncBuffer, sinkTimeout, log)
			sinks = append(sinks, async)
			closers = append(closers, func() {
				drain(async, log)
				_ = client.Close()
			})
		}
	}

	if cfg.MQTTURL != "" {
		client := events.NewMQTTClient(cfg.MQTTURL, "ride-console-"+fmt.Sprint(os.Getpid()))
		if err := events.ConnectMQTT(client, 5*time.Second); err != nil {
			log.Warn("MQTT unavailable, events will not be published", "error", err)
		} else {
			async := events.NewAsyncSink("mqtt", events.NewMQTTPublisher(client, cfg.MQTTTopic, log), events.DefaultAsyncBuffer, sinkTimeout, log)
			sinks = append(sinks, async)
			closers = append(closers, func() {
				drain(async, log)
				client.Disconnect(250)
			})
		}
	}

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}
}

// drain waits briefly for queued events to reach the broker before exit.
func drain(s *events.AsyncSink, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()
	if err := s.Close(ctx); err != nil {
		log.Warn("Dropped undelivered events on exit", "error", err, "pending", s.Pending())
	}
}
