package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTopicPrefix roots the MQTT topic tree: <prefix>/<session>/<event type>.
const DefaultTopicPrefix = "taxi/ride"

// MQTTPublisher publishes events for spawn authorities that sit on a device bus.
type MQTTPublisher struct {
	client paho.Client
	prefix string
	qos    byte
	logger *slog.Logger
}

var _ Sink = (*MQTTPublisher)(nil)

// NewMQTTClient creates a paho client with reconnects enabled. It does not connect.
func NewMQTTClient(brokerURL, clientID string) paho.Client {
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)
	return paho.NewClient(opts)
}

// ConnectMQTT connects the client, giving up after timeout.
func ConnectMQTT(client paho.Client, timeout time.Duration) error {
	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt connect timeout after %s", timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// NewMQTTPublisher wraps a connected client. Events are sent with QoS 1.
func NewMQTTPublisher(client paho.Client, prefix string, logger *slog.Logger) *MQTTPublisher {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &MQTTPublisher{
		client: client,
		prefix: strings.TrimSuffix(prefix, "/"),
		qos:    1,
		logger: logger,
	}
}

// Topic returns the topic an event is published on.
func (m *MQTTPublisher) Topic(event Event) string {
	return fmt.Sprintf("%s/%s/%s", m.prefix, event.SessionID, event.Type)
}

// Publish sends the event and waits for the broker to acknowledge it or for
// ctx to end.
func (m *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	topic := m.Topic(event)
	token := m.client.Publish(topic, m.qos, false, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish to %s: %w", topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		m.logger.Error("Failed to publish event", "error", err, "topic", topic)
		return fmt.Errorf("mqtt publish to %s: %w", topic, err)
	}

	m.logger.Debug("Event published", "topic", topic, "event_type", event.Type)
	return nil
}
