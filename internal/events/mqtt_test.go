package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeToken is an already-completed paho token.
type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error, complete bool) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	if complete {
		close(t.done)
	}
	return t
}

func (t *fakeToken) Wait() bool                     { return t.isDone() }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.isDone() }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) isDone() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeMQTTClient records publishes. Only Publish is implemented.
type fakeMQTTClient struct {
	paho.Client
	published []published
	err       error
	hang      bool
}

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.published = append(c.published, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return newFakeToken(c.err, !c.hang)
}

func TestMQTTPublisher_Publish(t *testing.T) {
	client := &fakeMQTTClient{}
	pub := NewMQTTPublisher(client, "fleet/7/", testLogger())

	accepted := true
	ev := Event{Type: EventTypePickupDecision, SessionID: "s1", PassengerID: 4, Accepted: &accepted}
	require.NoError(t, pub.Publish(context.Background(), ev))

	require.Len(t, client.published, 1)
	got := client.published[0]
	assert.Equal(t, "fleet/7/s1/pickup.decision", got.topic)
	assert.Equal(t, byte(1), got.qos)

	var decoded Event
	require.NoError(t, json.Unmarshal(got.payload, &decoded))
	assert.Equal(t, 4, decoded.PassengerID)
	assert.True(t, *decoded.Accepted)
}

func TestMQTTPublisher_Errors(t *testing.T) {
	client := &fakeMQTTClient{err: errors.New("not connected")}
	pub := NewMQTTPublisher(client, "", testLogger())
	err := pub.Publish(context.Background(), Event{Type: EventTypeJobCompleted, SessionID: "s"})
	assert.Error(t, err)
	assert.Equal(t, DefaultTopicPrefix+"/s/ride.job_completed", client.published[0].topic)

	hanging := &fakeMQTTClient{hang: true}
	pub = NewMQTTPublisher(hanging, "", testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = pub.Publish(ctx, Event{Type: EventTypeJobCompleted, SessionID: "s"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
