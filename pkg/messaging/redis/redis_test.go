package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-registry/pkg/circuitbreaker"
	"github.com/jwalitptl/clinic-registry/pkg/messaging"
)

func newTestBroker(t *testing.T) (*miniredis.Miniredis, messaging.Broker) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := Connect(context.Background(), Config{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)

	broker := NewRedisBroker(client, nil)
	t.Cleanup(func() { broker.Close() })
	return mr, broker
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{URL: "not a url"})
	assert.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Connect(context.Background(), Config{URL: "redis://" + addr})
	assert.Error(t, err)
}

func TestRedisBroker_PublishSubscribe(t *testing.T) {
	_, broker := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := broker.Subscribe(ctx, "clinics.events")
	require.NoError(t, err)

	pub := messaging.NewEventPublisher(broker, "clinics.events")
	require.NoError(t, pub.Publish(ctx, "clinic.created", map[string]string{"clinic_id": "CLN-1"}))

	select {
	case raw := <-messages:
		var got struct {
			Type    string            `json:"type"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "clinic.created", got.Type)
		assert.Equal(t, "CLN-1", got.Payload["clinic_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	cancel()
	select {
	case _, ok := <-messages:
		assert.False(t, ok, "channel closes when the context ends")
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

func TestRedisBroker_PublishUnmarshalable(t *testing.T) {
	_, broker := newTestBroker(t)

	err := broker.Publish(context.Background(), "c", map[string]interface{}{"bad": make(chan int)})
	assert.ErrorContains(t, err, "failed to marshal message")
}

func TestRedisBroker_BreakerOpensWhenRedisIsDown(t *testing.T) {
	mr, broker := newTestBroker(t)
	mr.Close()

	var err error
	for i := 0; i < 6; i++ {
		err = broker.Publish(context.Background(), "c", "payload")
	}
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
}
