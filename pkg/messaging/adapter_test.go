package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBroker struct {
	channel string
	message interface{}
	err     error
	closed  bool
}

func (b *recordingBroker) Publish(_ context.Context, channel string, message interface{}) error {
	b.channel, b.message = channel, message
	return b.err
}

func (b *recordingBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, errors.New("not supported")
}

func (b *recordingBroker) Close() error {
	b.closed = true
	return nil
}

func TestEventPublisher_Publish(t *testing.T) {
	broker := &recordingBroker{}
	pub := NewEventPublisher(broker, "clinics.events")

	require.NoError(t, pub.Publish(context.Background(), "clinic.created", map[string]string{"id": "1"}))

	assert.Equal(t, "clinics.events", broker.channel)
	assert.Equal(t, Message{Type: "clinic.created", Payload: map[string]string{"id": "1"}}, broker.message)
}

func TestEventPublisher_PublishError(t *testing.T) {
	cause := errors.New("broker down")
	pub := NewEventPublisher(&recordingBroker{err: cause}, "clinics.events")

	err := pub.Publish(context.Background(), "clinic.created", nil)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to publish clinic.created")
}

func TestEventPublisher_Close(t *testing.T) {
	broker := &recordingBroker{}
	require.NoError(t, NewEventPublisher(broker, "c").Close())
	assert.True(t, broker.closed)
}
