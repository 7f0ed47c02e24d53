package amqp

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublishCreated(t *testing.T) {
	t.Parallel()
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, queue: DefaultQueue}

	require.NoError(t, p.PublishCreated(context.Background(), "prop-42"))

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"properties_queue"}, ch.keys)
	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.JSONEq(t, `{"action":"create","property_id":"prop-42"}`, string(msg.Body))
}

func TestPublish_Error(t *testing.T) {
	t.Parallel()
	p := &Publisher{ch: &fakeChannel{err: amqp.ErrClosed}, queue: DefaultQueue}

	err := p.Publish(context.Background(), PropertyMessage{Action: ActionDelete, PropertyID: "p"})
	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.Contains(t, err.Error(), "failed to publish delete for p")
}

func TestPublish_CancelledContext(t *testing.T) {
	t.Parallel()
	ch := &fakeChannel{}
	p := &Publisher{ch: ch, queue: DefaultQueue}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.PublishCreated(ctx, "p"), context.Canceled)
	assert.Empty(t, ch.published)
}

func TestClose(t *testing.T) {
	t.Parallel()
	ch := &fakeChannel{}
	p := &Publisher{ch: ch}

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	require.NoError(t, p.Close())
}

// TestPublisher_RabbitMQ runs against a real broker when RENTWISE_TEST_AMQP_URL is set.
func TestPublisher_RabbitMQ(t *testing.T) {
	url := os.Getenv("RENTWISE_TEST_AMQP_URL")
	if url == "" {
		t.Skip("RENTWISE_TEST_AMQP_URL not set")
	}

	p, err := Dial(url, "rentwise_test_queue")
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.PublishCreated(context.Background(), "prop-1"))

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	d, ok, err := ch.Get("rentwise_test_queue", true)
	require.NoError(t, err)
	require.True(t, ok)

	var msg PropertyMessage
	require.NoError(t, json.Unmarshal(d.Body, &msg))
	assert.Equal(t, PropertyMessage{Action: ActionCreate, PropertyID: "prop-1"}, msg)
}
