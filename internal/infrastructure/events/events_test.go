package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	topic  string
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newFakeKafka() (*KafkaPublisher, map[string]*fakeWriter) {
	writers := map[string]*fakeWriter{}
	p := NewKafkaPublisher([]string{"broker:9092"})
	p.newWriter = func(_ []string, topic string) messageWriter {
		w := &fakeWriter{topic: topic}
		writers[topic] = w
		return w
	}
	return p, writers
}

func TestKafkaPublisher_WriterPerTopic(t *testing.T) {
	p, writers := newFakeKafka()
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "session.started", "sess-1", map[string]string{"sessionId": "sess-1"}))
	require.NoError(t, p.Publish(ctx, "session.started", "sess-2", map[string]string{"sessionId": "sess-2"}))
	require.NoError(t, p.Publish(ctx, "auth.login", "u1", map[string]bool{"success": true}))

	require.Len(t, writers, 2)
	started := writers["session.started"]
	require.Len(t, started.msgs, 2)
	assert.Equal(t, "sess-1", string(started.msgs[0].Key))

	var body map[string]string
	require.NoError(t, json.Unmarshal(started.msgs[1].Value, &body))
	assert.Equal(t, "sess-2", body["sessionId"])

	require.NoError(t, p.Close())
	assert.True(t, started.closed)
	assert.True(t, writers["auth.login"].closed)
}

func TestNewKafkaWriter_FlushesSingleEventsQuickly(t *testing.T) {
	w, ok := newKafkaWriter([]string{"localhost:9092"}, "session.set_logged").(*kafka.Writer)
	require.True(t, ok)

	assert.Equal(t, "session.set_logged", w.Topic)
	assert.Positive(t, w.BatchTimeout)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	p, _ := newFakeKafka()
	boom := errors.New("leader not available")
	p.newWriter = func(_ []string, topic string) messageWriter { return &fakeWriter{topic: topic, err: boom} }

	err := p.Publish(context.Background(), "session.set_logged", "k", struct{}{})
	assert.ErrorIs(t, err, boom)
}

func TestKafkaPublisher_RejectsUnencodablePayload(t *testing.T) {
	p, writers := newFakeKafka()

	err := p.Publish(context.Background(), "auth.login", "k", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, writers)
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	pub, err := New(ctx, Config{Driver: "none"}, log)
	require.NoError(t, err)
	assert.IsType(t, Noop{}, pub)
	assert.NoError(t, pub.Publish(ctx, "x", "y", nil))

	pub, err = New(ctx, Config{Driver: "KAFKA", KafkaBrokers: []string{"localhost:9092"}}, log)
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, pub)

	_, err = New(ctx, Config{Driver: "kafka"}, log)
	assert.Error(t, err)

	_, err = New(ctx, Config{Driver: "amqp"}, log)
	assert.Error(t, err)

	_, err = New(ctx, Config{Driver: "nats"}, log)
	assert.Error(t, err)
}
