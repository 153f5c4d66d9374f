package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/mergington/signup/internal/domain/model"
	"github.com/mergington/signup/pkg/logger"
)

type stubWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
	deadline bool
}

func (s *stubWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, s.deadline = ctx.Deadline()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msgs...)
	return nil
}

func (s *stubWriter) Close() error {
	s.closed = true
	return nil
}

func sampleEvent() model.RegistrationEvent {
	return model.RegistrationEvent{
		ID:         "3f1c8a52-6b1e-4d3a-9b8e-0e6f3e9d1a21",
		Type:       model.EventSignup,
		Activity:   "Chess Club",
		Email:      "newstudent@mergington.edu",
		OccurredAt: time.Date(2024, 9, 6, 15, 30, 0, 0, time.UTC),
	}
}

func TestNewKafkaPublisherValidation(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "activity-registrations")
	require.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	require.ErrorIs(t, err, ErrNoTopic)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "activity-registrations")
	require.NoError(t, err)
	require.Equal(t, "activity-registrations", p.Topic())
	require.IsType(t, &kafka.Writer{}, p.writer)
}

func TestKafkaPublisherPublish(t *testing.T) {
	writer := &stubWriter{}
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "activity-registrations", withMessageWriter(writer))
	require.NoError(t, err)

	event := sampleEvent()
	require.NoError(t, p.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "Chess Club", string(msg.Key))
	require.Equal(t, event.OccurredAt, msg.Time)
	require.True(t, writer.deadline, "publish should bound the write with a timeout")
	require.Len(t, msg.Headers, 1)
	require.Equal(t, EventTypeHeader, msg.Headers[0].Key)
	require.Equal(t, "signup", string(msg.Headers[0].Value))

	var decoded model.RegistrationEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, event, decoded)
}

func TestKafkaPublisherPublishFailure(t *testing.T) {
	writer := &stubWriter{err: errors.New("kafka write failed")}
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "activity-registrations", withMessageWriter(writer))
	require.NoError(t, err)

	err = p.Publish(context.Background(), sampleEvent())
	require.ErrorIs(t, err, ErrPublish)
	require.Contains(t, err.Error(), "kafka write failed")
	require.Empty(t, writer.messages)
}

func TestKafkaPublisherClose(t *testing.T) {
	writer := &stubWriter{}
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "t", withMessageWriter(writer), WithWriteTimeout(time.Second))
	require.NoError(t, err)
	require.Equal(t, time.Second, p.writeTimeout)
	require.NoError(t, p.Close())
	require.True(t, writer.closed)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logger.Init(logger.WithFormat(logger.FormatJSON), logger.WithWriter(&buf)))

	p := NewLogPublisher(logger.Get().Named("events"))
	event := sampleEvent()
	event.Type = model.EventUnregister
	require.NoError(t, p.Publish(context.Background(), event))
	require.NoError(t, p.Close())

	out := buf.String()
	require.Contains(t, out, `"msg":"registration event"`)
	require.Contains(t, out, `"type":"unregister"`)
	require.Contains(t, out, `"activity":"Chess Club"`)
	require.Contains(t, out, `"email":"newstudent@mergington.edu"`)
}
