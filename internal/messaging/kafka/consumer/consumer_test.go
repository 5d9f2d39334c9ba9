package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-erp/internal/events"
	notificationerrors "go-erp/internal/notification/errors"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReader struct {
	messages  []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if err := ctx.Err(); err != nil {
		return kafkago.Message{}, err
	}
	if len(r.messages) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

type fakeSink struct {
	delivered []events.AbsenceNotificationEvent
	errFor    map[string]error
	// failures counts the transient errors left before an id is accepted.
	failures map[string]int
	attempts map[string]int
	onFail   func()
}

func (s *fakeSink) Deliver(ctx context.Context, event events.AbsenceNotificationEvent) error {
	if s.attempts == nil {
		s.attempts = map[string]int{}
	}
	s.attempts[event.NotificationID]++
	if err := s.errFor[event.NotificationID]; err != nil {
		return err
	}
	if s.failures[event.NotificationID] > 0 {
		s.failures[event.NotificationID]--
		if s.onFail != nil {
			s.onFail()
		}
		return errors.New("db down")
	}
	s.delivered = append(s.delivered, event)
	return nil
}

func noRetryDelay(t *testing.T) {
	t.Helper()
	prev := retryDelay
	retryDelay = func(int) time.Duration { return time.Millisecond }
	t.Cleanup(func() { retryDelay = prev })
}

func message(t *testing.T, event events.AbsenceNotificationEvent) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(event)
	assert.NoError(t, err)
	return kafkago.Message{Value: raw, Offset: int64(len(event.NotificationID))}
}

func TestConsumeAbsenceNotifications(t *testing.T) {
	noRetryDelay(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ok := events.AbsenceNotificationEvent{NotificationID: "ok", EventType: events.AbsenceSubmitted}
	malformed := events.AbsenceNotificationEvent{NotificationID: "bad"}
	transient := events.AbsenceNotificationEvent{NotificationID: "retry"}
	after := events.AbsenceNotificationEvent{NotificationID: "after", EventType: events.AbsenceSubmitted}

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{
			message(t, ok),
			{Value: []byte("not json")},
			message(t, malformed),
			message(t, transient),
			message(t, after),
		},
	}
	sink := &fakeSink{
		errFor:   map[string]error{"bad": notificationerrors.ErrInvalidEvent},
		failures: map[string]int{"retry": 2},
	}

	ConsumeAbsenceNotifications(ctx, reader, sink, zap.NewNop())

	// the transient failure is retried before anything after it is read
	var ids []string
	for _, e := range sink.delivered {
		ids = append(ids, e.NotificationID)
	}
	assert.Equal(t, []string{"ok", "retry", "after"}, ids)
	assert.Equal(t, 3, sink.attempts["retry"])
	assert.Len(t, reader.committed, 5)
}

func TestConsumeAbsenceNotifications_ShutdownLeavesFailedMessageUncommitted(t *testing.T) {
	noRetryDelay(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stuck := events.AbsenceNotificationEvent{NotificationID: "stuck"}
	next := events.AbsenceNotificationEvent{NotificationID: "next"}
	reader := &fakeReader{
		cancel:   cancel,
		messages: []kafkago.Message{message(t, stuck), message(t, next)},
	}
	sink := &fakeSink{failures: map[string]int{"stuck": 100}}
	sink.onFail = func() {
		if sink.attempts["stuck"] == 2 {
			cancel()
		}
	}

	done := make(chan struct{})
	go func() {
		ConsumeAbsenceNotifications(ctx, reader, sink, zap.NewNop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}

	assert.Empty(t, sink.delivered)
	assert.Empty(t, reader.committed)
	assert.GreaterOrEqual(t, sink.attempts["stuck"], 2)
	assert.Len(t, reader.messages, 1, "the next message is never fetched past the failed one")
}
