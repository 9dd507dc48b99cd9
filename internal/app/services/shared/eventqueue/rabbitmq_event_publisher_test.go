package eventqueue

import (
	"context"
	"testing"
	"time"

	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeConfirmation resolves with ack once done is closed, or fails when the
// caller stops waiting first.
type fakeConfirmation struct {
	ack  bool
	done chan struct{}
}

func (c *fakeConfirmation) WaitContext(ctx context.Context) (bool, error) {
	select {
	case <-c.done:
		return c.ack, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func resolved(ack bool) *fakeConfirmation {
	c := &fakeConfirmation{ack: ack, done: make(chan struct{})}
	close(c.done)
	return c
}

type recordingChannel struct {
	confirmations []*fakeConfirmation
	published     []amqp.Publishing
	queues        []string
}

func (r *recordingChannel) publish(_ context.Context, queueName string, msg amqp.Publishing) (confirmation, error) {
	next := r.confirmations[len(r.published)]
	r.published = append(r.published, msg)
	r.queues = append(r.queues, queueName)
	return next, nil
}

func newTestPublisher(channel *recordingChannel) *rabbitMQEventPublisher {
	return &rabbitMQEventPublisher{
		publish:   channel.publish,
		queueName: "report-events",
		log:       zap.NewNop(),
	}
}

func TestRabbitMQEventPublisher_Publish(t *testing.T) {
	event := models.WorkflowEvent{
		Topic:      models.EventTopicReportApproved,
		SessionID:  "SESSION-P1-2025-12-16",
		ReportID:   "RPT-1",
		OccurredAt: time.Date(2025, 12, 16, 9, 0, 0, 0, time.UTC),
	}

	t.Run("acked message carries topic and correlation id", func(t *testing.T) {
		channel := &recordingChannel{confirmations: []*fakeConfirmation{resolved(true)}}
		publisher := newTestPublisher(channel)
		ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")

		require.NoError(t, publisher.Publish(ctx, event))

		require.Len(t, channel.published, 1)
		msg := channel.published[0]
		assert.Equal(t, "report-events", channel.queues[0])
		assert.Equal(t, "req-1", msg.CorrelationId)
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
		assert.Equal(t, string(models.EventTopicReportApproved), msg.Headers[headerTopic])

		var decoded models.WorkflowEvent
		require.NoError(t, json.Unmarshal(msg.Body, &decoded))
		assert.Equal(t, "RPT-1", decoded.ReportID)
	})

	t.Run("nack is an error", func(t *testing.T) {
		channel := &recordingChannel{confirmations: []*fakeConfirmation{resolved(false)}}
		publisher := newTestPublisher(channel)

		assert.Error(t, publisher.Publish(context.Background(), event))
	})

	t.Run("late ack of a cancelled publish is not credited to the next one", func(t *testing.T) {
		slow := &fakeConfirmation{ack: true, done: make(chan struct{})}
		channel := &recordingChannel{confirmations: []*fakeConfirmation{slow, resolved(false), resolved(true)}}
		publisher := newTestPublisher(channel)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := publisher.Publish(ctx, event)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		close(slow.done)

		assert.Error(t, publisher.Publish(context.Background(), event))
		assert.NoError(t, publisher.Publish(context.Background(), event))
		assert.Len(t, channel.published, 3)
	})
}
