package eventqueue

import (
	"context"
	"fmt"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const headerTopic = "topic"

// confirmation resolves once the broker acks or nacks one published message.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type publishFunc func(ctx context.Context, queueName string, msg amqp.Publishing) (confirmation, error)

// rabbitMQEventPublisher writes workflow events to one durable queue and
// waits for the broker confirm of every message.
type rabbitMQEventPublisher struct {
	publish   publishFunc
	queueName string
	log       *zap.Logger
}

func NewRabbitMQEventPublisher(conn *amqp.Connection, queueName string, log *zap.Logger) (contracts.EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &rabbitMQEventPublisher{
		publish:   channelPublisher(ch),
		queueName: queueName,
		log:       log,
	}, nil
}

func channelPublisher(ch *amqp.Channel) publishFunc {
	return func(ctx context.Context, queueName string, msg amqp.Publishing) (confirmation, error) {
		deferred, err := ch.PublishWithDeferredConfirmWithContext(ctx, "", queueName, false, false, msg)
		if err != nil {
			return nil, err
		}
		return deferred, nil
	}
}

func (p *rabbitMQEventPublisher) Publish(ctx context.Context, event models.WorkflowEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.log.Info("rabbitMQEventPublisher.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventTopicKey, string(event.Topic)),
		zap.String(constvars.LoggingSessionIDKey, event.SessionID),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Headers: amqp.Table{
			headerTopic: string(event.Topic),
		},
	}
	if requestID != "" {
		msg.CorrelationId = requestID
	}

	deferred, err := p.publish(ctx, p.queueName, msg)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.queueName)
	}

	// The confirmation is bound to this message's delivery tag.
	acked, err := deferred.WaitContext(ctx)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.queueName)
	}
	if !acked {
		return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), p.queueName)
	}

	p.log.Info("rabbitMQEventPublisher.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEventTopicKey, string(event.Topic)),
		zap.String(constvars.LoggingQueueKey, p.queueName),
	)
	return nil
}
