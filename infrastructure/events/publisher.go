package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/configuration"
	"video-digest/infrastructure/logger"
	"video-digest/infrastructure/pubsub"
	"video-digest/infrastructure/servicebus"
)

const publishTimeout = 5 * time.Second

// NewPublisher builds the configured backend. An empty backend logs events only.
func NewPublisher(ctx context.Context, cfg configuration.Events) (repository.IEventPublisher, error) {
	switch cfg.Backend {
	case "", "log":
		return NewLogPublisher(), nil
	case "pubsub":
		client, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err != nil {
			return nil, err
		}
		return pubsub.NewEventPublisher(ctx, client, cfg.Topic)
	case "servicebus":
		client, err := servicebus.NewServiceBus(cfg.ServiceBus.Namespace)
		if err != nil {
			return nil, err
		}
		return servicebus.NewEventPublisher(client, cfg.Topic)
	case "rabbitmq":
		return NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	case "mongo":
		return NewMongoPublisher(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

func NewEvent(eventType string, data map[string]interface{}) model.Event {
	return model.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Data:       data,
	}
}

type LogPublisher struct{}

func NewLogPublisher() repository.IEventPublisher {
	return LogPublisher{}
}

func (LogPublisher) Publish(_ context.Context, event model.Event) error {
	logger.GetLogger().WithField("event", event).Info("Event emitted")
	return nil
}

func (LogPublisher) Close(context.Context) error { return nil }

// Fanout delivers each event to every publisher and returns the first error.
type Fanout []repository.IEventPublisher

func (f Fanout) Publish(ctx context.Context, event model.Event) error {
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f Fanout) Close(ctx context.Context) error {
	var first error
	for _, p := range f {
		if err := p.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Notifier publishes after the caller's work has committed. Failures are
// logged and never returned, and a cancelled request does not stop the send.
type Notifier struct {
	publisher repository.IEventPublisher
	timeout   time.Duration
}

func NewNotifier(publisher repository.IEventPublisher) *Notifier {
	return &Notifier{publisher: publisher, timeout: publishTimeout}
}

func (n *Notifier) Notify(ctx context.Context, eventType string, data map[string]interface{}) {
	if n == nil || n.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	event := NewEvent(eventType, data)
	if err := n.publisher.Publish(ctx, event); err != nil {
		logger.GetLogger().WithField("error", err).WithField("type", eventType).Warn("failed to publish event")
	}
}
