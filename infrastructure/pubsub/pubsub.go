package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"

	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
)

func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("pubsub project id is empty")
	}
	return pubsub.NewClient(ctx, projectID)
}

type EventPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewEventPublisher makes sure the topic exists before the first publish.
func NewEventPublisher(ctx context.Context, client *pubsub.Client, topicName string) (repository.IEventPublisher, error) {
	topic := client.Topic(topicName)

	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", topicName).Info("Topic doesn't exist - creating it")
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			return nil, err
		}
	}
	return &EventPublisher{client: client, topic: topic}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"type": event.Type, "id": event.ID},
	}
	serverID, err := p.topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return err
	}

	logger.GetLogger().WithField("server ID", serverID).WithField("type", event.Type).Debug("Message published")
	return nil
}

func (p *EventPublisher) Close(_ context.Context) error {
	p.topic.Stop()
	return p.client.Close()
}
