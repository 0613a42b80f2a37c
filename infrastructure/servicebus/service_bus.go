package servicebus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"video-digest/domain/model"
	"video-digest/domain/repository"
	"video-digest/infrastructure/logger"
)

// NewServiceBus authenticates with the default Azure credential chain.
func NewServiceBus(namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("service bus namespace is empty")
	}
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, credential, nil)
}

type EventPublisher struct {
	client *azservicebus.Client
	sender *azservicebus.Sender
}

func NewEventPublisher(client *azservicebus.Client, queue string) (repository.IEventPublisher, error) {
	sender, err := client.NewSender(queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return nil, err
	}
	return &EventPublisher{client: client, sender: sender}, nil
}

func (p *EventPublisher) Publish(ctx context.Context, event model.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	contentType := "application/json"
	messageID := event.ID
	subject := event.Type
	err = p.sender.SendMessage(ctx, &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		MessageID:   &messageID,
		Subject:     &subject,
	}, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func (p *EventPublisher) Close(ctx context.Context) error {
	if err := p.sender.Close(ctx); err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while closing sender.")
	}
	return p.client.Close(ctx)
}
