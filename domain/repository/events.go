package repository

import (
	"context"

	"video-digest/domain/model"
)

type IEventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close(ctx context.Context) error
}
