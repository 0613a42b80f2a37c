package events

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"video-digest/domain/model"
	"video-digest/domain/repository"
)

// MongoPublisher appends events to a collection other services can tail.
type MongoPublisher struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoPublisher(ctx context.Context, uri, database, collection string) (repository.IEventPublisher, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoPublisher{client: client, collection: client.Database(database).Collection(collection)}, nil
}

func (p *MongoPublisher) Publish(ctx context.Context, event model.Event) error {
	_, err := p.collection.InsertOne(ctx, bson.M{
		"_id":        event.ID,
		"type":       event.Type,
		"occurredAt": event.OccurredAt,
		"data":       event.Data,
	})
	return err
}

func (p *MongoPublisher) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}
