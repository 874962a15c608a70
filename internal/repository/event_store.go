package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhub/taskhub-api/internal/models"
)

const eventsCollection = "events"

// EventStore persists append-only audit events. Events are never updated
// or deleted.
type EventStore interface {
	Create(ctx context.Context, params CreateEventParams) (models.Event, error)
	ListByTarget(ctx context.Context, targetID string, targetType models.TargetType, limit int) ([]models.Event, error)
}

type CreateEventParams struct {
	Type       models.EventType
	UserID     string
	TargetID   string
	TargetType models.TargetType
	Metadata   map[string]interface{}
	IPAddress  string
}

type eventStore struct {
	collection *mongo.Collection
}

func NewEventStore(db *mongo.Database) EventStore {
	return &eventStore{collection: db.Collection(eventsCollection)}
}

func (s *eventStore) Create(ctx context.Context, params CreateEventParams) (models.Event, error) {
	event := models.Event{
		Type:       params.Type,
		UserID:     params.UserID,
		TargetID:   params.TargetID,
		TargetType: params.TargetType,
		Metadata:   params.Metadata,
		IPAddress:  params.IPAddress,
		CreatedAt:  time.Now().UTC(),
	}

	result, err := s.collection.InsertOne(ctx, event)
	if err != nil {
		return models.Event{}, errors.Wrap(err, "insert event")
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid
	}
	return event, nil
}

func (s *eventStore) ListByTarget(ctx context.Context, targetID string, targetType models.TargetType, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, bson.M{"target_id": targetID, "target_type": targetType}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, errors.Wrap(err, "decode events")
	}
	return events, nil
}
