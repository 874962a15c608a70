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

// ErrNotFound is returned by lookups against a nonexistent document.
var ErrNotFound = errors.New("record not found")

const notificationsCollection = "notifications"

type NotificationStore interface {
	Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error)
	FindByID(ctx context.Context, id string) (models.Notification, error)
	ListByOwner(ctx context.Context, userID string, filter NotificationFilter) ([]models.Notification, error)
	CountByOwner(ctx context.Context, userID string, filter NotificationFilter) (int64, error)
	MarkRead(ctx context.Context, id string) (models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type CreateNotificationParams struct {
	UserID     string
	Type       models.NotificationType
	Title      string
	Message    string
	EntityID   string
	EntityType models.EntityType
}

// NotificationFilter narrows owner-scoped queries. A nil IsRead matches both
// read and unread documents. Page is 1-based.
type NotificationFilter struct {
	IsRead *bool
	Limit  int
	Page   int
}

type notificationStore struct {
	collection *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) NotificationStore {
	return &notificationStore{collection: db.Collection(notificationsCollection)}
}

func (s *notificationStore) Create(ctx context.Context, params CreateNotificationParams) (models.Notification, error) {
	now := time.Now().UTC()
	notif := models.Notification{
		UserID:     params.UserID,
		Type:       params.Type,
		Title:      params.Title,
		Message:    params.Message,
		IsRead:     false,
		EntityID:   params.EntityID,
		EntityType: params.EntityType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	result, err := s.collection.InsertOne(ctx, notif)
	if err != nil {
		return models.Notification{}, errors.Wrap(err, "insert notification")
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		notif.ID = oid
	}
	return notif, nil
}

func (s *notificationStore) FindByID(ctx context.Context, id string) (models.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Notification{}, ErrNotFound
	}

	var notif models.Notification
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&notif)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Notification{}, ErrNotFound
		}
		return models.Notification{}, errors.Wrap(err, "find notification")
	}
	return notif, nil
}

func (s *notificationStore) ListByOwner(ctx context.Context, userID string, filter NotificationFilter) ([]models.Notification, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, ownerQuery(userID, filter), opts)
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, errors.Wrap(err, "decode notifications")
	}
	return notifications, nil
}

func (s *notificationStore) CountByOwner(ctx context.Context, userID string, filter NotificationFilter) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, ownerQuery(userID, filter))
	if err != nil {
		return 0, errors.Wrap(err, "count notifications")
	}
	return count, nil
}

func (s *notificationStore) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Notification{}, ErrNotFound
	}

	update := bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var notif models.Notification
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&notif)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Notification{}, ErrNotFound
		}
		return models.Notification{}, errors.Wrap(err, "mark notification read")
	}
	return notif, nil
}

func (s *notificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	update := bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now().UTC()}}
	result, err := s.collection.UpdateMany(ctx, bson.M{"user_id": userID, "is_read": false}, update)
	if err != nil {
		return 0, errors.Wrap(err, "mark all notifications read")
	}
	return result.ModifiedCount, nil
}

func ownerQuery(userID string, filter NotificationFilter) bson.M {
	query := bson.M{"user_id": userID}
	if filter.IsRead != nil {
		query["is_read"] = *filter.IsRead
	}
	return query
}
