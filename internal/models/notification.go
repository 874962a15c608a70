package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeTaskAssigned NotificationType = "TASK_ASSIGNED"
	NotificationTypeTaskUpdated  NotificationType = "TASK_UPDATED"
	NotificationTypeCommentAdded NotificationType = "COMMENT_ADDED"
	NotificationTypeSystem       NotificationType = "SYSTEM"
)

// EntityType identifies the kind of entity a notification or event points at.
type EntityType string

const (
	EntityTypeTask    EntityType = "TASK"
	EntityTypeSubTask EntityType = "SUBTASK"
	EntityTypeComment EntityType = "COMMENT"
	EntityTypeUser    EntityType = "USER"
)

// Notification is a durable per-user notification document. The read flag
// starts false and only ever transitions to true.
type Notification struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Type       NotificationType   `json:"type" bson:"type"`
	Title      string             `json:"title" bson:"title"`
	Message    string             `json:"message" bson:"message"`
	IsRead     bool               `json:"is_read" bson:"is_read"`
	EntityID   string             `json:"entity_id,omitempty" bson:"entity_id,omitempty"`
	EntityType EntityType         `json:"entity_type,omitempty" bson:"entity_type,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
