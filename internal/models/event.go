package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventTypeTaskCreated       EventType = "TASK_CREATED"
	EventTypeTaskUpdated       EventType = "TASK_UPDATED"
	EventTypeTaskDeleted       EventType = "TASK_DELETED"
	EventTypeSubTaskCreated    EventType = "SUBTASK_CREATED"
	EventTypeSubTaskUpdated    EventType = "SUBTASK_UPDATED"
	EventTypeSubTaskCompleted  EventType = "SUBTASK_COMPLETED"
	EventTypeCommentAdded      EventType = "COMMENT_ADDED"
	EventTypeUserRegistered    EventType = "USER_REGISTERED"
	EventTypeUserStatusChanged EventType = "USER_STATUS_CHANGED"
	EventTypeSystem            EventType = "SYSTEM_EVENT"
)

// TargetType names the kind of entity an event acted on. SYSTEM is used for
// events with no concrete target entity.
type TargetType string

const (
	TargetTypeTask    TargetType = "TASK"
	TargetTypeSubTask TargetType = "SUBTASK"
	TargetTypeComment TargetType = "COMMENT"
	TargetTypeUser    TargetType = "USER"
	TargetTypeSystem  TargetType = "SYSTEM"
)

// Event is an append-only audit document. Events are never mutated or
// deleted after creation.
type Event struct {
	ID         primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Type       EventType              `json:"type" bson:"type"`
	UserID     string                 `json:"user_id,omitempty" bson:"user_id,omitempty"`
	TargetID   string                 `json:"target_id,omitempty" bson:"target_id,omitempty"`
	TargetType TargetType             `json:"target_type" bson:"target_type"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
}
