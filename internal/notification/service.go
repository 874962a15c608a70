package notification

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/taskhub/taskhub-api/internal/models"
	"github.com/taskhub/taskhub-api/internal/realtime"
	"github.com/taskhub/taskhub-api/internal/repository"
)

// ErrNotOwner is returned when a read-marking call names a notification that
// belongs to a different user.
var ErrNotOwner = errors.New("notification does not belong to requesting user")

// Presence answers online-status queries. Satisfied by *realtime.Registry.
type Presence interface {
	IsOnline(userID string) bool
	Lookup(userID string) realtime.Session
}

// Notification is pushed to live sessions under this event name.
const pushEventName = "notification"

type pushPayload struct {
	ID      string                  `json:"id"`
	Type    models.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
}

type NotifyParams struct {
	UserID     string
	Type       models.NotificationType
	Title      string
	Message    string
	EntityID   string
	EntityType models.EntityType
	SendEmail  bool
}

type EventParams struct {
	Type       models.EventType
	UserID     string
	TargetID   string
	TargetType models.TargetType
	Metadata   map[string]interface{}
	IPAddress  string
}

type Pagination struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Pagination    Pagination            `json:"pagination"`
}

type Service interface {
	// Notify persists the record, then best-effort pushes it to a live
	// session and optionally sends a templated email. Only the persistence
	// step can fail the call.
	Notify(ctx context.Context, params NotifyParams) (models.Notification, error)

	// LogEvent appends an audit event. It never fails the caller; storage
	// errors are logged and swallowed.
	LogEvent(ctx context.Context, params EventParams)

	MarkRead(ctx context.Context, notificationID, userID string) (models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	ListForUser(ctx context.Context, userID string, filter repository.NotificationFilter) (NotificationPage, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)

	// ListEventsForTarget returns the audit trail recorded against a single
	// entity, newest first.
	ListEventsForTarget(ctx context.Context, targetID string, targetType models.TargetType, limit int) ([]models.Event, error)

	NotifyTaskAssigned(ctx context.Context, userID, taskID, taskTitle, taskDescription string, sendEmail bool) error
	NotifyTaskUpdated(ctx context.Context, userID, taskID, taskTitle string, sendEmail bool) error
	NotifyCommentAdded(ctx context.Context, userID, taskID, taskTitle, commentAuthor string) error
}

type service struct {
	notifications repository.NotificationStore
	events        repository.EventStore
	users         repository.UserRepository
	presence      Presence
	mailer        Mailer
	logger        zerolog.Logger
}

func NewService(
	notifications repository.NotificationStore,
	events repository.EventStore,
	users repository.UserRepository,
	presence Presence,
	mailer Mailer,
	logger zerolog.Logger,
) Service {
	return &service{
		notifications: notifications,
		events:        events,
		users:         users,
		presence:      presence,
		mailer:        mailer,
		logger:        logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *service) Notify(ctx context.Context, params NotifyParams) (models.Notification, error) {
	if strings.TrimSpace(params.UserID) == "" {
		return models.Notification{}, fmt.Errorf("recipient user id is required")
	}
	if params.Type == "" {
		return models.Notification{}, fmt.Errorf("notification type is required")
	}

	// The durable record is the source of truth. Persistence failure fails
	// the whole call; everything after is best-effort.
	notif, err := s.notifications.Create(ctx, repository.CreateNotificationParams{
		UserID:     params.UserID,
		Type:       params.Type,
		Title:      params.Title,
		Message:    params.Message,
		EntityID:   params.EntityID,
		EntityType: params.EntityType,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(params.Type)).Msg("failed to persist notification")
		return models.Notification{}, errors.Wrap(err, "persist notification")
	}

	s.pushLive(notif)

	if params.SendEmail {
		s.sendEmail(ctx, notif)
	}

	return notif, nil
}

// pushLive delivers the record to the recipient's session if one is
// registered. The session can disconnect between the online check and the
// push; both the nil lookup and a push error are absorbed here.
func (s *service) pushLive(notif models.Notification) {
	if !s.presence.IsOnline(notif.UserID) {
		return
	}
	session := s.presence.Lookup(notif.UserID)
	if session == nil {
		s.logger.Debug().Str("user_id", notif.UserID).Msg("session vanished before push")
		return
	}
	err := session.Push(pushEventName, pushPayload{
		ID:      notif.ID.Hex(),
		Type:    notif.Type,
		Title:   notif.Title,
		Message: notif.Message,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("notification_id", notif.ID.Hex()).
			Str("user_id", notif.UserID).
			Msg("failed to push notification")
	}
}

// sendEmail resolves the recipient's address and dispatches the template
// mapped to the notification type. Every failure on this path is logged and
// swallowed; the durable record and any live push already happened.
func (s *service) sendEmail(ctx context.Context, notif models.Notification) {
	user, err := s.users.GetUserByID(ctx, notif.UserID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("notification_id", notif.ID.Hex()).
			Str("user_id", notif.UserID).
			Msg("failed to resolve email recipient")
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		return
	}

	subject, body, ok := emailTemplate(notif.Type, user.Name, notif.Title, notif.Message)
	if !ok {
		return
	}

	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		s.logger.Warn().
			Err(err).
			Str("notification_id", notif.ID.Hex()).
			Str("user_id", notif.UserID).
			Msg("failed to send notification email")
		return
	}
	s.logger.Info().
		Str("notification_id", notif.ID.Hex()).
		Str("type", string(notif.Type)).
		Msg("notification email sent")
}

func (s *service) LogEvent(ctx context.Context, params EventParams) {
	if params.TargetType == "" {
		params.TargetType = models.TargetTypeSystem
	}
	_, err := s.events.Create(ctx, repository.CreateEventParams{
		Type:       params.Type,
		UserID:     params.UserID,
		TargetID:   params.TargetID,
		TargetType: params.TargetType,
		Metadata:   params.Metadata,
		IPAddress:  params.IPAddress,
	})
	if err != nil {
		// Audit logging must never block the triggering operation.
		s.logger.Warn().Err(err).Str("event_type", string(params.Type)).Msg("failed to log event")
	}
}

func (s *service) MarkRead(ctx context.Context, notificationID, userID string) (models.Notification, error) {
	notif, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return models.Notification{}, err
	}
	if notif.UserID != userID {
		return models.Notification{}, ErrNotOwner
	}
	if notif.IsRead {
		return notif, nil
	}
	return s.notifications.MarkRead(ctx, notificationID)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *service) ListForUser(ctx context.Context, userID string, filter repository.NotificationFilter) (NotificationPage, error) {
	// Clamp here so the store query and the pagination metadata agree on
	// the effective limit.
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	notifications, err := s.notifications.ListByOwner(ctx, userID, filter)
	if err != nil {
		return NotificationPage{}, err
	}
	total, err := s.notifications.CountByOwner(ctx, userID, filter)
	if err != nil {
		return NotificationPage{}, err
	}

	return NotificationPage{
		Notifications: notifications,
		Pagination: Pagination{
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
			Page:       filter.Page,
			Limit:      filter.Limit,
		},
	}, nil
}

func (s *service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	unread := false
	return s.notifications.CountByOwner(ctx, userID, repository.NotificationFilter{IsRead: &unread})
}

func (s *service) ListEventsForTarget(ctx context.Context, targetID string, targetType models.TargetType, limit int) ([]models.Event, error) {
	if strings.TrimSpace(targetID) == "" {
		return nil, fmt.Errorf("target id is required")
	}
	if targetType == "" {
		return nil, fmt.Errorf("target type is required")
	}
	return s.events.ListByTarget(ctx, targetID, targetType, limit)
}

func (s *service) NotifyTaskAssigned(ctx context.Context, userID, taskID, taskTitle, taskDescription string, sendEmail bool) error {
	_, err := s.Notify(ctx, NotifyParams{
		UserID:     userID,
		Type:       models.NotificationTypeTaskAssigned,
		Title:      taskTitle,
		Message:    taskDescription,
		EntityID:   taskID,
		EntityType: models.EntityTypeTask,
		SendEmail:  sendEmail,
	})
	return err
}

func (s *service) NotifyTaskUpdated(ctx context.Context, userID, taskID, taskTitle string, sendEmail bool) error {
	_, err := s.Notify(ctx, NotifyParams{
		UserID:     userID,
		Type:       models.NotificationTypeTaskUpdated,
		Title:      taskTitle,
		Message:    fmt.Sprintf("Task %q has been updated.", taskTitle),
		EntityID:   taskID,
		EntityType: models.EntityTypeTask,
		SendEmail:  sendEmail,
	})
	return err
}

func (s *service) NotifyCommentAdded(ctx context.Context, userID, taskID, taskTitle, commentAuthor string) error {
	_, err := s.Notify(ctx, NotifyParams{
		UserID:     userID,
		Type:       models.NotificationTypeCommentAdded,
		Title:      fmt.Sprintf("New comment on %s", taskTitle),
		Message:    fmt.Sprintf("%s commented on a task you are assigned to.", commentAuthor),
		EntityID:   taskID,
		EntityType: models.EntityTypeTask,
	})
	return err
}
