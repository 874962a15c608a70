package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskhub/taskhub-api/internal/authz"
	"github.com/taskhub/taskhub-api/internal/models"
	"github.com/taskhub/taskhub-api/internal/notification"
)

type EventHandler struct {
	service notification.Service
	logger  zerolog.Logger
}

func NewEventHandler(service notification.Service, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With().Str("handler", "event").Logger(),
	}
}

// List returns the audit trail for a single target entity, newest first.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.UserIDFromRequest(r); !ok {
		http.Error(w, "Missing user context", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	targetID := strings.TrimSpace(query.Get("target_id"))
	targetType := strings.TrimSpace(query.Get("target_type"))
	if targetID == "" || targetType == "" {
		http.Error(w, "target_id and target_type are required", http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events, err := h.service.ListEventsForTarget(r.Context(), targetID, models.TargetType(targetType), limit)
	if err != nil {
		h.logger.Error().Err(err).Str("target_id", targetID).Msg("failed to list events")
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
