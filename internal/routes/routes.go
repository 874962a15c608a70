package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhub/taskhub-api/internal/handlers"
	"github.com/taskhub/taskhub-api/internal/realtime"
)

// NewRouter sets up the API routes
func NewRouter(
	notificationHandler *handlers.NotificationHandler,
	eventHandler *handlers.EventHandler,
	realtimeHandler *realtime.Handler,
	jwtMiddleware func(http.Handler) http.Handler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	// Websocket handshake carries its own token; no bearer middleware here.
	router.HandleFunc("/ws", realtimeHandler.ServeWS)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(jwtMiddleware)

	api.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/unread-count", notificationHandler.UnreadCount).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods(http.MethodPatch)
	api.HandleFunc("/notifications/{notificationID}/read", notificationHandler.MarkRead).Methods(http.MethodPatch)

	api.HandleFunc("/events", eventHandler.List).Methods(http.MethodGet)

	return router
}
