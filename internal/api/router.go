package api

import (
	"net/http"

	"chat-relay-service/internal/api/handlers"
	"chat-relay-service/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter configures HTTP routes
func SetupRouter(handler *handlers.Handler, logger *zap.Logger) *mux.Router {
	metrics.Register()

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return LoggingMiddleware(logger, next)
	})
	router.Use(MetricsMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)

	// Chat relay
	router.HandleFunc("/api/chat", handler.ChatHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/chat/ws", handler.WebSocketChatHandler).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}
