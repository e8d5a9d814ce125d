package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	apperror "chat-relay-service/internal/error"
	"chat-relay-service/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	relayService service.RelayService
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

// ------------------------------------------------------------------------------------------------------
func NewHandler(relayService service.RelayService, logger *zap.Logger) *Handler {
	return &Handler{
		relayService: relayService,
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := io.WriteString(w, "OK"); err != nil {
		h.logger.Error("Failed to write health response", zap.Error(err))
	}
}

// ------------------------------------------------------------------------------------------------------
func (h *Handler) sendErrorResponse(w http.ResponseWriter, err error) {
	statusCode := apperror.GetHTTPStatusCode(err)
	errorResponse := apperror.NewErrorResponse(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(errorResponse); encodeErr != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(encodeErr),
			zap.NamedError("cause", err),
		)
	}
}

// ------------------------------------------------------------------------------------------------------
// sendUpstreamFailure writes the fixed failure response used whenever the
// provider could not be used
func (h *Handler) sendUpstreamFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)

	if _, err := io.WriteString(w, apperror.UpstreamFailureBody); err != nil {
		h.logger.Error("Failed to write failure response", zap.Error(err))
	}
}
