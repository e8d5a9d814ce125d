package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperror "chat-relay-service/internal/error"
	"chat-relay-service/internal/metrics"
	"chat-relay-service/internal/service"

	"go.uber.org/zap"
)

const (
	transportHTTP      = "http"
	transportWebSocket = "websocket"
)

// ------------------------------------------------------------------------------------------------------
// ChatHandler relays the conversation and streams the reply as plain text
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", zap.Error(err))
		h.sendErrorResponse(w, apperror.NewValidationError("Invalid JSON in request body", err))
		return
	}

	relay, err := h.relayService.Open(r.Context(), &req)
	if err != nil {
		if !apperror.IsUpstream(err) {
			h.logRejected(err)
			h.sendErrorResponse(w, err)
			return
		}
		h.logger.Error("Upstream unavailable", zap.Error(err))
		metrics.ObserveRelay(transportHTTP, service.StateFailed.String())
		h.sendUpstreamFailure(w)
		return
	}
	defer relay.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	h.forward(relay, transportHTTP, func(token string) error {
		if _, err := io.WriteString(w, token); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
}

// ------------------------------------------------------------------------------------------------------
// logRejected logs a request that failed before anything was sent upstream
func (h *Handler) logRejected(err error) {
	if apperror.IsValidation(err) {
		h.logger.Warn("Rejected chat request", zap.Error(err))
		return
	}
	h.logger.Error("Failed to prepare chat request", zap.Error(err))
}

// ------------------------------------------------------------------------------------------------------
// forward pulls increments from relay and hands each to onToken in order. It
// stops at the end of the upstream stream or at the first onToken error, and
// always releases the upstream connection.
func (h *Handler) forward(relay *service.Relay, transport string, onToken func(string) error) {
	done := metrics.StreamStarted()
	defer done()

	for {
		token, err := relay.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.logger.Debug("Upstream stream ended early", zap.Error(err))
			}
			break
		}

		if err := onToken(token); err != nil {
			h.logger.Debug("Caller went away", zap.Error(err))
			break
		}
		metrics.IncIncrements()
	}

	_ = relay.Close()

	increments, n := relay.Stats()
	metrics.ObserveRelay(transport, relay.State().String())
	h.logger.Info("Relay finished",
		zap.String("transport", transport),
		zap.Stringer("state", relay.State()),
		zap.Bool("completed", relay.Completed()),
		zap.Int("increments", increments),
		zap.Int("bytes", n),
	)
}
