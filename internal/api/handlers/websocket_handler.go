package handlers

import (
	"context"
	"net/http"
	"time"

	apperror "chat-relay-service/internal/error"
	"chat-relay-service/internal/metrics"
	"chat-relay-service/internal/service"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const closeGracePeriod = time.Second

// ------------------------------------------------------------------------------------------------------
// WebSocketChatHandler reads one conversation from the socket and sends each
// increment as a {"token": ...} message followed by {"done": "true"}
func (h *Handler) WebSocketChatHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var req service.ChatRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.logger.Error("Failed to read WebSocket message", zap.Error(err))

		errorResponse := apperror.NewErrorResponse(
			apperror.NewValidationError("Failed to read WebSocket message: invalid JSON", err),
		)

		_ = conn.WriteJSON(errorResponse)
		return
	}

	// The peer sends nothing after the request; a failing read means it left.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go watchDisconnect(conn, cancel)

	relay, err := h.relayService.Open(ctx, &req)
	if err != nil {
		if apperror.IsUpstream(err) {
			h.logger.Error("Upstream unavailable", zap.Error(err))
			metrics.ObserveRelay(transportWebSocket, service.StateFailed.String())
		} else {
			h.logRejected(err)
		}
		_ = conn.WriteJSON(apperror.NewErrorResponse(err))
		closeNormally(conn)
		return
	}
	defer relay.Close()

	h.forward(relay, transportWebSocket, func(token string) error {
		return conn.WriteJSON(map[string]string{"token": token})
	})

	if ctx.Err() != nil {
		return
	}

	if err := conn.WriteJSON(map[string]string{"done": "true"}); err != nil {
		h.logger.Error("Failed to write done message", zap.Error(err))
		return
	}
	closeNormally(conn)
}

// ------------------------------------------------------------------------------------------------------
func watchDisconnect(conn *websocket.Conn, cancel context.CancelFunc) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			cancel()
			return
		}
	}
}

// ------------------------------------------------------------------------------------------------------
func closeNormally(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
}
