package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agentstation/henkan/internal/server/events"
	"github.com/agentstation/henkan/internal/server/response"
	ws "github.com/agentstation/henkan/internal/server/websocket"
	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/logging"
)

// Conversion session message types.
const (
	MessageConvertResult = "convert.result"
	MessageConvertError  = "convert.error"
)

const sessionReadLimit = constants.WebSocketReadLimit

// HandleConvertSession handles GET /api/v1/convert/ws. Each text message is a
// ConvertRequest answered with a convert.result or convert.error message.
func (h *Handlers) HandleConvertSession(w http.ResponseWriter, r *http.Request) {
	conv, err := h.app.Converter()
	if err != nil {
		response.ServiceUnavailable(w, "Converter not available")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(sessionReadLimit)

	ctx := r.Context()
	logger := logging.FromContext(ctx)
	logger.Debug().Msg("Conversion session opened")

	for {
		var req ConvertRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("Conversion session read failed")
			}
			return
		}

		msg := ws.Message{Type: MessageConvertResult, Timestamp: time.Now()}
		resp, err := Convert(ctx, conv, req)
		if err != nil {
			msg.Type = MessageConvertError
			msg.Data = sessionError(err)
		} else {
			msg.Data = resp
		}

		if err := conn.WriteJSON(msg); err != nil {
			logger.Warn().Err(err).Msg("Conversion session write failed")
			return
		}
	}
}

func sessionError(err error) response.Error {
	_, code := response.Classify(err)
	return response.Error{Code: code, Message: err.Error()}
}

// HandleEventsWebSocket handles GET /api/v1/events/ws.
func (h *Handlers) HandleEventsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := fmt.Sprintf("%s-%d", r.RemoteAddr, time.Now().UnixNano())
	client := ws.NewClient(clientID, h.wsHub, conn)
	h.wsHub.Register(client)

	h.broker.Publish(events.ClientConnected, map[string]any{
		"client_id": clientID,
		"transport": "websocket",
	})

	go client.WritePump()
	go client.ReadPump()
}

// HandleEventsSSE handles GET /api/v1/events/stream.
func (h *Handlers) HandleEventsSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
