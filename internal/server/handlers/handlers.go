// Package handlers implements the henkan HTTP API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/henkan/cmd/application"
	"github.com/agentstation/henkan/internal/server/events"
	"github.com/agentstation/henkan/internal/server/sse"
	ws "github.com/agentstation/henkan/internal/server/websocket"
	"github.com/agentstation/henkan/pkg/constants"
	"github.com/agentstation/henkan/pkg/errors"
)

const maxBodySize = constants.MaxRequestBodySize

// Deps are the server components the handlers read from.
type Deps struct {
	App      application.Application
	Broker   *events.Broker
	Hub      *ws.Hub
	SSE      *sse.Broadcaster
	Upgrader websocket.Upgrader
	Logger   *zerolog.Logger
	Started  time.Time
}

// Handlers serves the henkan API routes.
type Handlers struct {
	app            application.Application
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	startTime      time.Time
}

func New(d Deps) *Handlers {
	return &Handlers{
		app:            d.App,
		broker:         d.Broker,
		wsHub:          d.Hub,
		sseBroadcaster: d.SSE,
		upgrader:       d.Upgrader,
		logger:         d.Logger,
		startTime:      d.Started,
	}
}

// decodeJSON reads at most maxBodySize bytes and rejects unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewValidationError("body", nil, "invalid JSON: "+err.Error())
	}
	return nil
}
