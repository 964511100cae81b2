package handlers

import (
	"net/http"

	"github.com/agentstation/henkan/internal/server/response"
)

// HandleHealth handles GET /health and GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "henkan",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /api/v1/ready. It fails with 503 while the
// converter or its engine is unavailable.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	conv, err := h.app.Converter()
	if err != nil {
		response.ServiceUnavailable(w, "Converter not available")
		return
	}

	status := conv.Status()
	if !status.Initialized {
		response.ServiceUnavailable(w, "Engine not initialized")
		return
	}

	response.OK(w, map[string]any{
		"status": "ready",
		"engine": status,
	})
}
