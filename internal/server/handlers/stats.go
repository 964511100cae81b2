package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/agentstation/henkan/internal/server/response"
)

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := map[string]any{
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"runtime": map[string]any{
			"goroutines":  runtime.NumGoroutine(),
			"alloc_bytes": mem.Alloc,
			"sys_bytes":   mem.Sys,
			"num_gc":      mem.NumGC,
			"go_version":  runtime.Version(),
		},
		"events": map[string]any{
			"published":   h.broker.EventsPublished(),
			"dropped":     h.broker.EventsDropped(),
			"queued":      h.broker.QueueDepth(),
			"subscribers": h.broker.SubscriberCount(),
		},
		"realtime": map[string]any{
			"websocket_clients": h.wsHub.ClientCount(),
			"sse_clients":       h.sseBroadcaster.ClientCount(),
		},
	}

	if conv, err := h.app.Converter(); err == nil {
		stats["engine"] = conv.Status()
	}

	response.OK(w, stats)
}
