package henkan

import (
	"sync"

	"github.com/agentstation/henkan/pkg/reconciler"
)

// Hook function types for conversion events
type (
	// SegmentConvertedHook is called after a segment was written.
	// index is the conversion segment that received the result.
	SegmentConvertedHook func(index int, result *reconciler.Result)

	// FallbackHook is called when no candidate survived for a reading and
	// the reading itself was used instead.
	FallbackHook func(key string, mode reconciler.Mode)
)

// hooks manages event callbacks for conversions
type hooks struct {
	mu                 sync.RWMutex
	onSegmentConverted []SegmentConvertedHook
	onFallback         []FallbackHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnSegmentConverted registers a callback for written segments.
func (c *client) OnSegmentConverted(fn SegmentConvertedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onSegmentConverted = append(c.hooks.onSegmentConverted, fn)
}

// OnFallback registers a callback for readings that fell back to themselves.
func (c *client) OnFallback(fn FallbackHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onFallback = append(c.hooks.onFallback, fn)
}

// trigger runs the hooks interested in a written result.
func (h *hooks) trigger(index int, result *reconciler.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onSegmentConverted {
		hook(index, result)
	}
	if result.Fallback {
		for _, hook := range h.onFallback {
			hook(result.Key, result.Mode)
		}
	}
}
