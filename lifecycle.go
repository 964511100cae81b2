package henkan

import (
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

// Close shuts the engine down. Closing twice is a no-op.
func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if err := c.engine.Shutdown(); err != nil {
		return errors.WrapEngine(c.status.Type.String(), "shutdown", err)
	}
	logging.Debug().Str("engine", c.status.Type.String()).Msg("Engine shut down")
	return nil
}
