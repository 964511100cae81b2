package henkan

import (
	"context"

	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/engine"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
	"github.com/agentstation/henkan/pkg/reconciler"
	"github.com/agentstation/henkan/pkg/segments"
)

// Convert implements Converter.
func (c *client) Convert(ctx context.Context, segs *segments.Segments) error {
	ctx = c.context(ctx, "convert")
	logger := logging.FromContext(ctx)

	if segs == nil {
		return errors.NewValidationError("segments", nil, "cannot be nil")
	}
	if segs.ConversionSize() == 0 {
		return errors.NewValidationError("segments", 0, "no conversion segments")
	}
	if err := c.ready("convert"); err != nil {
		return err
	}

	// Keys are collected up front so the lookups do not depend on
	// segments written earlier in the loop.
	keys := make([]string, segs.ConversionSize())
	for i, seg := range segs.Conversion() {
		keys[i] = seg.Key
	}

	converted := 0
	for i, key := range keys {
		if key == "" {
			continue
		}

		segCtx := logging.WithSegment(logging.WithReading(ctx, key), i)
		result, err := c.reconcile(segCtx, key, reconciler.ModeFullSegment)
		if err != nil {
			logging.FromContext(segCtx).Warn().Err(err).Msg("Skipping segment, candidate lookup failed")
			continue
		}
		if err := segments.Commit(segs, i, result); err != nil {
			return err
		}
		c.hooks.trigger(i, result)
		converted++
	}

	logger.Debug().
		Int("segments", len(keys)).
		Int("converted", converted).
		Msg("Converted segments")
	return nil
}

// ConvertKey implements Converter.
func (c *client) ConvertKey(ctx context.Context, key string, segs *segments.Segments) error {
	ctx = logging.WithReading(c.context(ctx, "convert_key"), key)

	if segs == nil {
		return errors.NewValidationError("segments", nil, "cannot be nil")
	}
	if key == "" {
		return errors.NewValidationError("key", key, "cannot be empty")
	}

	result, err := c.reconcile(ctx, key, reconciler.ModeSingleKey)
	if err != nil {
		return err
	}
	if err := segments.Commit(segs, 0, result); err != nil {
		return err
	}
	c.hooks.trigger(0, result)
	return nil
}

// ConvertResized implements Converter.
func (c *client) ConvertResized(ctx context.Context, key string, segs *segments.Segments) error {
	ctx = logging.WithReading(c.context(ctx, "convert_resized"), key)

	if segs == nil {
		return errors.NewValidationError("segments", nil, "cannot be nil")
	}
	if key == "" {
		return errors.NewValidationError("key", key, "cannot be empty")
	}
	if segs.ConversionSize() == 0 {
		return errors.NewStateError("resized segment", "no conversion segments")
	}

	result, err := c.reconcile(ctx, key, reconciler.ModeResizedSegment)
	if err != nil {
		return err
	}
	if err := segments.Commit(segs, 0, result); err != nil {
		return err
	}
	c.hooks.trigger(0, result)
	return nil
}

// Reconcile implements Converter.
func (c *client) Reconcile(ctx context.Context, key string, mode reconciler.Mode) (*reconciler.Result, error) {
	ctx = logging.WithReading(c.context(ctx, "reconcile"), key)
	if !mode.Valid() {
		return nil, errors.NewValidationError("mode", mode.String(), "unknown mode")
	}
	return c.reconcile(ctx, key, mode)
}

// Candidates implements Converter.
func (c *client) Candidates(ctx context.Context, key string) ([]byte, error) {
	return c.fetch(c.context(ctx, "candidates"), key)
}

// reconcile fetches, parses and reconciles the candidates for key.
func (c *client) reconcile(ctx context.Context, key string, mode reconciler.Mode) (*reconciler.Result, error) {
	blob, err := c.fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	raw := candidates.Decode(ctx, c.options.format, blob)
	return c.reconciler.Reconcile(logging.WithMode(ctx, mode.String()), key, raw, mode)
}

// fetch runs one engine session for key.
func (c *client) fetch(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.NewEngineError(c.status.Type.String(), "get_candidates", "converter is closed", nil)
	}
	blob, err := engine.Fetch(ctx, c.engine, key)
	if err != nil {
		return nil, errors.WrapEngine(c.status.Type.String(), "get_candidates", err)
	}
	return blob, nil
}

// ready fails when the converter can no longer reach its engine.
func (c *client) ready(operation string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.NewEngineError(c.status.Type.String(), operation, "converter is closed", nil)
	}
	return nil
}

// context attaches the converter's logger, when one was configured and ctx
// carries none, and names the operation.
func (c *client) context(ctx context.Context, operation string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.options.logger != nil && logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, c.options.logger)
	}
	return logging.WithOperation(ctx, operation)
}

// Run dispatches to the Converter operation of mode. key is ignored in
// full segment mode, where every conversion segment carries its own key.
func Run(ctx context.Context, c Converter, mode reconciler.Mode, key string, segs *segments.Segments) error {
	switch mode {
	case reconciler.ModeFullSegment:
		return c.Convert(ctx, segs)
	case reconciler.ModeSingleKey:
		return c.ConvertKey(ctx, key, segs)
	case reconciler.ModeResizedSegment:
		return c.ConvertResized(ctx, key, segs)
	default:
		return errors.NewValidationError("mode", mode.String(), "unknown reconciliation mode")
	}
}
