// Package reconciler turns the raw candidates an engine reports for a reading
// into a ranked list in which every candidate covers the whole reading.
//
// One algorithm serves all modes; a Policy per Mode decides, candidate by
// candidate, whether to keep, extend or drop. Two laws hold for every mode:
// the output preserves input order, and it is never empty, because a reading
// with no surviving candidates falls back to itself.
package reconciler

import (
	"context"
	"fmt"

	"github.com/agentstation/henkan/pkg/candidates"
	"github.com/agentstation/henkan/pkg/chars"
	"github.com/agentstation/henkan/pkg/errors"
	"github.com/agentstation/henkan/pkg/logging"
)

// Reconciler reconciles raw candidates against a reading.
type Reconciler interface {
	// Reconcile normalizes raw against key under mode.
	// It fails only for an unknown mode.
	Reconcile(ctx context.Context, key string, raw []candidates.Raw, mode Mode) (*Result, error)

	// Policy returns the policy used for mode.
	Policy(mode Mode) (Policy, error)
}

type reconciler struct {
	policies map[Mode]Policy
	tracking bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		policies: options.policies,
		tracking: options.tracking,
	}, nil
}

// Policy returns the policy used for mode.
func (r *reconciler) Policy(mode Mode) (Policy, error) {
	policy, ok := r.policies[mode]
	if !ok {
		return nil, errors.NewValidationError("mode", mode.String(), "unknown mode")
	}
	return policy, nil
}

// Reconcile implements Reconciler.
func (r *reconciler) Reconcile(ctx context.Context, key string, raw []candidates.Raw, mode Mode) (*Result, error) {
	policy, err := r.Policy(mode)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx).With().
		Str("reading", key).
		Str("mode", mode.String()).
		Logger()

	length := chars.Count(key)
	result := NewResult(key, mode, length)
	result.Metadata.Stats.Input = len(raw)
	result.Candidates = make([]Candidate, 0, len(raw))

	for i, rc := range raw {
		coverage := rc.Coverage
		if coverage <= 0 {
			coverage = length
		}

		action := policy.Decide(coverage, length)
		text := rc.Text
		switch action {
		case ActionKeep:
			result.Metadata.Stats.Kept++
		case ActionExtend:
			text += chars.Suffix(key, coverage)
			result.Metadata.Stats.Extended++
		default:
			text = ""
			result.Metadata.Stats.Dropped++
			if coverage > length {
				msg := fmt.Sprintf("candidate %q claims %d characters of a %d character reading", rc.Text, coverage, length)
				result.Warnings = append(result.Warnings, msg)
				logger.Warn().
					Str("text", rc.Text).
					Int("coverage", coverage).
					Int("length", length).
					Msg("Dropped over-coverage candidate")
			}
		}

		if r.tracking {
			result.Decisions = append(result.Decisions, Decision{
				Index:    i,
				Text:     rc.Text,
				Coverage: coverage,
				Action:   action,
				Output:   text,
			})
		}
		if action != ActionDrop {
			result.Candidates = append(result.Candidates, Candidate{Text: text, Coverage: length})
		}
	}

	if len(result.Candidates) == 0 {
		result.Fallback = true
		result.Candidates = append(result.Candidates, Candidate{Text: key, Coverage: length})
		logger.Info().
			Int("input", len(raw)).
			Msg("No usable candidates, falling back to reading")
	}

	result.Finalize()
	logger.Debug().
		Int("candidates", len(result.Candidates)).
		Int("kept", result.Metadata.Stats.Kept).
		Int("extended", result.Metadata.Stats.Extended).
		Int("dropped", result.Metadata.Stats.Dropped).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciled candidates")

	return result, nil
}

// Reconcile normalizes raw against key with the default policies.
func Reconcile(ctx context.Context, key string, raw []candidates.Raw, mode Mode) (*Result, error) {
	return defaultReconciler.Reconcile(ctx, key, raw, mode)
}

var defaultReconciler = &reconciler{policies: DefaultPolicies()}
