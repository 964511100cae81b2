package reconciler

import (
	"github.com/agentstation/henkan/pkg/errors"
)

type options struct {
	policies map[Mode]Policy
	tracking bool
}

func defaultOptions() *options {
	return &options{
		policies: DefaultPolicies(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithPolicy replaces the policy used for the policy's own mode.
func WithPolicy(policy Policy) Option {
	return func(o *options) error {
		if policy == nil {
			return &errors.ValidationError{
				Field:   "policy",
				Message: "cannot be nil",
			}
		}
		if !policy.Mode().Valid() {
			return errors.NewValidationError("policy", policy.Mode().String(), "unknown mode")
		}
		o.policies[policy.Mode()] = policy
		return nil
	}
}

// WithTracking records one Decision per input candidate in every Result.
func WithTracking(enabled bool) Option {
	return func(o *options) error {
		o.tracking = enabled
		return nil
	}
}
