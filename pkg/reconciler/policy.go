package reconciler

import "fmt"

// Action is what a policy decides for one candidate.
type Action int

const (
	// ActionKeep keeps the candidate text unchanged.
	ActionKeep Action = iota
	// ActionExtend appends the uncovered rest of the reading to the candidate text.
	ActionExtend
	// ActionDrop removes the candidate.
	ActionDrop
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionExtend:
		return "extend"
	case ActionDrop:
		return "drop"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Policy decides the fate of each candidate for one mode.
type Policy interface {
	// Mode returns the mode this policy implements.
	Mode() Mode

	// Description returns a human readable description.
	Description() string

	// Decide returns the action for a candidate covering coverage characters
	// of a reading that is length characters long. Coverage is already resolved:
	// it is never zero unless the reading is empty.
	Decide(coverage, length int) Action
}

type basePolicy struct {
	mode        Mode
	description string
}

func (p *basePolicy) Mode() Mode {
	return p.mode
}

func (p *basePolicy) Description() string {
	return p.description
}

// FullSegmentPolicy keeps exact candidates, extends partial ones and drops
// candidates claiming more than the reading supplies.
type FullSegmentPolicy struct{ basePolicy }

// Decide implements Policy.
func (p *FullSegmentPolicy) Decide(coverage, length int) Action {
	switch {
	case coverage == length:
		return ActionKeep
	case coverage < length:
		return ActionExtend
	default:
		return ActionDrop
	}
}

// SingleKeyPolicy never drops. Over-covering candidates are extended by the
// empty suffix, which keeps their text and normalizes their coverage.
type SingleKeyPolicy struct{ basePolicy }

// Decide implements Policy.
func (p *SingleKeyPolicy) Decide(coverage, length int) Action {
	if coverage == length {
		return ActionKeep
	}
	return ActionExtend
}

// ResizedSegmentPolicy keeps exact candidates only.
type ResizedSegmentPolicy struct{ basePolicy }

// Decide implements Policy.
func (p *ResizedSegmentPolicy) Decide(coverage, length int) Action {
	if coverage == length {
		return ActionKeep
	}
	return ActionDrop
}

// NewFullSegmentPolicy returns the default policy for ModeFullSegment.
func NewFullSegmentPolicy() Policy {
	return &FullSegmentPolicy{basePolicy{
		mode:        ModeFullSegment,
		description: "Keeps exact candidates, extends partial ones, drops over-coverage",
	}}
}

// NewSingleKeyPolicy returns the default policy for ModeSingleKey.
func NewSingleKeyPolicy() Policy {
	return &SingleKeyPolicy{basePolicy{
		mode:        ModeSingleKey,
		description: "Keeps exact candidates and extends every other candidate",
	}}
}

// NewResizedSegmentPolicy returns the default policy for ModeResizedSegment.
func NewResizedSegmentPolicy() Policy {
	return &ResizedSegmentPolicy{basePolicy{
		mode:        ModeResizedSegment,
		description: "Keeps exact candidates only",
	}}
}

// DefaultPolicies returns a fresh policy for every mode.
func DefaultPolicies() map[Mode]Policy {
	return map[Mode]Policy{
		ModeFullSegment:    NewFullSegmentPolicy(),
		ModeSingleKey:      NewSingleKeyPolicy(),
		ModeResizedSegment: NewResizedSegmentPolicy(),
	}
}
