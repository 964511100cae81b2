package reconciler

import (
	"fmt"
	"strings"

	"github.com/agentstation/henkan/pkg/errors"
)

// Mode selects how a candidate list is reconciled against a reading and which
// segments the result replaces.
type Mode int

const (
	// ModeFullSegment reconciles one existing conversion segment.
	// Partial candidates are extended, over-covering ones are dropped.
	ModeFullSegment Mode = iota

	// ModeSingleKey reconciles the whole reading as one new segment.
	// Nothing is dropped: every candidate that does not cover the reading exactly is extended.
	ModeSingleKey

	// ModeResizedSegment reconciles the first segment after a boundary resize.
	// Only exact-coverage candidates survive.
	ModeResizedSegment
)

var modeNames = map[Mode]string{
	ModeFullSegment:    "full_segment",
	ModeSingleKey:      "single_key",
	ModeResizedSegment: "resized_segment",
}

// Modes returns every valid mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeFullSegment, ModeSingleKey, ModeResizedSegment}
}

// String returns the snake_case mode name.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Name returns a human readable mode name, e.g. "Full Segment".
func (m Mode) Name() string {
	words := strings.Split(m.String(), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode resolves a mode name. Hyphens, underscores and case are ignored,
// so "full-segment", "FullSegment" and "full_segment" are equivalent.
func ParseMode(name string) (Mode, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	for mode, modeName := range modeNames {
		if strings.ReplaceAll(modeName, "_", "") == norm {
			return mode, nil
		}
	}
	switch norm {
	case "full":
		return ModeFullSegment, nil
	case "single":
		return ModeSingleKey, nil
	case "resized", "resize":
		return ModeResizedSegment, nil
	}
	return 0, errors.NewValidationError("mode", name, "unknown mode")
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.NewValidationError("mode", int(m), "unknown mode")
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
