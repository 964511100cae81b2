// Package segments models the segment structure a conversion pipeline owns and
// writes reconciled candidates into it.
//
// A Segments value holds history segments (already committed text, kept for
// context) followed by conversion segments (the reading being converted).
// Writers in this package only ever touch conversion segments.
package segments

import "fmt"

// Type classifies a segment.
type Type int

const (
	// Free segments may be resized and re-converted.
	Free Type = iota
	// FixedBoundary segments keep their boundary but not their value.
	FixedBoundary
	// FixedValue segments keep both boundary and value.
	FixedValue
	// Submitted segments were committed by the user in this session.
	Submitted
	// History segments carry earlier context only.
	History
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case Free:
		return "free"
	case FixedBoundary:
		return "fixed_boundary"
	case FixedValue:
		return "fixed_value"
	case Submitted:
		return "submitted"
	case History:
		return "history"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Candidate is one ranked conversion of a segment's reading.
type Candidate struct {
	Key          string `json:"key" yaml:"key"`
	Value        string `json:"value" yaml:"value"`
	ContentKey   string `json:"content_key" yaml:"content_key"`
	ContentValue string `json:"content_value" yaml:"content_value"`

	Cost          int32 `json:"cost" yaml:"cost"`
	WCost         int32 `json:"wcost" yaml:"wcost"`
	StructureCost int32 `json:"structure_cost" yaml:"structure_cost"`

	// ConsumedKeySize is the number of reading characters the candidate consumes.
	ConsumedKeySize int `json:"consumed_key_size" yaml:"consumed_key_size"`

	// LID and RID are part-of-speech ids. Zero means unresolved.
	LID uint16 `json:"lid" yaml:"lid"`
	RID uint16 `json:"rid" yaml:"rid"`
}

// Segment is a reading together with its ranked candidates.
type Segment struct {
	Key            string      `json:"key" yaml:"key"`
	Type           Type        `json:"type" yaml:"type"`
	Candidates     []Candidate `json:"candidates" yaml:"candidates"`
	MetaCandidates []Candidate `json:"meta_candidates,omitempty" yaml:"meta_candidates,omitempty"`
}

// NewSegment creates a free segment for key.
func NewSegment(key string) *Segment {
	return &Segment{Key: key, Type: Free}
}

// Clear removes all candidates and meta candidates.
func (s *Segment) Clear() {
	s.Candidates = s.Candidates[:0]
	s.MetaCandidates = s.MetaCandidates[:0]
}

// Add appends a candidate and returns a pointer to it.
func (s *Segment) Add(c Candidate) *Candidate {
	s.Candidates = append(s.Candidates, c)
	return &s.Candidates[len(s.Candidates)-1]
}

// Len returns the number of candidates.
func (s *Segment) Len() int {
	return len(s.Candidates)
}

// Candidate returns the candidate at index i.
func (s *Segment) Candidate(i int) (Candidate, bool) {
	if i < 0 || i >= len(s.Candidates) {
		return Candidate{}, false
	}
	return s.Candidates[i], true
}

// Values returns the candidate values in rank order.
func (s *Segment) Values() []string {
	values := make([]string, len(s.Candidates))
	for i, c := range s.Candidates {
		values[i] = c.Value
	}
	return values
}
