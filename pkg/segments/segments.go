package segments

import (
	"strings"

	"github.com/agentstation/henkan/pkg/errors"
)

// Segments is the segment collection owned by a caller.
// It is not safe for concurrent use.
type Segments struct {
	history    []*Segment
	conversion []*Segment
}

// New creates a Segments with one free conversion segment per key.
func New(keys ...string) *Segments {
	s := &Segments{}
	for _, key := range keys {
		s.AddSegment(key)
	}
	return s
}

// AddHistory appends a history segment whose top candidate is value.
func (s *Segments) AddHistory(key, value string) *Segment {
	seg := &Segment{Key: key, Type: History}
	seg.Add(Candidate{Key: key, Value: value, ContentKey: key, ContentValue: value})
	s.history = append(s.history, seg)
	return seg
}

// AddSegment appends a free conversion segment.
func (s *Segments) AddSegment(key string) *Segment {
	seg := NewSegment(key)
	s.conversion = append(s.conversion, seg)
	return seg
}

// History returns the history segments.
func (s *Segments) History() []*Segment {
	return s.history
}

// Conversion returns the conversion segments.
func (s *Segments) Conversion() []*Segment {
	return s.conversion
}

// HistorySize returns the number of history segments.
func (s *Segments) HistorySize() int {
	return len(s.history)
}

// ConversionSize returns the number of conversion segments.
func (s *Segments) ConversionSize() int {
	return len(s.conversion)
}

// ConversionSegment returns conversion segment i.
func (s *Segments) ConversionSegment(i int) (*Segment, error) {
	if i < 0 || i >= len(s.conversion) {
		return nil, errors.NewStateError("conversion segment",
			"index out of range")
	}
	return s.conversion[i], nil
}

// ClearConversion removes every conversion segment. History is kept.
func (s *Segments) ClearConversion() {
	s.conversion = nil
}

// Clear removes every segment.
func (s *Segments) Clear() {
	s.history = nil
	s.conversion = nil
}

// Keys returns the conversion segment keys in order.
func (s *Segments) Keys() []string {
	keys := make([]string, len(s.conversion))
	for i, seg := range s.conversion {
		keys[i] = seg.Key
	}
	return keys
}

// ConversionKey returns the whole reading, the concatenation of conversion keys.
func (s *Segments) ConversionKey() string {
	return strings.Join(s.Keys(), "")
}

// TopValues returns the top candidate value of every conversion segment, or its
// key when it has no candidates.
func (s *Segments) TopValues() []string {
	values := make([]string, len(s.conversion))
	for i, seg := range s.conversion {
		if c, ok := seg.Candidate(0); ok {
			values[i] = c.Value
		} else {
			values[i] = seg.Key
		}
	}
	return values
}
