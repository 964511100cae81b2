package reconciler

import (
	"fmt"
	"time"
)

// Candidate is a reconciled candidate. Its coverage always equals the
// character length of the reading it was reconciled against.
type Candidate struct {
	Text     string `json:"text" yaml:"text"`
	Coverage int    `json:"coverage" yaml:"coverage"`
}

// Decision records what happened to one input candidate.
type Decision struct {
	Index    int    `json:"index" yaml:"index"`
	Text     string `json:"text" yaml:"text"`
	Coverage int    `json:"coverage" yaml:"coverage"` // resolved coverage
	Action   Action `json:"action" yaml:"action"`
	Output   string `json:"output,omitempty" yaml:"output,omitempty"`
}

// Result represents the outcome of one reconciliation.
type Result struct {
	Key        string      `json:"key" yaml:"key"`
	Mode       Mode        `json:"mode" yaml:"mode"`
	Length     int         `json:"length" yaml:"length"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`

	// Fallback is set when nothing survived and the reading itself was used.
	Fallback bool `json:"fallback" yaml:"fallback"`

	Decisions []Decision `json:"decisions,omitempty" yaml:"decisions,omitempty"`
	Warnings  []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains timing and counters for one reconciliation.
type ResultMetadata struct {
	StartTime time.Time        `json:"start_time" yaml:"start_time"`
	EndTime   time.Time        `json:"end_time" yaml:"end_time"`
	Duration  time.Duration    `json:"duration" yaml:"duration"`
	Stats     ResultStatistics `json:"stats" yaml:"stats"`
}

// ResultStatistics counts candidates per action.
type ResultStatistics struct {
	Input    int `json:"input" yaml:"input"`
	Kept     int `json:"kept" yaml:"kept"`
	Extended int `json:"extended" yaml:"extended"`
	Dropped  int `json:"dropped" yaml:"dropped"`
}

// NewResult creates an empty result for key under mode.
func NewResult(key string, mode Mode, length int) *Result {
	return &Result{
		Key:        key,
		Mode:       mode,
		Length:     length,
		Candidates: []Candidate{},
		Warnings:   []string{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// Finalize records the end time and duration.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// Texts returns the candidate texts in order.
func (r *Result) Texts() []string {
	texts := make([]string, len(r.Candidates))
	for i, c := range r.Candidates {
		texts[i] = c.Text
	}
	return texts
}

// Top returns the first candidate. A finalized result always has one.
func (r *Result) Top() Candidate {
	if len(r.Candidates) == 0 {
		return Candidate{Text: r.Key, Coverage: r.Length}
	}
	return r.Candidates[0]
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	if r.Fallback {
		return fmt.Sprintf("%s: no usable candidates out of %d, fell back to reading", r.Mode.Name(), s.Input)
	}
	return fmt.Sprintf("%s: %d candidates (%d kept, %d extended, %d dropped)",
		r.Mode.Name(), len(r.Candidates), s.Kept, s.Extended, s.Dropped)
}
