// Package candidates decodes the candidate blobs returned by a conversion engine.
//
// Engines answer with a JSON-like array of objects:
//
//	[{"text": "東京", "correspondingCount": 4}, {"text": "とうきょう"}]
//
// The decoders in this package are tolerant scanners rather than JSON parsers.
// They never fail: malformed or truncated input yields whatever records could be
// recovered up to the point where the input stopped making sense.
package candidates

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Raw is a candidate as reported by the engine.
type Raw struct {
	// Text is the converted surface form. Never empty in parser output.
	Text string `json:"text" yaml:"text"`

	// Coverage is the number of leading reading characters Text converts.
	// Zero means unspecified and is treated as full coverage.
	Coverage int `json:"correspondingCount,omitempty" yaml:"coverage,omitempty"`
}

// Format selects the blob layout a decoder expects.
type Format int

const (
	// FormatStructured is the array-of-objects layout.
	FormatStructured Format = iota
	// FormatLegacy is a flat array of strings with no coverage information.
	FormatLegacy
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatStructured:
		return "structured"
	case FormatLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat resolves a format name. Unknown names resolve to FormatStructured.
func ParseFormat(name string) Format {
	if strings.EqualFold(strings.TrimSpace(name), "legacy") {
		return FormatLegacy
	}
	return FormatStructured
}

// Decode decodes blob in the given format.
// Legacy strings become records with unspecified coverage.
func Decode(ctx context.Context, format Format, blob []byte) []Raw {
	if format != FormatLegacy {
		return ParseContext(ctx, blob)
	}
	texts := ParseStrings(blob)
	out := make([]Raw, 0, len(texts))
	for _, text := range texts {
		out = append(out, Raw{Text: text})
	}
	return out
}

// Encode renders records in the structured layout.
// Records with zero coverage are written without a correspondingCount field.
func Encode(list []Raw) ([]byte, error) {
	if list == nil {
		list = []Raw{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodeStrings renders texts in the legacy layout.
func EncodeStrings(texts []string) ([]byte, error) {
	if texts == nil {
		texts = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(texts); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
