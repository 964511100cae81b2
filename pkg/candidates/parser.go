package candidates

import (
	"context"
	"math"
	"strings"

	"github.com/agentstation/henkan/pkg/logging"
)

const (
	keyText     = "text"
	keyCoverage = "correspondingCount"

	maxCoverage = math.MaxInt32
)

type state int

const (
	stateArray state = iota
	stateElement
	stateKey
	stateValue
	stateDone
)

// scanner walks a blob one state at a time. Every state function returns the
// next state, and every path through the input ends in stateDone.
type scanner struct {
	data []byte
	pos  int

	cur Raw
	key string
	out []Raw
}

// Parse decodes a structured candidate blob.
// It never fails; see ParseContext.
func Parse(blob []byte) []Raw {
	return ParseContext(context.Background(), blob)
}

// ParseContext decodes a structured candidate blob, logging a summary to the
// context logger.
//
// The blob must start with '[' at byte zero. Each object contributes a record
// once it ends, whether by its closing brace, by an unexpected byte, or by the
// end of input, provided its text is non-empty. Unknown keys are skipped.
// Within text values the escapes \n \t \r \\ \" are decoded, \uXXXX is consumed
// without producing output, and any other escaped byte is kept as is.
func ParseContext(ctx context.Context, blob []byte) []Raw {
	s := &scanner{data: blob}
	st := stateArray
	for st != stateDone {
		switch st {
		case stateArray:
			st = s.openArray()
		case stateElement:
			st = s.element()
		case stateKey:
			st = s.objectKey()
		case stateValue:
			st = s.value()
		}
	}

	logging.FromContext(ctx).Debug().
		Int("bytes", len(blob)).
		Int("records", len(s.out)).
		Msg("Parsed candidate blob")
	return s.out
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.data)
}

func (s *scanner) peek() byte {
	return s.data[s.pos]
}

func (s *scanner) skipWhitespace() {
	for !s.eof() && isWhitespace(s.peek()) {
		s.pos++
	}
}

func (s *scanner) openArray() state {
	if len(s.data) == 0 || s.data[0] != '[' {
		return stateDone
	}
	s.pos = 1
	return stateElement
}

func (s *scanner) element() state {
	s.skipWhitespace()
	if s.eof() {
		return stateDone
	}
	switch s.peek() {
	case ']':
		return stateDone
	case ',':
		s.pos++
		return stateElement
	case '{':
		s.pos++
		s.cur = Raw{}
		return stateKey
	default:
		return stateDone
	}
}

func (s *scanner) objectKey() state {
	s.skipWhitespace()
	if s.eof() {
		s.emit()
		return stateDone
	}
	switch s.peek() {
	case '}':
		s.pos++
		s.emit()
		return stateElement
	case ',':
		s.pos++
		return stateKey
	case '"':
		s.pos++
	default:
		// The element state decides whether anything follows.
		s.emit()
		return stateElement
	}

	start := s.pos
	for !s.eof() && s.peek() != '"' {
		s.pos++
	}
	s.key = string(s.data[start:s.pos])
	if !s.eof() {
		s.pos++
	}
	for !s.eof() && (s.peek() == ' ' || s.peek() == ':') {
		s.pos++
	}
	return stateValue
}

func (s *scanner) value() state {
	switch s.key {
	case keyText:
		if !s.eof() && s.peek() == '"' {
			s.pos++
			s.cur.Text = s.quoted()
		}
	case keyCoverage:
		s.cur.Coverage = s.digits()
	default:
		s.skipValue()
	}
	return stateKey
}

// emit appends the current record when it carries text.
func (s *scanner) emit() {
	if s.cur.Text != "" {
		s.out = append(s.out, s.cur)
	}
	s.cur = Raw{}
}

// quoted reads a string body whose opening quote was already consumed,
// including the closing quote when present.
func (s *scanner) quoted() string {
	var b strings.Builder
	for !s.eof() && s.peek() != '"' {
		c := s.peek()
		if c == '\\' && s.pos+1 < len(s.data) {
			s.pos++
			switch e := s.peek(); e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '"':
				b.WriteByte(e)
			case 'u':
				if s.pos+4 < len(s.data) {
					s.pos += 4
				}
			default:
				b.WriteByte(e)
			}
		} else {
			b.WriteByte(c)
		}
		s.pos++
	}
	if !s.eof() {
		s.pos++
	}
	return b.String()
}

// digits reads a run of ASCII digits, saturating at maxCoverage.
func (s *scanner) digits() int {
	n := 0
	for !s.eof() && s.peek() >= '0' && s.peek() <= '9' {
		if n <= (maxCoverage-9)/10 {
			n = n*10 + int(s.peek()-'0')
		} else {
			n = maxCoverage
		}
		s.pos++
	}
	return n
}

func (s *scanner) skipValue() {
	if !s.eof() && s.peek() == '"' {
		s.pos++
		for !s.eof() && s.peek() != '"' {
			if s.peek() == '\\' && s.pos+1 < len(s.data) {
				s.pos++
			}
			s.pos++
		}
		if !s.eof() {
			s.pos++
		}
		return
	}
	for !s.eof() && s.peek() != ',' && s.peek() != '}' {
		s.pos++
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
