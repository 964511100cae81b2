package candidates

// ParseStrings decodes a legacy blob: a flat array of quoted strings.
// Escapes follow the same rules as Parse and empty strings are dropped.
// Scanning stops at ']', at the end of input, or at any byte that is neither
// whitespace, a comma nor an opening quote.
func ParseStrings(blob []byte) []string {
	if len(blob) == 0 || blob[0] != '[' {
		return nil
	}

	s := &scanner{data: blob, pos: 1}
	var out []string
	for {
		s.skipWhitespace()
		if s.eof() || s.peek() == ']' {
			return out
		}
		switch s.peek() {
		case ',':
			s.pos++
			continue
		case '"':
			s.pos++
		default:
			return out
		}
		if text := s.quoted(); text != "" {
			out = append(out, text)
		}
	}
}
