// Package chars converts between byte offsets and character offsets in UTF-8 text.
//
// Characters are counted by classifying leading bytes only. A byte that is not a
// valid leading byte counts as a one-byte character, so every function here is
// total: malformed input never panics and never loses bytes.
//
// All three operations agree with each other:
//
//	chars.Prefix(s, n) + chars.Suffix(s, n) == s
//	chars.Count(chars.Prefix(s, n)) == min(n, chars.Count(s))
package chars

// width returns how many bytes the character starting with b occupies.
func width(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// Count returns the number of characters in s.
func Count(s string) int {
	count := 0
	for i := 0; i < len(s); i += width(s[i]) {
		count++
	}
	return count
}

// Offset returns the byte offset just past the first n characters of s,
// clamped to len(s).
func Offset(s string, n int) int {
	pos := 0
	for processed := 0; pos < len(s) && processed < n; processed++ {
		pos += width(s[pos])
	}
	if pos > len(s) {
		return len(s)
	}
	return pos
}

// Prefix returns the first n characters of s.
// If n is at least Count(s), s is returned unchanged.
func Prefix(s string, n int) string {
	return s[:Offset(s, n)]
}

// Suffix returns what remains of s after skipping its first skip characters.
func Suffix(s string, skip int) string {
	return s[Offset(s, skip):]
}
