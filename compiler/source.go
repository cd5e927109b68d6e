package compiler

import "strings"

// Source is an owned copy of program text. It never aliases the buffer it
// was created from.
type Source struct {
	text string
}

// NewSource duplicates text into a new Source.
func NewSource(text string) *Source {
	return &Source{text: strings.Clone(text)}
}

// NewSourceBytes copies b into a new Source.
func NewSourceBytes(b []byte) *Source {
	return &Source{text: string(b)}
}

// Len returns the length of the text in bytes.
func (s *Source) Len() int {
	return len(s.text)
}

// At returns the byte at index i.
func (s *Source) At(i int) byte {
	return s.text[i]
}

// String returns the text.
func (s *Source) String() string {
	return s.text
}

// Line returns the 1-based line n without its newline, or "" if out of range.
func (s *Source) Line(n int) string {
	if n < 1 {
		return ""
	}
	rest := s.text
	for ; n > 1; n-- {
		i := strings.IndexByte(rest, '\n')
		if i < 0 {
			return ""
		}
		rest = rest[i+1:]
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSuffix(rest, "\r")
}
