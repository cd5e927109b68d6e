package compiler

import "strings"

// DefaultName is given to Functions whose source carries no name.
const DefaultName = "main"

// Namer derives a Function name from its source text. Implementations must
// be deterministic and free of side effects.
type Namer interface {
	Name(source string) string
}

// NamerFunc adapts a function to the Namer interface.
type NamerFunc func(source string) string

// Name calls f(source).
func (f NamerFunc) Name(source string) string {
	return f(source)
}

// LeadingIdentifier names a Function after the identifier that starts its
// first line, ignoring leading blanks:
//
//	hello_world  prints a greeting
//	++++++++[>++++ ...
//
// compiles to a Function named "hello_world". Letters are commentary to the
// instruction set, so the name never alters the program. Sources without a
// leading identifier are named DefaultName.
var LeadingIdentifier Namer = NamerFunc(leadingIdentifier)

// Fixed returns a Namer that always answers name.
func Fixed(name string) Namer {
	return NamerFunc(func(string) string { return name })
}

func leadingIdentifier(source string) string {
	if i := strings.IndexByte(source, '\n'); i >= 0 {
		source = source[:i]
	}
	source = strings.TrimLeft(source, " \t\r\ufeff")
	end := 0
	for end < len(source) && isIdentByte(source[end], end == 0) {
		end++
	}
	if end == 0 {
		return DefaultName
	}
	return source[:end]
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}
