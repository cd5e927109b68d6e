package errors

import "sort"

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Syntax errors
//   - E2xxx: Compile limit errors
//   - E3xxx: Runtime faults
type ErrorCode string

const (
	// Syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unmatched loop exit
	E1002 ErrorCode = "E1002" // Unclosed loop enter

	// Compile limit errors (E2xxx)
	E2001 ErrorCode = "E2001" // Too many instructions

	// Runtime faults (E3xxx)
	E3001 ErrorCode = "E3001" // Tape underflow
	E3002 ErrorCode = "E3002" // Malformed bytecode
	E3003 ErrorCode = "E3003" // Tape limit exceeded
	E3004 ErrorCode = "E3004" // I/O failure
	E3005 ErrorCode = "E3005" // Execution cancelled
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unmatched loop exit",
	E1002: "unclosed loop enter",

	E2001: "too many instructions",

	E3001: "tape underflow",
	E3002: "malformed bytecode",
	E3003: "tape limit exceeded",
	E3004: "i/o failure",
	E3005: "execution cancelled",
}

// Codes returns every defined error code in ascending order.
func Codes() []ErrorCode {
	out := make([]ErrorCode, 0, len(codeDescriptions))
	for code := range codeDescriptions {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "syntax"
	case '2':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
