package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTapeUnderflow     = errors.New("tape underflow")
	ErrMalformedBytecode = errors.New("malformed bytecode")
	ErrTapeLimit         = errors.New("tape limit exceeded")
)

// FaultKind represents the category of a runtime fault.
type FaultKind int

const (
	// TapeUnderflow indicates the data pointer moved below cell zero.
	TapeUnderflow FaultKind = iota
	// MalformedBytecode indicates an invalid opcode or loop partner.
	MalformedBytecode
	// TapeLimit indicates the tape would grow past its configured maximum.
	TapeLimit
	// IO indicates the input source or output sink failed.
	IO
	// Cancelled indicates the run's context was cancelled.
	Cancelled
)

// String returns the string representation of the fault kind.
func (k FaultKind) String() string {
	switch k {
	case TapeUnderflow:
		return "tape underflow"
	case MalformedBytecode:
		return "malformed bytecode"
	case TapeLimit:
		return "tape limit"
	case IO:
		return "i/o error"
	case Cancelled:
		return "cancelled"
	default:
		return "fault"
	}
}

// Code returns the error code associated with the fault kind.
func (k FaultKind) Code() ErrorCode {
	switch k {
	case TapeUnderflow:
		return E3001
	case MalformedBytecode:
		return E3002
	case TapeLimit:
		return E3003
	case IO:
		return E3004
	default:
		return E3005
	}
}

// RuntimeError is a fault that terminated one execution. The Function that
// was running is unaffected and may be run again.
type RuntimeError struct {
	Kind     FaultKind
	Message  string
	Function string
	IP       int // instruction pointer at the fault
	DP       int // data pointer at the fault
	Line     int
	Column   int
	Source   string // the source line, when known
	Cause    error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("runtime error: %s: %s (ip %d, dp %d)", e.Kind, e.Message, e.IP, e.DP)
	}
	return fmt.Sprintf("runtime error: %s: %s (%d:%d)", e.Kind, e.Message, e.Line, e.Column)
}

// Unwrap returns the sentinel or underlying cause of the fault.
func (e *RuntimeError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	switch e.Kind {
	case TapeUnderflow:
		return ErrTapeUnderflow
	case MalformedBytecode:
		return ErrMalformedBytecode
	case TapeLimit:
		return ErrTapeLimit
	}
	return nil
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *RuntimeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *RuntimeError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:    e.Kind.Code(),
		Kind:    "runtime error",
		Message: e.Message,
		Line:    e.Line,
		Column:  e.Column,
		Note:    fmt.Sprintf("ip %d, dp %d", e.IP, e.DP),
	}
	if e.Function != "" {
		fe.Note = fmt.Sprintf("in %s: %s", e.Function, fe.Note)
	}
	if e.Source != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.Source, IsMain: true},
		}
	}
	return fe
}
