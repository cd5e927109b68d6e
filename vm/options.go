package vm

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// EOFPolicy selects what the input instruction does when the input source
// is exhausted.
type EOFPolicy int

const (
	// EOFUnchanged leaves the current cell as it was.
	EOFUnchanged EOFPolicy = iota
	// EOFZero stores 0 in the current cell.
	EOFZero
	// EOFFault stops the run with an I/O fault.
	EOFFault
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFUnchanged:
		return "unchanged"
	case EOFZero:
		return "zero"
	case EOFFault:
		return "fault"
	default:
		return fmt.Sprintf("EOFPolicy(%d)", int(p))
	}
}

// ParseEOFPolicy converts "unchanged", "zero" or "fault" to an EOFPolicy.
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	switch s {
	case "", "unchanged":
		return EOFUnchanged, nil
	case "zero":
		return EOFZero, nil
	case "fault":
		return EOFFault, nil
	}
	return EOFUnchanged, fmt.Errorf("invalid eof policy %q (want unchanged, zero or fault)", s)
}

// WithInput sets the source read by the input instruction. The default is
// os.Stdin.
func WithInput(r io.Reader) Option {
	return func(vm *VirtualMachine) {
		vm.input = r
	}
}

// WithOutput sets the sink written by the output instruction. The default
// is os.Stdout. Writers that implement io.ByteWriter are written a byte at a
// time without allocation.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = w
	}
}

// WithTape runs on the given tape instead of a fresh one. The tape is grown
// to the Function's minimum size if it is shorter, and its contents survive
// Reset.
func WithTape(tape *Tape) Option {
	return func(vm *VirtualMachine) {
		if tape != nil {
			vm.tape = tape
			vm.ownTape = false
		}
	}
}

// WithMaxCells bounds tape growth. Moving the data pointer past the last
// permitted cell faults with a tape limit error. Zero means unbounded.
func WithMaxCells(n int) Option {
	return func(vm *VirtualMachine) {
		if n >= 0 {
			vm.maxCells = n
		}
	}
}

// WithEOF sets the end-of-input policy. The default is EOFUnchanged.
func WithEOF(policy EOFPolicy) Option {
	return func(vm *VirtualMachine) {
		vm.eof = policy
	}
}

// WithContextCheckInterval sets how often the VM checks ctx.Done() during
// execution. The interval is specified in number of instructions. A value of 0
// disables deterministic checking, relying only on the cancellation callback
// registered with the context. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for execution events. Returning false from
// OnStep halts execution.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}

// WithLogger sets the logger for run events. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}
