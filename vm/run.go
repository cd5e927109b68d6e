package vm

import (
	"context"

	"github.com/tapevm/tapevm/bytecode"
)

// Run the given Function in a new Virtual Machine and return its tape. The
// tape is returned on faults too, reflecting the cells at the point the
// run stopped.
func Run(ctx context.Context, fn *bytecode.Function, options ...Option) (*Tape, error) {
	machine := New(fn, options...)
	err := machine.Run(ctx)
	return machine.Tape(), err
}
