package tapevm

import (
	"context"
	"fmt"

	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/compiler"
	"github.com/tapevm/tapevm/vm"
)

// VM provides stateful execution for interactive and incremental use.
// Unlike Eval and Run, which start every call on a fresh tape, a VM keeps
// one tape across calls, so cells written by one snippet are visible to the
// next. Each call starts with the data pointer at cell 0.
//
// A VM is not safe for concurrent use.
type VM struct {
	compiler *compiler.Compiler
	tape     *vm.Tape
	cfg      *options
	runs     int
}

// NewVM creates a new VM with the given options.
func NewVM(opts ...Option) *VM {
	cfg := collectOptions(opts...)
	return &VM{
		compiler: compiler.New(cfg.compilerOpts()...),
		tape:     vm.NewTape(cfg.minCells),
		cfg:      cfg,
	}
}

// Eval compiles source and runs it on this VM's tape.
func (v *VM) Eval(ctx context.Context, source string) error {
	fn, err := v.compiler.Compile(source)
	if err != nil {
		return err
	}
	return v.Run(ctx, fn)
}

// Run executes a compiled Function on this VM's tape. The tape keeps
// whatever the Function wrote, even if it faulted.
func (v *VM) Run(ctx context.Context, fn *bytecode.Function) error {
	if fn == nil {
		return fmt.Errorf("nil function")
	}
	opts := append(v.cfg.vmOpts(), vm.WithTape(v.tape))
	v.runs++
	_, err := vm.Run(ctx, fn, opts...)
	return err
}

// Tape returns the tape shared by every run of this VM.
func (v *VM) Tape() *vm.Tape {
	return v.tape
}

// Runs returns the number of Functions this VM has run.
func (v *VM) Runs() int {
	return v.runs
}

// Reset discards the tape contents, starting again from a fresh tape.
func (v *VM) Reset() {
	v.tape = vm.NewTape(v.cfg.minCells)
	v.compiler.Reset()
	v.runs = 0
}
