// Package tapevm compiles and runs programs written in an eight-symbol tape
// language.
//
// Source text is compiled into an immutable bytecode.Function that can be
// run any number of times, from any number of goroutines:
//
//	fn, err := tapevm.Compile("++++++++[>++++++++<-]>+.")
//	if err != nil {
//		return err
//	}
//	tape, err := tapevm.Run(ctx, fn, tapevm.WithOutput(os.Stdout))
//
// Characters other than the eight instructions are commentary. Compile
// errors are *errors.CompileError values; runtime faults are
// *errors.RuntimeError values.
package tapevm

import (
	"bytes"
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/compiler"
	"github.com/tapevm/tapevm/vm"
)

// Option configures a tapevm compilation or execution.
type Option func(*options)

type options struct {
	filename        string
	namer           compiler.Namer
	minCells        int
	maxInstructions int
	input           io.Reader
	output          io.Writer
	eof             vm.EOFPolicy
	maxCells        int
	observer        vm.Observer
	logger          *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts() []compiler.Option {
	var opts []compiler.Option
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	if o.namer != nil {
		opts = append(opts, compiler.WithNamer(o.namer))
	}
	if o.minCells > 0 {
		opts = append(opts, compiler.WithMinCells(o.minCells))
	}
	if o.maxInstructions > 0 {
		opts = append(opts, compiler.WithMaxInstructions(o.maxInstructions))
	}
	if o.logger != nil {
		opts = append(opts, compiler.WithLogger(*o.logger))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithEOF(o.eof)}
	if o.input != nil {
		opts = append(opts, vm.WithInput(o.input))
	}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.maxCells > 0 {
		opts = append(opts, vm.WithMaxCells(o.maxCells))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	return opts
}

// WithFilename sets the filename for the source code being compiled.
// This is used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithNamer sets the policy used to name compiled Functions.
func WithNamer(namer compiler.Namer) Option {
	return func(o *options) {
		o.namer = namer
	}
}

// WithMinCells sets the number of cells a fresh tape starts with.
func WithMinCells(n int) Option {
	return func(o *options) {
		o.minCells = n
	}
}

// WithMaxInstructions limits the number of instructions a program may
// compile to.
func WithMaxInstructions(n int) Option {
	return func(o *options) {
		o.maxInstructions = n
	}
}

// WithInput sets the source for the input instruction. The default is
// os.Stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) {
		o.input = r
	}
}

// WithOutput sets the sink for the output instruction. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithEOF sets what the input instruction does at end of input.
func WithEOF(policy vm.EOFPolicy) Option {
	return func(o *options) {
		o.eof = policy
	}
}

// WithMaxCells bounds tape growth.
func WithMaxCells(n int) Option {
	return func(o *options) {
		o.maxCells = n
	}
}

// WithObserver sets an observer for VM execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger used by both the compiler and the VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// Compile compiles source code into an executable Function.
// The returned Function is immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*bytecode.Function, error) {
	o := collectOptions(opts...)
	return compiler.Compile(source, o.compilerOpts()...)
}

// Run executes a compiled Function on a fresh tape and returns the tape.
// Each call creates fresh runtime state, allowing concurrent execution of
// the same Function.
func Run(ctx context.Context, fn *bytecode.Function, opts ...Option) (*vm.Tape, error) {
	o := collectOptions(opts...)
	return vm.Run(ctx, fn, o.vmOpts()...)
}

// Eval is a convenience function that compiles and runs source code.
// It is equivalent to Compile() followed by Run().
func Eval(ctx context.Context, source string, opts ...Option) (*vm.Tape, error) {
	fn, err := Compile(source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, fn, opts...)
}

// Exec compiles and runs source with input as the program's input and
// returns everything the program wrote. Output produced before a runtime
// fault is returned along with the error. WithInput and WithOutput are
// overridden.
func Exec(ctx context.Context, source string, input []byte, opts ...Option) ([]byte, error) {
	var out bytes.Buffer
	opts = append(opts, WithInput(bytes.NewReader(input)), WithOutput(&out))
	_, err := Eval(ctx, source, opts...)
	return out.Bytes(), err
}
