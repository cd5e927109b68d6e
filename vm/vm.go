// Package vm provides a VirtualMachine that executes compiled tapevm
// Functions.
//
// A VirtualMachine is one invocation of a Function: it owns the instruction
// pointer, the data pointer and a Tape. The Function itself is read-only, so
// any number of machines may run the same Function concurrently.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/errors"
	"github.com/tapevm/tapevm/op"
)

const (
	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// State is the lifecycle state of a VirtualMachine.
type State int32

const (
	// Ready means the machine has not run yet, or was Reset.
	Ready State = iota
	// Running means Run is executing.
	Running
	// Halted means the instruction pointer passed the last record.
	Halted
	// Faulted means the run stopped with a runtime error.
	Faulted
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

type VirtualMachine struct {
	ip      int // instruction pointer
	dp      int // data pointer
	steps   int64
	state   atomic.Int32
	halt    atomic.Bool
	fn      *bytecode.Function
	code    *code
	tape    *Tape
	ownTape bool
	runID   uuid.UUID
	err     error

	input    io.Reader
	output   io.Writer
	eof      EOFPolicy
	maxCells int
	scratch  [1]byte

	// contextCheckInterval is the number of instructions between deterministic
	// checks of ctx.Done(). Default is DefaultContextCheckInterval.
	contextCheckInterval int

	// observer receives step events. If nil, no callbacks are made.
	observer Observer
	filter   *stepFilter

	logger zerolog.Logger
}

// New creates a new Virtual Machine ready to run fn.
func New(fn *bytecode.Function, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		fn:                   fn,
		ownTape:              true,
		input:                os.Stdin,
		output:               os.Stdout,
		contextCheckInterval: DefaultContextCheckInterval,
		logger:               zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// Run executes the Function until it halts, faults or ctx is cancelled. It
// may only be called in the Ready state; use Reset to run again. Faults are
// returned as *errors.RuntimeError and leave the machine Faulted.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.fn == nil {
		return fmt.Errorf("no function to run")
	}
	if !vm.state.CompareAndSwap(int32(Ready), int32(Running)) {
		return fmt.Errorf("vm is %s, not ready", vm.State())
	}
	vm.halt.Store(false)
	stop := context.AfterFunc(ctx, func() { vm.halt.Store(true) })
	defer stop()

	vm.runID = newRunID()
	log := vm.logger.With().
		Str("run_id", vm.runID.String()).
		Str("function", vm.fn.Name()).
		Logger()
	log.Debug().Int("instructions", vm.fn.InstructionCount()).Msg("run started")

	defer func() {
		if r := recover(); r != nil {
			err = vm.fault(errors.MalformedBytecode, fmt.Sprintf("panic: %v", r), nil)
		}
		vm.err = err
		if err != nil {
			vm.state.Store(int32(Faulted))
			log.Debug().Err(err).Int("ip", vm.ip).Int("dp", vm.dp).Int64("steps", vm.steps).Msg("run faulted")
			return
		}
		vm.state.Store(int32(Halted))
		log.Debug().Int64("steps", vm.steps).Int("cells", vm.tape.Len()).Msg("run halted")
	}()

	if err := vm.prepare(); err != nil {
		return err
	}
	return vm.eval(ctx)
}

// prepare decodes the body and sets up the tape.
func (vm *VirtualMachine) prepare() error {
	vm.code = loadCode(vm.fn)
	if vm.code.truncated {
		vm.ip = len(vm.code.instructions)
		return vm.fault(errors.MalformedBytecode,
			fmt.Sprintf("body size %d is not a multiple of %d", vm.fn.BodySize(), bytecode.RecordSize), nil)
	}
	minCells := vm.fn.MinCells()
	if vm.tape == nil {
		if vm.maxCells > 0 && minCells > vm.maxCells {
			return vm.fault(errors.TapeLimit,
				fmt.Sprintf("function needs %d cells, limit is %d", minCells, vm.maxCells), nil)
		}
		vm.tape = NewTape(minCells)
	} else if !vm.tape.ensure(minCells, vm.maxCells) {
		return vm.fault(errors.TapeLimit,
			fmt.Sprintf("function needs %d cells, limit is %d", minCells, vm.maxCells), nil)
	}
	if vm.observer != nil {
		vm.filter = newStepFilter(vm.observer.Config())
	}
	return nil
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	// Instruction counter for deterministic context checking
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()
	instructions := vm.code.instructions

	for vm.ip < len(instructions) {

		if vm.halt.Load() {
			return vm.fault(errors.Cancelled, "execution cancelled", context.Cause(ctx))
		}

		// Deterministic check of ctx.Done() every N instructions.
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					vm.halt.Store(true)
					return vm.fault(errors.Cancelled, "execution cancelled", context.Cause(ctx))
				default:
				}
			}
		}

		inst := instructions[vm.ip]

		if vm.observer != nil {
			loc := vm.fn.LocationAt(vm.ip)
			if vm.filter.wants(vm.steps, loc) {
				event := StepEvent{
					IP:         vm.ip,
					Opcode:     inst.Op,
					OpcodeName: op.GetInfo(inst.Op).Name,
					Location:   loc,
					DP:         vm.dp,
					Cell:       vm.tape.cells[vm.dp],
					Step:       vm.steps,
				}
				if !vm.observer.OnStep(event) {
					return vm.fault(errors.Cancelled, "execution halted by observer", nil)
				}
			}
		}
		vm.steps++

		switch inst.Op {
		case op.PointerRight:
			if !vm.tape.ensure(vm.dp+2, vm.maxCells) {
				return vm.fault(errors.TapeLimit,
					fmt.Sprintf("data pointer moved past cell %d", vm.maxCells-1), nil)
			}
			vm.dp++
		case op.PointerLeft:
			if vm.dp == 0 {
				return vm.fault(errors.TapeUnderflow, "data pointer moved below cell 0", nil)
			}
			vm.dp--
		case op.Increment:
			vm.tape.cells[vm.dp]++
		case op.Decrement:
			vm.tape.cells[vm.dp]--
		case op.Output:
			if err := vm.write(vm.tape.cells[vm.dp]); err != nil {
				return vm.fault(errors.IO, "write failed", err)
			}
		case op.Input:
			if err := vm.read(); err != nil {
				return err
			}
		case op.LoopEnter:
			partner, err := vm.code.partner(vm.ip)
			if err != nil {
				return vm.fault(errors.MalformedBytecode, err.Error(), nil)
			}
			if vm.tape.cells[vm.dp] == 0 {
				vm.ip = partner + 1
				continue
			}
		case op.LoopExit:
			partner, err := vm.code.partner(vm.ip)
			if err != nil {
				return vm.fault(errors.MalformedBytecode, err.Error(), nil)
			}
			if vm.tape.cells[vm.dp] != 0 {
				vm.ip = partner + 1
				continue
			}
		default:
			return vm.fault(errors.MalformedBytecode, fmt.Sprintf("unknown opcode %d", inst.Op), nil)
		}
		vm.ip++
	}
	return nil
}

func (vm *VirtualMachine) write(b byte) error {
	if bw, ok := vm.output.(io.ByteWriter); ok {
		return bw.WriteByte(b)
	}
	vm.scratch[0] = b
	_, err := vm.output.Write(vm.scratch[:])
	return err
}

func (vm *VirtualMachine) read() error {
	var (
		b   byte
		err error
	)
	if br, ok := vm.input.(io.ByteReader); ok {
		b, err = br.ReadByte()
	} else {
		_, err = io.ReadFull(vm.input, vm.scratch[:])
		b = vm.scratch[0]
	}
	switch {
	case err == nil:
		vm.tape.cells[vm.dp] = b
	case err == io.EOF:
		switch vm.eof {
		case EOFZero:
			vm.tape.cells[vm.dp] = 0
		case EOFFault:
			return vm.fault(errors.IO, "unexpected end of input", err)
		}
	default:
		return vm.fault(errors.IO, "read failed", err)
	}
	return nil
}

// fault builds the runtime error for the instruction at the current ip.
func (vm *VirtualMachine) fault(kind errors.FaultKind, msg string, cause error) *errors.RuntimeError {
	loc := vm.fn.LocationAt(vm.ip)
	return &errors.RuntimeError{
		Kind:     kind,
		Message:  msg,
		Function: vm.fn.Name(),
		IP:       vm.ip,
		DP:       vm.dp,
		Line:     loc.Line,
		Column:   loc.Column,
		Source:   vm.fn.GetSourceLine(loc.Line),
		Cause:    cause,
	}
}

// Reset returns a finished machine to Ready with both pointers at zero. A
// tape supplied with WithTape is kept as is; otherwise the next run starts
// on a fresh tape.
func (vm *VirtualMachine) Reset() error {
	st := vm.State()
	if st == Running {
		return fmt.Errorf("vm is running")
	}
	vm.ip, vm.dp, vm.steps = 0, 0, 0
	vm.err = nil
	if vm.ownTape {
		vm.tape = nil
	}
	vm.state.Store(int32(Ready))
	return nil
}

// State returns the current lifecycle state.
func (vm *VirtualMachine) State() State {
	return State(vm.state.Load())
}

// Function returns the Function this machine runs.
func (vm *VirtualMachine) Function() *bytecode.Function {
	return vm.fn
}

// Tape returns the tape of the current or last run. It is nil before the
// first run unless one was supplied with WithTape. Do not read it while the
// machine is Running.
func (vm *VirtualMachine) Tape() *Tape {
	return vm.tape
}

// IP returns the instruction pointer. After a fault it indexes the faulting
// instruction.
func (vm *VirtualMachine) IP() int {
	return vm.ip
}

// DP returns the data pointer.
func (vm *VirtualMachine) DP() int {
	return vm.dp
}

// Steps returns the number of instructions executed by the last run.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}

// Err returns the fault of the last run, or nil.
func (vm *VirtualMachine) Err() error {
	return vm.err
}

// RunID returns the identifier assigned to the last run, used to correlate
// log events.
func (vm *VirtualMachine) RunID() uuid.UUID {
	return vm.runID
}

func newRunID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil
	}
	return id
}
