package vm

import (
	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	// Use for: detailed tracing, instruction-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	// Use for: statistical profiling of long-running programs.
	StepSampled

	// StepOnLine calls OnStep when the source line changes.
	// Use for: coverage tools, line-level debugging.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int
}

// NewObserverConfig creates a config with safe defaults.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer receives execution events from a VirtualMachine. It can be used
// for tracing, profiling or coverage without touching the engine.
//
// Observer methods are called synchronously on the executing goroutine, so
// implementations should be fast.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when a run starts.
	Config() ObserverConfig

	// OnStep is called before an instruction executes, based on the
	// StepMode in the observer's config. Returns false to halt execution.
	OnStep(event StepEvent) bool
}

// StepEvent describes the instruction about to execute.
type StepEvent struct {
	// IP is the index of the instruction record.
	IP int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Location is the source location of the instruction, if known.
	Location bytecode.SourceLocation

	// DP is the data pointer.
	DP int

	// Cell is the value of the cell under the data pointer.
	Cell byte

	// Step counts the instructions executed so far in this run.
	Step int64
}

// NoOpObserver is an Observer that does nothing. Embed it to pick up a
// default Config (StepAll).
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

var _ Observer = NoOpObserver{}

// stepFilter decides which steps reach the observer.
type stepFilter struct {
	cfg      ObserverConfig
	lastLine int
}

func newStepFilter(cfg ObserverConfig) *stepFilter {
	return &stepFilter{cfg: NormalizeConfig(cfg), lastLine: -1}
}

func (f *stepFilter) wants(step int64, loc bytecode.SourceLocation) bool {
	switch f.cfg.StepMode {
	case StepAll:
		return true
	case StepSampled:
		return step%int64(f.cfg.SampleInterval) == 0
	case StepOnLine:
		if loc.Line == f.lastLine {
			return false
		}
		f.lastLine = loc.Line
		return true
	default:
		return false
	}
}
