// Package compiler translates tapevm source text into bytecode Functions.
//
// # Pipeline
//
// Compilation runs four stages over an owned copy of the source:
//
//	source -> scan -> resolve -> emit -> bytecode.Function
//
// scan walks the text once. Each of the eight instruction symbols becomes a
// symbol record carrying its line and column; every other character is
// commentary and is skipped. Loop brackets are checked for balance with a
// pending stack held in the compiler's data block: a ']' with nothing pending
// fails at that ']', and anything still pending at the end fails at the
// earliest unclosed '['.
//
// resolve pairs every '[' with its ']' using the same stack discipline, so
// nested loops resolve innermost first.
//
// emit writes one record per symbol in two passes. The first pass appends
// every record, loops with a Placeholder operand, and notes the record index
// assigned to each symbol. The second pass patches each loop record with the
// record index of its partner.
//
// # Compiler Values
//
// A Compiler holds per-compilation state (the source copy, the data block
// and the line, symbol and cursor counters). It is reused across calls but
// is not safe for concurrent use; concurrent callers each construct their
// own. Compiled Functions share nothing with the Compiler that built them.
package compiler

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/errors"
	"github.com/tapevm/tapevm/internal/list"
)

const (
	// MaxInstructions is the largest number of records a Function may hold.
	// Loop operands are 32-bit record indexes.
	MaxInstructions = math.MaxInt32

	// Placeholder is a temporary operand written during emission, which is
	// always replaced before compilation is complete.
	Placeholder = uint32(math.MaxUint32)
)

// Compiler is the compiler context.
type Compiler struct {
	// Owned copy of the text being compiled
	source *Source

	// Scratch storage for pending loop brackets
	dataBlock *list.List[pending]

	// Scan progress
	lines   int
	symbols int
	cursor  int

	filename        string
	minCells        int
	maxInstructions int
	namer           Namer
	logger          zerolog.Logger
}

// New creates and returns a new Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		dataBlock:       list.New[pending](pendingHandler{}),
		minCells:        bytecode.DefaultMinCells,
		maxInstructions: MaxInstructions,
		namer:           LeadingIdentifier,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles source with a fresh Compiler.
func Compile(source string, opts ...Option) (*bytecode.Function, error) {
	return New(opts...).Compile(source)
}

// CreateFunctionFromSource copies source, compiles it and returns the
// resulting Function. The caller keeps ownership of source and may discard
// or reuse it as soon as this returns.
func (c *Compiler) CreateFunctionFromSource(source []byte) (*bytecode.Function, error) {
	return c.compile(NewSourceBytes(source))
}

// Compile compiles the given program text. On failure no Function is
// returned and the error is a *errors.CompileError.
func (c *Compiler) Compile(source string) (*bytecode.Function, error) {
	return c.compile(NewSource(source))
}

func (c *Compiler) compile(src *Source) (*bytecode.Function, error) {
	c.reset()
	c.source = src

	symbols, err := c.scan()
	if err != nil {
		c.logger.Debug().Err(err).Str("filename", c.filename).Msg("compile failed")
		return nil, err
	}
	partners, err := c.resolve(symbols)
	if err != nil {
		return nil, err
	}
	body, locations := c.emit(symbols, partners)

	fn := bytecode.NewFunction(bytecode.FunctionParams{
		Name:      c.namer.Name(src.String()),
		Body:      body.Bytes(),
		MinCells:  c.minCells,
		Source:    src.String(),
		Filename:  c.filename,
		Locations: locations,
	})
	c.logger.Debug().
		Str("name", fn.Name()).
		Str("filename", c.filename).
		Int("lines", c.lines).
		Int("symbols", c.symbols).
		Int("instructions", fn.InstructionCount()).
		Msg("compiled function")
	return fn, nil
}

// reset clears per-compilation state.
func (c *Compiler) reset() {
	c.source = nil
	c.dataBlock.Release()
	c.lines = 0
	c.symbols = 0
	c.cursor = 0
}

// Reset releases the source copy and scratch storage held from the last
// compilation. The Compiler remains usable.
func (c *Compiler) Reset() {
	c.reset()
}

// Source returns the text of the last compilation.
func (c *Compiler) Source() string {
	if c.source == nil {
		return ""
	}
	return c.source.String()
}

// Lines returns the number of lines scanned by the last compilation.
func (c *Compiler) Lines() int {
	return c.lines
}

// Symbols returns the number of instruction symbols recognized by the last
// compilation. Commentary characters are not counted.
func (c *Compiler) Symbols() int {
	return c.symbols
}

// Cursor returns the byte offset the last scan reached.
func (c *Compiler) Cursor() int {
	return c.cursor
}

func (c *Compiler) syntaxError(code errors.ErrorCode, msg string, s symbol) *errors.CompileError {
	return &errors.CompileError{
		Code:       code,
		Message:    msg,
		Filename:   c.filename,
		Line:       s.loc.Line,
		Column:     s.loc.Column,
		Offset:     s.offset,
		SourceLine: c.source.Line(s.loc.Line),
	}
}

// pending is a loop-enter symbol waiting for its partner.
type pending struct {
	index int // symbol index
	sym   symbol
}

type pendingHandler struct{}

func (pendingHandler) Release(pending) {}

func (pendingHandler) Describe(p pending) string {
	return fmt.Sprintf("[@%s", p.sym.loc)
}
