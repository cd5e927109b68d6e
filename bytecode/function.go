package bytecode

import (
	"strings"

	"github.com/tapevm/tapevm/op"
)

// DefaultMinCells is the tape size a Function asks for when none is given.
const DefaultMinCells = 1

// Function represents a compiled program bound to a name.
// It is immutable after creation and safe for concurrent use.
type Function struct {
	name     string
	body     []byte
	minCells int
	source   string
	filename string

	// Source map: one location per record for error reporting
	locations []SourceLocation
}

// FunctionParams contains parameters for creating a new Function.
type FunctionParams struct {
	Name      string
	Body      []byte
	MinCells  int
	Source    string
	Filename  string
	Locations []SourceLocation
}

// NewFunction creates a new immutable Function from the given parameters.
// Input slices are copied to ensure immutability.
func NewFunction(params FunctionParams) *Function {
	minCells := params.MinCells
	if minCells < DefaultMinCells {
		minCells = DefaultMinCells
	}
	return &Function{
		name:      params.Name,
		body:      copyBytes(params.Body),
		minCells:  minCells,
		source:    params.Source,
		filename:  params.Filename,
		locations: copyLocations(params.Locations),
	}
}

// Name returns the function name.
func (f *Function) Name() string {
	return f.name
}

// MinCells returns the number of zeroed cells a fresh tape starts with.
func (f *Function) MinCells() int {
	return f.minCells
}

// Source returns the source text this function was compiled from.
func (f *Function) Source() string {
	return f.source
}

// Filename returns the source filename, if one was supplied.
func (f *Function) Filename() string {
	return f.filename
}

// InstructionCount returns the number of complete records in the body.
func (f *Function) InstructionCount() int {
	return len(f.body) / RecordSize
}

// InstructionAt decodes the record at the given index.
func (f *Function) InstructionAt(index int) Instruction {
	return decodeRecord(f.body, index)
}

// BodySize returns the body length in bytes. A size that is not a multiple
// of RecordSize indicates a truncated record.
func (f *Function) BodySize() int {
	return len(f.body)
}

// Bytes returns a copy of the encoded body.
func (f *Function) Bytes() []byte {
	return copyBytes(f.body)
}

// LocationAt returns the source location for the record at the given index.
func (f *Function) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(f.locations) {
		return SourceLocation{}
	}
	return f.locations[ip]
}

// LocationCount returns the number of recorded source locations.
func (f *Function) LocationCount() int {
	return len(f.locations)
}

// GetSourceLine returns the source line at the given 1-based line number.
func (f *Function) GetSourceLine(lineNum int) string {
	if f.source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(f.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[lineNum-1], "\r")
}

// Stats returns statistics about this function.
func (f *Function) Stats() Stats {
	var loops, depth, maxDepth int
	count := f.InstructionCount()
	for i := 0; i < count; i++ {
		switch f.InstructionAt(i).Op {
		case op.LoopEnter:
			loops++
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case op.LoopExit:
			if depth > 0 {
				depth--
			}
		}
	}
	lines := 0
	if f.source != "" {
		lines = strings.Count(f.source, "\n") + 1
	}
	return Stats{
		InstructionCount: count,
		LoopCount:        loops,
		MaxLoopDepth:     maxDepth,
		LineCount:        lines,
		SourceBytes:      len(f.source),
		MinCells:         f.minCells,
	}
}

// String returns a compact representation of the function, re-rendering the
// body as instruction symbols.
func (f *Function) String() string {
	var out strings.Builder
	out.WriteString("func ")
	out.WriteString(f.name)
	out.WriteString(" {")
	count := f.InstructionCount()
	if count > 0 {
		out.WriteByte(' ')
	}
	for i := 0; i < count; i++ {
		info := op.GetInfo(f.InstructionAt(i).Op)
		if info.Symbol == 0 {
			out.WriteByte('?')
			continue
		}
		out.WriteByte(info.Symbol)
	}
	out.WriteString(" }")
	return out.String()
}
