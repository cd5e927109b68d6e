// Package op defines opcodes used by the tapevm compiler and virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Data pointer
	PointerRight Code = 1
	PointerLeft  Code = 2

	// Cell arithmetic
	Increment Code = 10
	Decrement Code = 11

	// I/O
	Output Code = 20
	Input  Code = 21

	// Loops
	LoopEnter Code = 30
	LoopExit  Code = 31
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	Symbol       byte
	OperandCount int
}

var (
	infos   = make([]Info, 256)
	symbols = make([]Code, 256)
	codes   []Code
)

func init() {
	type opInfo struct {
		op     Code
		name   string
		symbol byte
		count  int
	}
	ops := []opInfo{
		{PointerRight, "POINTER_RIGHT", '>', 0},
		{PointerLeft, "POINTER_LEFT", '<', 0},
		{Increment, "INCREMENT", '+', 0},
		{Decrement, "DECREMENT", '-', 0},
		{Output, "OUTPUT", '.', 0},
		{Input, "INPUT", ',', 0},
		{LoopEnter, "LOOP_ENTER", '[', 1},
		{LoopExit, "LOOP_EXIT", ']', 1},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:         o.op,
			Name:         o.name,
			Symbol:       o.symbol,
			OperandCount: o.count,
		}
		symbols[o.symbol] = o.op
		codes = append(codes, o.op)
	}
}

// Codes returns the eight instruction opcodes in table order.
func Codes() []Code {
	out := make([]Code, len(codes))
	copy(out, codes)
	return out
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// FromSymbol returns the opcode for a source character, or Invalid if the
// character is commentary.
func FromSymbol(c byte) Code {
	return symbols[c]
}

// IsValid reports whether the opcode is one of the eight instructions.
func (c Code) IsValid() bool {
	return infos[c].Name != ""
}

// IsLoop reports whether the opcode carries a partner operand.
func (c Code) IsLoop() bool {
	return c == LoopEnter || c == LoopExit
}

// String returns the opcode name.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}
