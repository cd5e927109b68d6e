package compiler

import (
	"github.com/tapevm/tapevm/bytecode"
)

// emit writes one record per symbol. Loop records are first written with a
// Placeholder and patched once every symbol has a record index.
func (c *Compiler) emit(symbols []symbol, partners []int) (*bytecode.Buffer, []bytecode.SourceLocation) {
	buf := bytecode.NewBuffer(len(symbols))
	locations := make([]bytecode.SourceLocation, 0, len(symbols))
	emitted := make([]int, len(symbols))

	for i, sym := range symbols {
		operand := uint32(0)
		if sym.code.IsLoop() {
			operand = Placeholder
		}
		emitted[i] = buf.Append(sym.code, operand)
		locations = append(locations, sym.loc)
	}
	for i, sym := range symbols {
		if !sym.code.IsLoop() {
			continue
		}
		buf.Patch(emitted[i], uint32(emitted[partners[i]]))
	}
	return buf, locations
}
