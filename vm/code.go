package vm

import (
	"fmt"

	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/op"
)

// code is a Function's body decoded for dispatch. Decoding does not
// validate; opcodes and loop partners are checked as they execute, so a
// bad record is only reported if execution reaches it.
type code struct {
	fn           *bytecode.Function
	instructions []bytecode.Instruction
	truncated    bool
}

func loadCode(fn *bytecode.Function) *code {
	c := &code{
		fn:           fn,
		instructions: make([]bytecode.Instruction, fn.InstructionCount()),
		truncated:    fn.BodySize()%bytecode.RecordSize != 0,
	}
	for i := range c.instructions {
		c.instructions[i] = fn.InstructionAt(i)
	}
	return c
}

// partner returns the record a loop instruction at ip jumps to, after
// checking the link is consistent in both directions.
func (c *code) partner(ip int) (int, error) {
	inst := c.instructions[ip]
	want := op.LoopExit
	if inst.Op == op.LoopExit {
		want = op.LoopEnter
	}
	p := inst.Operand
	if uint64(p) >= uint64(len(c.instructions)) {
		return 0, fmt.Errorf("%s partner %d out of range", inst.Op, p)
	}
	target := int(p)
	if want == op.LoopExit && target <= ip || want == op.LoopEnter && target >= ip {
		return 0, fmt.Errorf("%s partner %d on wrong side", inst.Op, target)
	}
	back := c.instructions[target]
	if back.Op != want {
		return 0, fmt.Errorf("%s partner %d is %s", inst.Op, target, back.Op)
	}
	if uint64(back.Operand) != uint64(ip) {
		return 0, fmt.Errorf("%s partner %d does not link back", inst.Op, target)
	}
	return target, nil
}
