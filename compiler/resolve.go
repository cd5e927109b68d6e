package compiler

import (
	"fmt"

	"github.com/tapevm/tapevm/op"
)

// noPartner marks symbols that are not loop brackets.
const noPartner = -1

// resolve maps each loop bracket to the symbol index of its partner. The
// input has already been validated by scan, so an imbalance here means the
// symbol stream was corrupted between stages.
func (c *Compiler) resolve(symbols []symbol) ([]int, error) {
	partners := make([]int, len(symbols))
	c.dataBlock.Release()
	defer c.dataBlock.Release()
	for i, sym := range symbols {
		partners[i] = noPartner
		switch sym.code {
		case op.LoopEnter:
			c.dataBlock.AddTail(pending{index: i, sym: sym})
		case op.LoopExit:
			open, ok := c.dataBlock.PopTail()
			if !ok {
				return nil, fmt.Errorf("compile error: loop exit at %s has no partner", sym.loc)
			}
			partners[open.index] = i
			partners[i] = open.index
		}
	}
	if c.dataBlock.Len() > 0 {
		open, _ := c.dataBlock.Head()
		return nil, fmt.Errorf("compile error: loop enter at %s has no partner", open.sym.loc)
	}
	return partners, nil
}
