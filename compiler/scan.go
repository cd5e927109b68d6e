package compiler

import (
	"fmt"
	"unicode/utf8"

	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/errors"
	"github.com/tapevm/tapevm/op"
)

// symbol is one recognized instruction character.
type symbol struct {
	code   op.Code
	loc    bytecode.SourceLocation
	offset int
}

// scan classifies every character of the source, updates the line, symbol
// and cursor counters and checks that loop brackets are balanced.
func (c *Compiler) scan() ([]symbol, error) {
	src := c.source
	symbols := make([]symbol, 0, src.Len())
	column := 0
	if src.Len() > 0 {
		c.lines = 1
	}
	for c.cursor < src.Len() {
		ch := src.At(c.cursor)
		offset := c.cursor
		c.cursor++
		if utf8.RuneStart(ch) {
			column++
		}
		if ch == '\n' {
			c.lines++
			column = 0
			continue
		}
		code := op.FromSymbol(ch)
		if code == op.Invalid {
			continue
		}
		sym := symbol{
			code:   code,
			loc:    bytecode.SourceLocation{Line: c.lines, Column: column},
			offset: offset,
		}
		if c.symbols >= c.maxInstructions {
			return nil, c.syntaxError(errors.E2001,
				fmt.Sprintf("program exceeds %d instructions", c.maxInstructions), sym)
		}
		switch code {
		case op.LoopEnter:
			c.dataBlock.AddTail(pending{index: len(symbols), sym: sym})
		case op.LoopExit:
			if _, ok := c.dataBlock.PopTail(); !ok {
				return nil, c.syntaxError(errors.E1001, "unmatched ']'", sym)
			}
		}
		c.symbols++
		symbols = append(symbols, sym)
	}
	if c.dataBlock.Len() > 0 {
		c.logger.Debug().Stringer("pending", c.dataBlock).Msg("unclosed loops")
		first, _ := c.dataBlock.Head()
		c.dataBlock.Release()
		return nil, c.syntaxError(errors.E1002, "unclosed '['", first.sym)
	}
	return symbols, nil
}
