// Package dis renders compiled Functions as a table of instructions.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/op"
)

// Instruction is one disassembled record.
type Instruction struct {
	Offset   int     `json:"offset"`
	Name     string  `json:"name"`
	Opcode   op.Code `json:"opcode"`
	Operands []int   `json:"operands,omitempty"`
	Info     string  `json:"info,omitempty"`
}

// Disassemble decodes every record of fn. Loop records list their partner
// as the single operand. Info holds the source location of the record when
// the Function carries a source map.
func Disassemble(fn *bytecode.Function) ([]Instruction, error) {
	if rem := fn.BodySize() % bytecode.RecordSize; rem != 0 {
		return nil, fmt.Errorf("dis: body of %s has %d trailing bytes", fn.Name(), rem)
	}
	count := fn.InstructionCount()
	instructions := make([]Instruction, 0, count)
	for ip := 0; ip < count; ip++ {
		inst := fn.InstructionAt(ip)
		info := op.GetInfo(inst.Op)
		if info.Name == "" {
			return nil, fmt.Errorf("dis: unknown opcode %d at offset %d", inst.Op, ip)
		}
		var operands []int
		if info.OperandCount > 0 {
			operands = []int{inst.Partner()}
		}
		var note string
		if loc := fn.LocationAt(ip); !loc.IsZero() {
			note = loc.String()
		}
		instructions = append(instructions, Instruction{
			Offset:   ip,
			Name:     info.Name,
			Opcode:   inst.Op,
			Operands: operands,
			Info:     note,
		})
	}
	return instructions, nil
}

var headerColor = color.New(color.Bold)

// Print writes instructions as a bordered table. Colors follow the
// color.NoColor setting.
func Print(instructions []Instruction, writer io.Writer) {
	headers := []string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}
	rows := make([][]string, 0, len(instructions))
	for _, instr := range instructions {
		operands := make([]string, 0, len(instr.Operands))
		for _, o := range instr.Operands {
			operands = append(operands, strconv.Itoa(o))
		}
		rows = append(rows, []string{
			strconv.Itoa(instr.Offset),
			instr.Name,
			strings.Join(operands, ", "),
			instr.Info,
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	// Numeric columns align right.
	rightAlign := []bool{true, false, true, false}

	border := borderLine(widths)
	fmt.Fprintln(writer, border)
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = headerColor.Sprint(center(h, widths[i]))
	}
	fmt.Fprintln(writer, "| "+strings.Join(cells, " | ")+" |")
	fmt.Fprintln(writer, border)
	for _, row := range rows {
		for i, cell := range row {
			if rightAlign[i] {
				cells[i] = fmt.Sprintf("%*s", widths[i], cell)
			} else {
				cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
			}
		}
		fmt.Fprintln(writer, "| "+strings.Join(cells, " | ")+" |")
	}
	fmt.Fprintln(writer, border)
}

func borderLine(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	return b.String()
}

func center(s string, width int) string {
	pad := width - len(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
