package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapevm/tapevm/op"
)

func TestBufferAppendAndPatch(t *testing.T) {
	var b Buffer
	assert.Equal(t, 0, b.Len())

	enter := b.Append(op.LoopEnter, 0)
	b.Append(op.Decrement, 0)
	exit := b.Append(op.LoopExit, uint32(enter))
	b.Patch(enter, uint32(exit))

	require.Equal(t, 3, b.Len())
	assert.Equal(t, Instruction{Op: op.LoopEnter, Operand: 2}, b.At(0))
	assert.Equal(t, Instruction{Op: op.Decrement}, b.At(1))
	assert.Equal(t, Instruction{Op: op.LoopExit, Operand: 0}, b.At(2))
	assert.Equal(t, 2, b.At(0).Partner())
}

func TestBufferEncoding(t *testing.T) {
	b := NewBuffer(2)
	b.Append(op.Output, 0)
	b.Append(op.LoopExit, 0x01020304)
	assert.Equal(t, []byte{
		byte(op.Output), 0, 0, 0, 0,
		byte(op.LoopExit), 0x04, 0x03, 0x02, 0x01,
	}, b.Bytes())
}

func TestBufferBytesIsCopy(t *testing.T) {
	var b Buffer
	b.Append(op.Increment, 0)
	data := b.Bytes()
	data[0] = byte(op.Decrement)
	assert.Equal(t, op.Increment, b.At(0).Op)
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "INCREMENT", Instruction{Op: op.Increment}.String())
	assert.Equal(t, "LOOP_ENTER 7", Instruction{Op: op.LoopEnter, Operand: 7}.String())
}
