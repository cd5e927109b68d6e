package bytecode

import (
	"encoding/binary"
	"fmt"

	"github.com/tapevm/tapevm/op"
)

// RecordSize is the encoded width of one instruction record in bytes.
const RecordSize = 5

// Instruction is a single decoded bytecode record.
type Instruction struct {
	Op      op.Code
	Operand uint32
}

// Partner returns the record index of the matching bracket. Only meaningful
// for loop instructions.
func (i Instruction) Partner() int {
	return int(i.Operand)
}

// String returns a human-readable form such as "LOOP_ENTER 4".
func (i Instruction) String() string {
	if i.Op.IsLoop() {
		return fmt.Sprintf("%s %d", i.Op, i.Operand)
	}
	return i.Op.String()
}

// Buffer accumulates fixed-width instruction records. The zero value is an
// empty buffer ready to use.
type Buffer struct {
	data []byte
}

// NewBuffer returns a buffer with room for n records.
func NewBuffer(n int) *Buffer {
	return &Buffer{data: make([]byte, 0, n*RecordSize)}
}

// Append adds a record and returns its index.
func (b *Buffer) Append(code op.Code, operand uint32) int {
	index := len(b.data) / RecordSize
	var rec [RecordSize]byte
	encodeRecord(rec[:], code, operand)
	b.data = append(b.data, rec[:]...)
	return index
}

// Patch replaces the operand of the record at index.
func (b *Buffer) Patch(index int, operand uint32) {
	off := index * RecordSize
	binary.LittleEndian.PutUint32(b.data[off+1:off+RecordSize], operand)
}

// Len returns the number of records.
func (b *Buffer) Len() int {
	return len(b.data) / RecordSize
}

// At decodes the record at index.
func (b *Buffer) At(index int) Instruction {
	return decodeRecord(b.data, index)
}

// Bytes returns a copy of the encoded records.
func (b *Buffer) Bytes() []byte {
	return copyBytes(b.data)
}

func encodeRecord(dst []byte, code op.Code, operand uint32) {
	dst[0] = byte(code)
	binary.LittleEndian.PutUint32(dst[1:RecordSize], operand)
}

func decodeRecord(data []byte, index int) Instruction {
	off := index * RecordSize
	return Instruction{
		Op:      op.Code(data[off]),
		Operand: binary.LittleEndian.Uint32(data[off+1 : off+RecordSize]),
	}
}
