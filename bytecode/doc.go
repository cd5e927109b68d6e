// Package bytecode provides immutable representations of compiled tapevm code.
//
// This package defines the output of compilation: a byte buffer of
// fixed-width instruction records and the named Function object built from
// it. Functions are created once during compilation and shared safely across
// multiple goroutines and VM instances.
//
// # Key Types
//
//   - [Buffer]: An append-only builder of instruction records
//   - [Function]: An immutable, named, compiled unit
//   - [Instruction]: One decoded record (value type)
//   - [SourceLocation]: Maps a record to its source symbol (value type)
//
// # Record Layout
//
// Every record occupies [RecordSize] bytes:
//
//	+--------+--------+--------+--------+--------+
//	| opcode |        operand (uint32, LE)       |
//	+--------+--------+--------+--------+--------+
//
// The operand is zero for all instructions except LOOP_ENTER and LOOP_EXIT,
// where it holds the record index of the partner bracket.
//
// # Immutability Guarantees
//
// Function has no mutation methods. Its constructor copies input slices, and
// accessors return values or copies, never internal slices:
//
//	fn.InstructionAt(0)
//	fn.LocationAt(i)
//	fn.Bytes() // a copy
//
// Bytecode handed to [NewFunction] from outside the compiler is not
// verified here. The VM checks opcodes and loop partners as it executes.
package bytecode
