package bytecode

// Stats contains statistics about a compiled function.
// This is useful for auditing programs before execution.
type Stats struct {
	// InstructionCount is the total number of bytecode records.
	InstructionCount int `json:"instructions"`

	// LoopCount is the number of loops (LOOP_ENTER records).
	LoopCount int `json:"loops"`

	// MaxLoopDepth is the deepest loop nesting level.
	MaxLoopDepth int `json:"max_loop_depth"`

	// LineCount is the number of lines in the source.
	LineCount int `json:"lines"`

	// SourceBytes is the size of the original source code in bytes.
	SourceBytes int `json:"source_bytes"`

	// MinCells is the initial tape size the function asks for.
	MinCells int `json:"min_cells"`
}
