package compiler

import "github.com/rs/zerolog"

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithFilename sets the source filename, used in error messages.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithMinCells sets the initial tape size recorded on compiled Functions.
func WithMinCells(n int) Option {
	return func(c *Compiler) {
		c.minCells = n
	}
}

// WithMaxInstructions lowers the instruction limit. Sources with more
// instruction symbols fail with E2001.
func WithMaxInstructions(n int) Option {
	return func(c *Compiler) {
		if n > 0 && n < MaxInstructions {
			c.maxInstructions = n
		}
	}
}

// WithNamer replaces the policy used to name compiled Functions.
func WithNamer(namer Namer) Option {
	return func(c *Compiler) {
		if namer != nil {
			c.namer = namer
		}
	}
}

// WithLogger sets the logger for compile events. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}
