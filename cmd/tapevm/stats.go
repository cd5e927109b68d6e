package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
	"github.com/tapevm/tapevm/bytecode"
)

type functionStats struct {
	Name string `json:"name"`
	bytecode.Stats
}

func statsHandler(cmd *cobra.Command, args []string) error {
	code, name, err := getCode(cmd, args)
	if err != nil {
		return err
	}
	format, err := outputFormat()
	if err != nil {
		return err
	}
	opts, err := getOptions()
	if err != nil {
		return err
	}
	fn, err := tapevm.Compile(code, append(opts, tapevm.WithFilename(name))...)
	if err != nil {
		return err
	}
	stats := functionStats{Name: fn.Name(), Stats: fn.Stats()}
	w := cmd.OutOrStdout()
	if format == "json" {
		out, err := getOutputJSON(w, stats)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
		return nil
	}
	fmt.Fprintf(w, "name:           %s\n", stats.Name)
	fmt.Fprintf(w, "instructions:   %d\n", stats.InstructionCount)
	fmt.Fprintf(w, "loops:          %d\n", stats.LoopCount)
	fmt.Fprintf(w, "max loop depth: %d\n", stats.MaxLoopDepth)
	fmt.Fprintf(w, "lines:          %d\n", stats.LineCount)
	fmt.Fprintf(w, "source bytes:   %d\n", stats.SourceBytes)
	fmt.Fprintf(w, "min cells:      %d\n", stats.MinCells)
	return nil
}
