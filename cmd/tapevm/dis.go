package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
	"github.com/tapevm/tapevm/dis"
)

func disHandler(cmd *cobra.Command, args []string) error {
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
	instructions, err := dis.Disassemble(fn)
	if err != nil {
		return err
	}
	if format == "json" {
		out, err := getOutputJSON(cmd.OutOrStdout(), instructions)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	dis.Print(instructions, cmd.OutOrStdout())
	return nil
}
