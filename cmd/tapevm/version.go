package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
)

func versionHandler(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	if format == "json" {
		out, err := getOutputJSON(cmd.OutOrStdout(), map[string]any{
			"version":  version,
			"commit":   commit,
			"date":     date,
			"language": tapevm.Version,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tapevm %s (commit %s, built %s, language %s)\n",
		version, commit, date, tapevm.Version)
	return nil
}
