package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tapetest "github.com/tapevm/tapevm/testing"
	"github.com/tapevm/tapevm/vm"
)

var errTestsFailed = errors.New("tests failed")

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [pattern...]",
		Short: "Run *_test.bf programs against their expected output",
		Long: `Run *_test.bf programs against the .in, .out and .err files next to
them. Patterns may name files, directories, globs, or dir/... to search
recursively.`,
		RunE: testHandler,
	}
	cmd.Flags().String("run", "", "Only run cases matching this regular expression")
	cmd.Flags().Duration("timeout", 0, "Time limit for each case")
	return cmd
}

func testHandler(cmd *cobra.Command, args []string) error {
	eof, err := vm.ParseEOFPolicy(viper.GetString("eof"))
	if err != nil {
		return err
	}
	runPattern, _ := cmd.Flags().GetString("run")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	cfg := &tapetest.Config{
		Patterns:   args,
		RunPattern: runPattern,
		Verbose:    viper.GetBool("verbose"),
		Timeout:    timeout,
		EOF:        eof,
		MaxCells:   viper.GetInt("max-cells"),
	}
	summary, err := tapetest.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	tapetest.NewOutput(tapetest.OutputConfig{
		Writer:   cmd.OutOrStdout(),
		Verbose:  cfg.Verbose,
		UseColor: colorEnabled(cmd.OutOrStdout()),
	}).PrintResults(summary)
	if !summary.Success() {
		return errTestsFailed
	}
	return nil
}
