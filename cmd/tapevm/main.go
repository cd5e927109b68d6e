package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tapevm [file]",
		Short: "Compile and run tape language programs",
		Long: `tapevm compiles programs written in the eight-symbol tape language
(> < + - . , [ ]) to bytecode and runs them. Every other character is
commentary.

Run a file, pass code with -c, or pipe code in with --stdin.`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
		RunE:              runHandler,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default $HOME/.tapevm.yaml)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.BoolP("verbose", "v", false, "Log compile and run events to stderr")
	pf.String("eof", "unchanged", "End-of-input policy: unchanged, zero or fault")
	pf.Int("min-cells", 0, "Initial tape size")
	pf.Int("max-cells", 0, "Maximum tape size (0 for unbounded)")
	pf.Int("max-instructions", 0, "Maximum program size in instructions")
	pf.StringP("output", "o", "text", "Output format: text or json")
	for _, name := range []string{
		"config", "no-color", "verbose", "eof", "min-cells",
		"max-cells", "max-instructions", "output",
	} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
	_ = root.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	_ = root.RegisterFlagCompletionFunc("eof", cobra.FixedCompletions([]string{"unchanged", "zero", "fault"}, cobra.ShellCompDirectiveNoFileComp))

	addRunFlags(root)
	root.AddCommand(
		newRunCmd(),
		newDisCmd(),
		newCheckCmd(),
		newStatsCmd(),
		newTestCmd(),
		newBenchCmd(),
		newReplCmd(),
		newDocsCmd(),
		newVersionCmd(),
	)
	return root
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "Code to compile")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
}

func addRunFlags(cmd *cobra.Command) {
	addSourceFlags(cmd)
	cmd.Flags().String("input", "", "File to use as program input (default stdin)")
	cmd.Flags().Bool("timing", false, "Show execution time")
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Compile and run a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHandler,
	}
	addRunFlags(cmd)
	return cmd
}

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble a program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  disHandler,
	}
	addSourceFlags(cmd)
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check file...",
		Short: "Check that programs compile",
		Args:  cobra.MinimumNArgs(1),
		RunE:  checkHandler,
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Show program statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  statsHandler,
	}
	addSourceFlags(cmd)
	return cmd
}

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "docs [topic]",
		Aliases: []string{"doc"},
		Short:   "Show language documentation",
		Args:    cobra.MaximumNArgs(1),
		RunE:    docsHandler,
	}
	cmd.Flags().String("category", "", "Documentation category: instructions, errors or eof")
	cmd.Flags().Bool("all", false, "Show all documentation")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE:  versionHandler,
	}
}
