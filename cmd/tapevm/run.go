package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
)

func runHandler(cmd *cobra.Command, args []string) error {
	code, name, err := getCode(cmd, args)
	if err == errNoSource && cmd.Name() == "tapevm" {
		return cmd.Help()
	} else if err != nil {
		return err
	}
	opts, err := getOptions()
	if err != nil {
		return err
	}
	input, closeInput, err := getInput(cmd)
	if err != nil {
		return err
	}
	defer closeInput()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	opts = append(opts,
		tapevm.WithFilename(name),
		tapevm.WithInput(newFlushingInput(input, out)),
		tapevm.WithOutput(out),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	_, err = tapevm.Eval(ctx, code, opts...)
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}
	if timing, _ := cmd.Flags().GetBool("timing"); timing {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", time.Since(start))
	}
	return nil
}
