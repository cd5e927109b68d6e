package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
)

// checkHandler compiles every file given and reports all failures together.
func checkHandler(cmd *cobra.Command, args []string) error {
	opts, err := getOptions()
	if err != nil {
		return err
	}
	var result *multierror.Error
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if _, err := tapevm.Compile(string(data), append(opts, tapevm.WithFilename(path))...); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", path)
	}
	return result.ErrorOrNil()
}
