package main

import (
	"fmt"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
)

func docsHandler(cmd *cobra.Command, args []string) error {
	var opts []tapevm.DocsOption
	if category, _ := cmd.Flags().GetString("category"); category != "" {
		opts = append(opts, tapevm.DocsCategory(category))
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		opts = append(opts, tapevm.DocsAll())
	}
	if len(args) > 0 {
		opts = append(opts, tapevm.DocsTopic(args[0]))
	}
	out := tapevm.Docs(opts...).JSON()
	w := cmd.OutOrStdout()
	if !colorEnabled(w) {
		fmt.Fprintln(w, out)
		return nil
	}
	colored, err := prettyjson.Format([]byte(out))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(colored))
	return nil
}
