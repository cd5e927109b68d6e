package main

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/tapevm/tapevm"
	"github.com/tapevm/tapevm/errors"
)

const historyFile = ".tapevm_history"

// replApp evaluates one snippet per line on a shared tape. A line that
// leaves a loop open is continued on the next line.
type replApp struct {
	vm          *tapevm.VM
	out         io.Writer
	programOut  *trailingWriter
	pending     []string
	historyPath string
	showTiming  bool
	interactive bool
	prompt      *color.Color
	muted       *color.Color
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session on a persistent tape",
		Long: `Start an interactive session. Each line runs on the same tape, starting
at cell 0. Lines that leave a loop open continue on the next line. The
input instruction always sees end of input. Type :help for commands.`,
		Args: cobra.NoArgs,
		RunE: replHandler,
	}
}

func replHandler(cmd *cobra.Command, args []string) error {
	opts, err := getOptions()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	programOut := &trailingWriter{w: out}
	opts = append(opts,
		tapevm.WithFilename("<repl>"),
		tapevm.WithInput(strings.NewReader("")),
		tapevm.WithOutput(programOut),
	)
	app := &replApp{
		vm:          tapevm.NewVM(opts...),
		out:         out,
		programOut:  programOut,
		historyPath: historyPath(),
		interactive: isTerminal(cmd.InOrStdin()),
		prompt:      color.New(color.FgYellow, color.Bold),
		muted:       color.New(color.FgHiBlack),
	}
	if !colorEnabled(out) {
		app.prompt.DisableColor()
		app.muted.DisableColor()
	}
	return app.run(cmd, cmd.InOrStdin())
}

func (app *replApp) run(cmd *cobra.Command, in io.Reader) error {
	if app.interactive {
		fmt.Fprintf(app.out, "tapevm %s\n", version)
		fmt.Fprintln(app.out, app.muted.Sprint("Type :help for commands"))
	}
	scanner := bufio.NewScanner(in)
	for {
		app.showPrompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" && len(app.pending) == 0 {
			continue
		}
		if strings.HasPrefix(line, ":") && len(app.pending) == 0 {
			if quit := app.handleCommand(line); quit {
				return nil
			}
			continue
		}
		app.submit(cmd, line)
	}
}

func (app *replApp) showPrompt() {
	if !app.interactive {
		return
	}
	if len(app.pending) > 0 {
		fmt.Fprint(app.out, app.prompt.Sprint("... "))
	} else {
		fmt.Fprint(app.out, app.prompt.Sprint(">>> "))
	}
}

func (app *replApp) submit(cmd *cobra.Command, line string) {
	input := strings.Join(append(app.pending, line), "\n")
	start := time.Now()
	err := app.vm.Eval(cmd.Context(), input)
	elapsed := time.Since(start)

	if isIncompleteInput(err) {
		app.pending = append(app.pending, line)
		return
	}
	app.pending = nil
	appendToHistory(app.historyPath, strings.ReplaceAll(input, "\n", " "))

	if app.programOut.needsNewline() {
		fmt.Fprintln(app.out)
	}
	if err != nil {
		fmt.Fprint(app.out, formatError(err))
	}
	if app.showTiming {
		fmt.Fprintln(app.out, app.muted.Sprint(elapsed))
	}
}

// isIncompleteInput returns true if the error is an unclosed loop, which
// more input can still close.
func isIncompleteInput(err error) bool {
	var ce *errors.CompileError
	return stderrors.As(err, &ce) && ce.Code == errors.E1002
}

func (app *replApp) handleCommand(input string) bool {
	parts := strings.Fields(input)
	switch strings.ToLower(parts[0]) {
	case ":help", ":h", ":?":
		for _, line := range [][2]string{
			{":help, :h, :?", "Show this help"},
			{":tape [n]", "Show the first n cells (default 16)"},
			{":reset", "Start again on a fresh tape"},
			{":timing", "Toggle execution timing"},
			{":exit, :quit", "Exit the REPL"},
		} {
			fmt.Fprintf(app.out, "  %-16s %s\n", line[0], app.muted.Sprint(line[1]))
		}
	case ":tape", ":t":
		n := 16
		if len(parts) > 1 {
			v, err := strconv.Atoi(parts[1])
			if err != nil || v < 1 {
				fmt.Fprintf(app.out, "  invalid cell count: %s\n", parts[1])
				return false
			}
			n = v
		}
		cells := app.vm.Tape().Cells()
		shown := cells
		if len(shown) > n {
			shown = shown[:n]
		}
		fmt.Fprintf(app.out, "  %v (%d cells)\n", shown, len(cells))
	case ":reset":
		app.vm.Reset()
		fmt.Fprintln(app.out, app.muted.Sprint("  tape reset"))
	case ":timing":
		app.showTiming = !app.showTiming
		if app.showTiming {
			fmt.Fprintln(app.out, app.muted.Sprint("  timing enabled"))
		} else {
			fmt.Fprintln(app.out, app.muted.Sprint("  timing disabled"))
		}
	case ":exit", ":quit", ":q":
		return true
	default:
		fmt.Fprintf(app.out, "  unknown command: %s\n", parts[0])
	}
	return false
}

// trailingWriter remembers whether the last byte written was a newline.
type trailingWriter struct {
	w       io.Writer
	written bool
	last    byte
}

func (t *trailingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if n > 0 {
		t.written = true
		t.last = p[n-1]
	}
	return n, err
}

// needsNewline reports whether output since the last call ended without
// a newline.
func (t *trailingWriter) needsNewline() bool {
	needs := t.written && t.last != '\n'
	t.written = false
	return needs
}

func historyPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}

func appendToHistory(path, line string) {
	if path == "" || line == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(line + "\n")
}
