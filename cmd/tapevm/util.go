package main

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/tapevm/tapevm/errors"
)

var outputFormatsCompletion = []string{"json", "text"}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorEnabled reports whether colored output should be written to w.
func colorEnabled(w any) bool {
	return !color.NoColor && isTerminal(w)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

// newLogger returns a console logger. Only warnings are shown unless
// --verbose is set.
func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !colorEnabled(w)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// getOutputJSON renders v as indented JSON, colored when w is a terminal.
func getOutputJSON(w io.Writer, v any) ([]byte, error) {
	if !colorEnabled(w) {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))
	switch format {
	case "", "text":
		return "text", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

// formatError renders err for the terminal. Compile errors and runtime
// faults get source context; aggregated errors are numbered.
func formatError(err error) string {
	f := errors.NewFormatter(colorEnabled(os.Stderr))
	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		var formatted []*errors.FormattedError
		for _, e := range merr.Errors {
			formatted = append(formatted, toFormatted(e))
		}
		return f.FormatMultiple(formatted)
	}
	return f.Format(toFormatted(err))
}

func toFormatted(err error) *errors.FormattedError {
	var fe errors.FormattableError
	if stderrors.As(err, &fe) {
		return fe.ToFormatted()
	}
	return &errors.FormattedError{Kind: "error", Message: err.Error()}
}

// flushingInput flushes pending program output before every read, so
// prompts appear before the program blocks on input.
type flushingInput struct {
	r   *bufio.Reader
	out *bufio.Writer
}

func newFlushingInput(r io.Reader, out *bufio.Writer) *flushingInput {
	return &flushingInput{r: bufio.NewReader(r), out: out}
}

func (f *flushingInput) ReadByte() (byte, error) {
	if err := f.out.Flush(); err != nil {
		return 0, err
	}
	return f.r.ReadByte()
}

func (f *flushingInput) Read(p []byte) (int, error) {
	if err := f.out.Flush(); err != nil {
		return 0, err
	}
	return f.r.Read(p)
}
