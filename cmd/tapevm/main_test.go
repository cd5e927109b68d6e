package main

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapevm/tapevm/errors"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	homedir.DisableCache = true
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = noColor
		viper.Reset()
	})
	viper.Reset()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCode(t *testing.T) {
	out, _, err := execute(t, "", "run", "-c", "++++++++[>++++++++<-]>+.")
	require.NoError(t, err)
	assert.Equal(t, "A", out)
}

func TestRootRunsFile(t *testing.T) {
	prog := writeFile(t, "cat.bf", "cat: copies input\n,[.,]")
	input := writeFile(t, "input.txt", "hi\n")
	out, _, err := execute(t, "ignored", prog, "--input", input, "--eof", "zero")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}

func TestRunReadsStdinAsInput(t *testing.T) {
	out, _, err := execute(t, "xy", "run", "-c", ",.,.")
	require.NoError(t, err)
	assert.Equal(t, "xy", out)
}

func TestRunCodeFromStdin(t *testing.T) {
	out, _, err := execute(t, "+++[>++++++++++<-]>+++.,.", "run", "--stdin")
	require.NoError(t, err)
	// Program input is empty when code comes from stdin.
	assert.Equal(t, "!!", out)
}

func TestRunTiming(t *testing.T) {
	_, stderr, err := execute(t, "", "run", "-c", "+", "--timing")
	require.NoError(t, err)
	assert.NotEmpty(t, stderr)
}

func TestMultipleSources(t *testing.T) {
	prog := writeFile(t, "p.bf", "+")
	_, _, err := execute(t, "", "run", "-c", "+", prog)
	require.Error(t, err)
	assert.Equal(t, "multiple input sources specified", err.Error())

	_, _, err = execute(t, "", "run", "-c", "+", "--stdin")
	require.Error(t, err)
}

func TestNoSource(t *testing.T) {
	out, _, err := execute(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")

	_, _, err = execute(t, "", "run")
	assert.ErrorIs(t, err, errNoSource)
}

func TestEOFPolicyFlag(t *testing.T) {
	out, _, err := execute(t, "", "run", "-c", "+,.", "--eof", "zero")
	require.NoError(t, err)
	assert.Equal(t, "\x00", out)

	out, _, err = execute(t, "", "run", "-c", "+,.")
	require.NoError(t, err)
	assert.Equal(t, "\x01", out)

	_, _, err = execute(t, "", "run", "-c", "+", "--eof", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestEOFPolicyFromEnv(t *testing.T) {
	t.Setenv("TAPEVM_EOF", "fault")
	_, _, err := execute(t, "", "run", "-c", ",")
	require.Error(t, err)
	var rt *errors.RuntimeError
	require.True(t, stderrors.As(err, &rt))
	assert.Equal(t, errors.IO, rt.Kind)
	assert.ErrorIs(t, err, io.EOF)
	assert.Contains(t, formatError(err), "runtime error[E3004]: unexpected end of input")
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "tapevm.yaml", "max-cells: 2\n")
	_, _, err := execute(t, "", "run", "--config", cfg, "-c", ">>")
	require.Error(t, err)
	var rt *errors.RuntimeError
	require.True(t, stderrors.As(err, &rt))
	assert.Equal(t, errors.TapeLimit, rt.Kind)

	// Flags override the config file.
	_, _, err = execute(t, "", "run", "--config", cfg, "--max-cells", "3", "-c", ">>")
	require.NoError(t, err)

	_, _, err = execute(t, "", "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "-c", "+")
	require.Error(t, err)
}

func TestHomeConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, ".tapevm.yaml"), []byte("eof: fault\n"), 0o644))
	homedir.DisableCache = true
	noColor := color.NoColor
	t.Cleanup(func() {
		color.NoColor = noColor
		viper.Reset()
	})
	t.Setenv("HOME", home)
	viper.Reset()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "-c", ","})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(io.Discard)
	err := cmd.Execute()
	assert.ErrorIs(t, err, io.EOF)
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.bf", "+[-]")
	bad := writeFile(t, "bad.bf", "+]")
	worse := writeFile(t, "worse.bf", "[[")

	out, _, err := execute(t, "", "check", good)
	require.NoError(t, err)
	assert.Equal(t, "ok "+good+"\n", out)

	out, _, err = execute(t, "", "check", good, bad, worse)
	require.Error(t, err)
	assert.Equal(t, "ok "+good+"\n", out)
	var merr *multierror.Error
	require.True(t, stderrors.As(err, &merr))
	require.Len(t, merr.Errors, 2)

	formatted := formatError(err)
	assert.Contains(t, formatted, "error[E1001]")
	assert.Contains(t, formatted, "error[E1002]")
	assert.Contains(t, formatted, "found 2 errors")
	assert.Contains(t, formatted, bad+":1:2")
}

func TestDis(t *testing.T) {
	out, _, err := execute(t, "", "dis", "-c", "+[-]")
	require.NoError(t, err)
	assert.Contains(t, out, "| OFFSET |")
	assert.Contains(t, out, "LOOP_ENTER")

	out, _, err = execute(t, "", "dis", "-c", "+[-]", "-o", "json")
	require.NoError(t, err)
	var instructions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &instructions))
	require.Len(t, instructions, 4)
	assert.Equal(t, "LOOP_ENTER", instructions[1]["name"])
	assert.Equal(t, []any{float64(3)}, instructions[1]["operands"])
	assert.Equal(t, "1:2", instructions[1]["info"])
}

func TestStats(t *testing.T) {
	out, _, err := execute(t, "", "stats", "-c", "+[[-]]", "-o", "json")
	require.NoError(t, err)
	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, "main", stats["name"])
	assert.Equal(t, float64(6), stats["instructions"])
	assert.Equal(t, float64(2), stats["loops"])
	assert.Equal(t, float64(2), stats["max_loop_depth"])

	out, _, err = execute(t, "", "stats", "-c", "+")
	require.NoError(t, err)
	assert.Contains(t, out, "instructions:   1\n")

	_, _, err = execute(t, "", "stats", "-c", "+", "-o", "yaml")
	require.Error(t, err)
	assert.Equal(t, "unknown output format: yaml", err.Error())
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tapevm dev "))

	out, _, err = execute(t, "", "version", "-o", "json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "dev", info["version"])
	assert.Equal(t, "unknown", info["commit"])
}

func TestDocs(t *testing.T) {
	out, _, err := execute(t, "", "docs", "[")
	require.NoError(t, err)
	assert.Contains(t, out, `"LOOP_ENTER"`)

	out, _, err = execute(t, "", "docs", "--category", "eof")
	require.NoError(t, err)
	assert.Contains(t, out, `"unchanged"`)
}

func TestFormatPlainError(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	assert.Equal(t, "error: boom\n", formatError(stderrors.New("boom")))
}

func TestTestCommand(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "inc_test.bf")
	require.NoError(t, os.WriteFile(prog, []byte("++."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inc_test.out"), []byte("\x02"), 0o644))

	out, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "--- PASS: inc_test")
	assert.Contains(t, out, "1 passed")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "inc_test.three.out"), []byte("\x03"), 0o644))
	out, _, err = execute(t, "", "test", dir)
	assert.ErrorIs(t, err, errTestsFailed)
	assert.Contains(t, out, "--- FAIL: inc_test/three")

	out, _, err = execute(t, "", "test", dir, "--run", "three$")
	assert.ErrorIs(t, err, errTestsFailed)
	assert.NotContains(t, out, "=== RUN   inc_test\n")
}

func TestBench(t *testing.T) {
	out, _, err := execute(t, "", "bench", "-c", "inc +++[-]", "-n", "10", "--warmup", "2", "-o", "json")
	require.NoError(t, err)
	var result BenchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "inc", result.Name)
	assert.Equal(t, 10, result.Iterations)
	assert.Equal(t, 2, result.Warmup)
	assert.LessOrEqual(t, result.MinNs, result.MedianNs)
	assert.LessOrEqual(t, result.MedianNs, result.MaxNs)

	out, _, err = execute(t, "", "bench", "-c", "+", "-n", "3", "--warmup", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Benchmark main\n")
	assert.Contains(t, out, "Iterations:  3\n")

	_, _, err = execute(t, "", "bench", "-c", "<")
	var rt *errors.RuntimeError
	assert.True(t, stderrors.As(err, &rt))
}

func TestRepl(t *testing.T) {
	session := strings.Join([]string{
		"+++",
		":tape",
		"[-",
		"]",
		":tape 4",
		"++++++++[>++++++++<-]>+.",
		":bogus",
		"<<",
		":reset",
		":tape",
		":quit",
		"+",
	}, "\n")
	out, _, err := execute(t, session, "repl")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"  [3] (1 cells)",
		"  [0] (1 cells)",
		"A",
		"  unknown command: :bogus",
	}, "\n")+"\n", out[:strings.Index(out, "runtime error")])
	assert.Contains(t, out, "runtime error[E3001]: data pointer moved below cell 0")
	assert.True(t, strings.HasSuffix(out, "  tape reset\n  [0] (1 cells)\n"))

	home, err := homedir.Dir()
	require.NoError(t, err)
	history, err := os.ReadFile(filepath.Join(home, historyFile))
	require.NoError(t, err)
	assert.Equal(t, "+++\n[- ]\n++++++++[>++++++++<-]>+.\n<<\n", string(history))
}

func TestMeasureStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	run := func() error {
		calls++
		if calls == 5 {
			cancel()
		}
		return nil
	}
	_, _, err := measure(ctx, run, 2, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, calls)

	calls = 0
	ctx = context.Background()
	durations, _, err := measure(ctx, func() error { calls++; return nil }, 1, 4)
	require.NoError(t, err)
	assert.Len(t, durations, 4)
	assert.Equal(t, 5, calls)
}
