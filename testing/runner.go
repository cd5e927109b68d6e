package testing

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tapevm/tapevm/bytecode"
	"github.com/tapevm/tapevm/compiler"
	"github.com/tapevm/tapevm/errors"
	"github.com/tapevm/tapevm/vm"
)

const (
	sourceExt = ".bf"
	inputExt  = ".in"
	outputExt = ".out"
	errorExt  = ".err"
)

// Config holds configuration for running tests.
type Config struct {
	// Patterns specifies files or directories to search for tests.
	// Default is current directory.
	Patterns []string

	// RunPattern filters cases to run by name regex.
	RunPattern string

	// Verbose shows run details for passing cases too.
	Verbose bool

	// Timeout bounds each case. Zero means no limit.
	Timeout time.Duration

	// EOF is the end-of-input policy programs run with.
	EOF vm.EOFPolicy

	// MaxCells bounds the tape of each case. Zero means unbounded.
	MaxCells int
}

// Case is one set of expectations for a test file.
type Case struct {
	Name       string
	InputFile  string // optional
	OutputFile string // expected output, if any
	ErrorFile  string // expected error code, if any
}

// DiscoverTestFiles finds all *_test.bf files matching the given patterns.
// If no patterns are provided, searches the current directory.
func DiscoverTestFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if isTestFile(path) && !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		// "dir/..." searches recursively
		recursive := false
		searchDir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			searchDir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if searchDir == "" {
				searchDir = "."
			}
		}

		info, err := os.Stat(searchDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", searchDir)
			}
			return nil, err
		}
		if !info.IsDir() {
			add(pattern)
			continue
		}
		if recursive {
			err = filepath.WalkDir(searchDir, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		entries, err := os.ReadDir(searchDir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(filepath.Join(searchDir, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// isTestFile returns true if the filename matches *_test.bf.
func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test"+sourceExt)
}

// DiscoverCases finds the expectation files that sit next to filename.
// Cases are sorted by name. A case with only an input file is ignored.
func DiscoverCases(filename string) ([]Case, error) {
	dir := filepath.Dir(filename)
	base := strings.TrimSuffix(filepath.Base(filename), sourceExt)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	byName := map[string]*Case{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, base+".") {
			continue
		}
		ext := filepath.Ext(name)
		suffix := strings.TrimPrefix(strings.TrimSuffix(name, ext), base)
		suffix = strings.TrimPrefix(suffix, ".")
		caseName := base
		if suffix != "" {
			caseName = base + "/" + suffix
		}
		c, ok := byName[caseName]
		if !ok {
			c = &Case{Name: caseName}
		}
		path := filepath.Join(dir, name)
		switch ext {
		case inputExt:
			c.InputFile = path
		case outputExt:
			c.OutputFile = path
		case errorExt:
			c.ErrorFile = path
		default:
			continue
		}
		byName[caseName] = c
	}
	var cases []Case
	for _, c := range byName {
		if c.OutputFile != "" || c.ErrorFile != "" {
			cases = append(cases, *c)
		}
	}
	sort.Slice(cases, func(i, j int) bool { return cases[i].Name < cases[j].Name })
	return cases, nil
}

// Run executes tests according to the given configuration.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	files, err := DiscoverTestFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		runRe, err = regexp.Compile(cfg.RunPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		summary.Files = append(summary.Files, runTestFile(ctx, cfg, file, runRe))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()
	return summary, nil
}

// runTestFile compiles one test file and runs each of its cases.
func runTestFile(ctx context.Context, cfg *Config, filename string, runRe *regexp.Regexp) *FileResult {
	result := &FileResult{Filename: filename}

	source, err := os.ReadFile(filename)
	if err != nil {
		result.CompileErr = err
		return result
	}
	fn, err := compiler.New(compiler.WithFilename(filename)).CreateFunctionFromSource(source)
	if err != nil {
		result.CompileErr = err
		return result
	}

	cases, err := DiscoverCases(filename)
	if err != nil {
		result.CompileErr = err
		return result
	}
	if len(cases) == 0 {
		name := strings.TrimSuffix(filepath.Base(filename), sourceExt)
		if runRe == nil || runRe.MatchString(name) {
			tc := NewTestContext(name, filename)
			tc.Skip("no expected output")
			result.Tests = append(result.Tests, finish(&TestResult{Name: name}, tc))
		}
		return result
	}
	for _, c := range cases {
		if runRe != nil && !runRe.MatchString(c.Name) {
			continue
		}
		result.Tests = append(result.Tests, runCase(ctx, cfg, fn, filename, c))
	}
	return result
}

// runCase runs fn on a fresh VM and checks its expectations.
func runCase(ctx context.Context, cfg *Config, fn *bytecode.Function, filename string, c Case) *TestResult {
	result := &TestResult{Name: c.Name}
	start := time.Now()
	fail := func(err error) *TestResult {
		result.Status = StatusError
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	var input []byte
	if c.InputFile != "" {
		data, err := os.ReadFile(c.InputFile)
		if err != nil {
			return fail(err)
		}
		input = data
	}
	var wantCode string
	if c.ErrorFile != "" {
		data, err := os.ReadFile(c.ErrorFile)
		if err != nil {
			return fail(err)
		}
		wantCode = strings.TrimSpace(string(data))
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	machine := vm.New(fn,
		vm.WithInput(bytes.NewReader(input)),
		vm.WithOutput(&out),
		vm.WithEOF(cfg.EOF),
		vm.WithMaxCells(cfg.MaxCells),
	)
	runErr := machine.Run(ctx)

	tc := NewTestContext(c.Name, filename)
	if tape := machine.Tape(); tape != nil {
		tc.Log(fmt.Sprintf("%d steps, %d cells", machine.Steps(), tape.Len()))
	}

	if wantCode != "" {
		var rt *errors.RuntimeError
		switch {
		case runErr == nil:
			tc.Fail("expected a fault", c.ErrorFile, "no fault", wantCode)
		case !stderrors.As(runErr, &rt):
			return fail(runErr)
		case string(rt.Kind.Code()) != wantCode:
			tc.Log(runErr.Error())
			tc.Fail("wrong fault", c.ErrorFile, string(rt.Kind.Code()), wantCode)
		}
	} else if runErr != nil {
		return fail(runErr)
	}

	if c.OutputFile != "" {
		want, err := os.ReadFile(c.OutputFile)
		if err != nil {
			return fail(err)
		}
		if !bytes.Equal(out.Bytes(), want) {
			tc.Fail("output mismatch", c.OutputFile, fmt.Sprintf("%q", out.Bytes()), fmt.Sprintf("%q", want))
		}
	}

	result.Duration = time.Since(start)
	return finish(result, tc)
}

// finish copies the outcome collected by tc into result.
func finish(result *TestResult, tc *TestContext) *TestResult {
	result.Logs = tc.Logs()
	result.Failures = tc.Failures()
	if tc.Skipped() {
		result.Status = StatusSkipped
		result.SkipReason = tc.SkipReason()
	} else if tc.Failed() {
		result.Status = StatusFailed
	} else {
		result.Status = StatusPassed
	}
	return result
}
