// Package testing runs tape programs against expected output files.
//
// A test file is any program named *_test.bf. Its cases live next to it:
// prog_test.out holds the expected output of the default case and
// prog_test.in its input. Named cases use prog_test.<case>.out and
// prog_test.<case>.in. A case may instead expect a fault, in which case
// prog_test[.<case>].err holds the error code, such as E3001.
package testing

import "time"

// Status represents the outcome of a test.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusSkipped:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AssertionError represents a failed expectation in a test.
type AssertionError struct {
	Message string // Description of the failure
	File    string // Expectation file that was not met
	Got     string // Actual value
	Want    string // Expected value
}

// TestResult holds the outcome of a single case.
type TestResult struct {
	Name       string           // Case name (e.g., "echo_test/upper")
	Status     Status           // Pass, fail, skip, or error
	Duration   time.Duration    // How long the case took
	Failures   []AssertionError // Expectation failures
	Logs       []string         // Run details
	SkipReason string           // Why the case was skipped
	Error      error            // Error if Status == StatusError
}

// FileResult holds the results of all cases of a single test file.
type FileResult struct {
	Filename   string        // Path to the test file
	Tests      []*TestResult // Results for each case
	CompileErr error         // Error if file failed to compile
}

func (f *FileResult) count(status Status) int {
	count := 0
	for _, t := range f.Tests {
		if t.Status == status {
			count++
		}
	}
	return count
}

// Passed returns the number of passed cases in this file.
func (f *FileResult) Passed() int { return f.count(StatusPassed) }

// Failed returns the number of failed cases in this file.
func (f *FileResult) Failed() int { return f.count(StatusFailed) }

// Skipped returns the number of skipped cases in this file.
func (f *FileResult) Skipped() int { return f.count(StatusSkipped) }

// Errors returns the number of errored cases in this file.
func (f *FileResult) Errors() int { return f.count(StatusError) }

// Summary aggregates results across all test files.
type Summary struct {
	Files    []*FileResult // Results for each test file
	Passed   int           // Total passed cases
	Failed   int           // Total failed cases
	Skipped  int           // Total skipped cases
	Errors   int           // Total errored cases
	Duration time.Duration // Total time for all cases
}

// TotalTests returns the total number of cases run.
func (s *Summary) TotalTests() int {
	return s.Passed + s.Failed + s.Skipped + s.Errors
}

// Success returns true if no case failed or errored and every file
// compiled.
func (s *Summary) Success() bool {
	for _, f := range s.Files {
		if f.CompileErr != nil {
			return false
		}
	}
	return s.Failed == 0 && s.Errors == 0
}

// ComputeTotals recalculates the aggregate counts from all file results.
func (s *Summary) ComputeTotals() {
	s.Passed = 0
	s.Failed = 0
	s.Skipped = 0
	s.Errors = 0
	for _, f := range s.Files {
		s.Passed += f.Passed()
		s.Failed += f.Failed()
		s.Skipped += f.Skipped()
		s.Errors += f.Errors()
	}
}
