package testing

import "sync"

// TestContext collects the outcome of one case as its expectations are
// checked.
type TestContext struct {
	name       string
	filename   string
	mu         sync.Mutex
	failures   []AssertionError
	logs       []string
	skipped    bool
	skipReason string
}

// NewTestContext creates a context for the named case of filename.
func NewTestContext(name, filename string) *TestContext {
	return &TestContext{name: name, filename: filename}
}

// Name returns the case name.
func (t *TestContext) Name() string {
	return t.name
}

// Filename returns the test file the case belongs to.
func (t *TestContext) Filename() string {
	return t.filename
}

// Log records a detail that is shown for failed cases or in verbose mode.
func (t *TestContext) Log(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logs = append(t.logs, msg)
}

// Fail records an unmet expectation read from file.
func (t *TestContext) Fail(msg, file, got, want string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures = append(t.failures, AssertionError{
		Message: msg,
		File:    file,
		Got:     got,
		Want:    want,
	})
}

// Skip marks the case as skipped.
func (t *TestContext) Skip(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skipped = true
	t.skipReason = reason
}

// Failed returns true if any expectation was not met.
func (t *TestContext) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.failures) > 0
}

// Skipped returns true if the case was skipped.
func (t *TestContext) Skipped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.skipped
}

// SkipReason returns the reason given to Skip.
func (t *TestContext) SkipReason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.skipReason
}

// Logs returns the recorded log lines.
func (t *TestContext) Logs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.logs...)
}

// Failures returns the recorded failures.
func (t *TestContext) Failures() []AssertionError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]AssertionError(nil), t.failures...)
}
