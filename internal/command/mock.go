package command

import (
	"context"
	"fmt"
	"sync"
)

// MockResponse is the scripted result of a matched command.
type MockResponse struct {
	Stdout string
	Stderr string
	Err    error
}

// Call records one invocation seen by a MockRunner.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call as "name arg1 arg2".
func (c Call) String() string {
	return Describe(c.Name, c.Args...)
}

type mockRule struct {
	name   string
	prefix []string
	resp   MockResponse
}

// MockRunner returns pre-recorded responses. Rules are matched in
// registration order on the program name and a prefix of its arguments.
// Unmatched commands succeed with empty output unless Strict is set.
type MockRunner struct {
	mu     sync.Mutex
	rules  []mockRule
	calls  []Call
	Strict bool
}

// NewMockRunner creates an empty MockRunner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// On registers a response for commands named name whose arguments start
// with prefixArgs.
func (m *MockRunner) On(name string, prefixArgs []string, resp MockResponse) *MockRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, mockRule{name: name, prefix: prefixArgs, resp: resp})
	return m
}

// Run records the call and returns the first matching scripted response.
func (m *MockRunner) Run(_ context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Dir: dir, Name: name, Args: append([]string(nil), args...)})

	for _, r := range m.rules {
		if r.name == name && hasPrefix(args, r.prefix) {
			return []byte(r.resp.Stdout), []byte(r.resp.Stderr), r.resp.Err
		}
	}
	if m.Strict {
		return nil, nil, fmt.Errorf("mock: unexpected command %q", Describe(name, args...))
	}
	return nil, nil, nil
}

// Calls returns a copy of every recorded invocation.
func (m *MockRunner) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallStrings returns each recorded invocation rendered with Call.String.
func (m *MockRunner) CallStrings() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Called reports whether a command with the given name and argument prefix
// was run.
func (m *MockRunner) Called(name string, prefixArgs ...string) bool {
	for _, c := range m.Calls() {
		if c.Name == name && hasPrefix(c.Args, prefixArgs) {
			return true
		}
	}
	return false
}

func hasPrefix(args, prefix []string) bool {
	if len(args) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}

// ExitError is a stand-in for *exec.ExitError in scripted responses.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
