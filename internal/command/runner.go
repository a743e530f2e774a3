// Package command abstracts execution of external programs (git, gh, cp,
// direnv) so the packages that shell out can be exercised in tests with
// scripted responses instead of real binaries.
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Runner executes an external program and captures its output.
//
// dir is the working directory of the child process. An empty dir means the
// current process directory. Run never changes the directory of the calling
// process.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and returns stdout, stderr and the error from
// exec.Cmd.Run. A non-zero exit is reported as *exec.ExitError.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	// #nosec G204 -- program names are fixed by callers; args are git refs and paths.
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// ExitCode extracts the process exit status from an error returned by Run.
// It returns -1 when err is not an exit error (e.g. the binary was not found).
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var mockErr *ExitError
	if errors.As(err, &mockErr) {
		return mockErr.Code
	}
	return -1
}

// Describe renders a command line for log and error messages.
func Describe(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
