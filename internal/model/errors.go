package model

import (
	"errors"
	"fmt"
)

// ExitCode is the process exit status returned by the gwt binary.
// Every failure maps to ExitGeneralError so shell callers can rely on a
// plain zero/non-zero check (e.g. `cd "$(gwt add feature/x)"`).
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates the command failed for any reason.
	ExitGeneralError ExitCode = 1
)

// ErrorKind classifies a failure by where it originated.
type ErrorKind int

const (
	// KindEnvironment covers problems with the surroundings the command was
	// run in: not inside a repository, a required file is missing, bad input.
	KindEnvironment ErrorKind = iota

	// KindCommand covers a delegated tool (git, gh, cp, direnv) that could
	// not be spawned or exited non-zero.
	KindCommand

	// KindFilesystem covers permission and IO failures while reading,
	// writing, copying, linking or removing paths.
	KindFilesystem
)

// String returns a short lowercase label for the kind, used in JSON output.
func (k ErrorKind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindCommand:
		return "command"
	case KindFilesystem:
		return "filesystem"
	default:
		return "unknown"
	}
}

// Sentinel errors that callers match with errors.Is to tailor behavior.
var (
	// ErrNotARepository is returned when the working directory is not
	// inside a git repository.
	ErrNotARepository = errors.New("not in a git repository")

	// ErrNoTrackingInfo is returned by a pull when the current branch has
	// no upstream configured.
	ErrNoTrackingInfo = errors.New("no tracking information for the current branch")

	// ErrBranchNotMerged is returned when `git branch -d` refuses to delete
	// a branch whose commits are not merged.
	ErrBranchNotMerged = errors.New("branch is not fully merged")
)

func isSentinel(err error) bool {
	return err == ErrNotARepository || err == ErrNoTrackingInfo || err == ErrBranchNotMerged
}

// CLIError is a custom error type that carries an exit code and a kind.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes and structured output.
type CLIError struct {
	// Kind is the taxonomy bucket of the failure.
	Kind ErrorKind

	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error. A bare sentinel
// is omitted because Message already says the same thing.
func (e *CLIError) Error() string {
	if e.Err != nil && !isSentinel(e.Err) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError of the given kind with no underlying error.
func NewCLIError(kind ErrorKind, message string) *CLIError {
	return &CLIError{Kind: kind, Code: ExitGeneralError, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(kind ErrorKind, message string, err error) *CLIError {
	return &CLIError{Kind: kind, Code: ExitGeneralError, Message: message, Err: err}
}

// EnvError wraps err as an environment failure.
func EnvError(message string, err error) *CLIError {
	return WrapCLIError(KindEnvironment, message, err)
}

// CommandError wraps err as a delegated-command failure.
func CommandError(message string, err error) *CLIError {
	return WrapCLIError(KindCommand, message, err)
}

// FSError wraps err as a filesystem failure.
func FSError(message string, err error) *CLIError {
	return WrapCLIError(KindFilesystem, message, err)
}
