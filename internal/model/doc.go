// Package model defines the domain types and error taxonomy for the gwt CLI.
//
// It contains pure data structures with no external dependencies: the
// well-known repository file names, the branch-to-directory mapping used by
// add and remove, and CLIError, which carries an ErrorKind and the exit code
// used when the process terminates.
package model
