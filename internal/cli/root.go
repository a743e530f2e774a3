// Package cli implements the cobra-based CLI commands for gwt.
//
// Each subcommand (add, remove, sync, clone, init, list) is defined in its
// own file within this package. This file defines the root command that
// serves as the parent for all subcommands and handles global flags.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gwt/internal/command"
	"github.com/mmr-tortoise/gwt/internal/config"
	"github.com/mmr-tortoise/gwt/internal/direnv"
	"github.com/mmr-tortoise/gwt/internal/filesync"
	"github.com/mmr-tortoise/gwt/internal/hosting"
	"github.com/mmr-tortoise/gwt/internal/logging"
	"github.com/mmr-tortoise/gwt/internal/model"
	"github.com/mmr-tortoise/gwt/internal/prompt"
	"github.com/mmr-tortoise/gwt/internal/workflow"
	"github.com/mmr-tortoise/gwt/internal/worktree"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When true, primary output on stdout is a single JSON document.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	verbose bool
)

// logger is the diagnostics logger of the running command. It is replaced
// by newApp once the effective verbosity is known.
var logger = logging.Discard()

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gwt",
		Short: "Git worktree manager that keeps local files in sync",
		Long: `gwt creates and removes git worktrees and keeps untracked local files
(.env, editor settings, local config) in sync between them.

Files listed in .gwtconfig at the repository root are symlinked (or copied
with --copy) into every new worktree. "gwt sync" propagates the most
recently modified copy of each file to all worktrees.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewAddCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewSyncCommand())
	rootCmd.AddCommand(NewCloneCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewListCommand())

	return rootCmd
}

// Execute runs the root command and exits the process on failure.
// Every failure exits with model.ExitGeneralError.
func Execute(ctx context.Context, rootCmd *cobra.Command) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(int(exitCode(err)))
	}
}

// exitCode returns the exit status carried by err.
func exitCode(err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return model.ExitGeneralError
}

// printError outputs an error in the appropriate format (JSON or text)
// based on the --json global flag. Errors always go to stderr because
// stdout is reserved for successful command output.
func printError(w io.Writer, err error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"message": err.Error(),
		}
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			errObj["kind"] = cliErr.Kind.String()
			errObj["message"] = cliErr.Message
			if cliErr.Err != nil {
				errObj["detail"] = cliErr.Err.Error()
			}
		}
		// Several failures joined together are all reported.
		if joined, ok := err.(interface{ Unwrap() []error }); ok && len(joined.Unwrap()) > 1 {
			errObj["message"] = err.Error()
			delete(errObj, "detail")
		}
		data, _ := json.MarshalIndent(map[string]interface{}{"error": errObj}, "", "  ")
		_, _ = fmt.Fprintln(w, string(data))
		return
	}

	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")).Render("Error:")
	_, _ = fmt.Fprintf(w, "%s %s\n", label, err.Error())
}

// VerboseLog emits a debug message. It is only visible with --verbose (or
// verbose: true in the settings file).
func VerboseLog(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...))
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v as indented JSON to w.
func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// app bundles what a subcommand needs at run time.
type app struct {
	// dir is the directory gwt was invoked from.
	dir string

	// settings are the repository settings, or zero Settings outside a
	// repository.
	settings *config.Settings

	svc *workflow.Service
}

// newApp resolves the invocation directory, loads repository settings and
// wires the workflow service to the real git, gh, cp and direnv binaries.
//
// Settings are looked up from the repository containing the invocation
// directory. Outside a repository (e.g. before `gwt clone`) defaults apply.
func newApp(cmd *cobra.Command) (*app, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, model.EnvError("Failed to determine the current directory", err)
	}

	runner := command.NewExecRunner()
	manager := worktree.NewManager(runner)

	settings := &config.Settings{}
	if root, err := manager.RepoRoot(cmd.Context(), dir); err == nil {
		settings, err = config.LoadSettings(root)
		if err != nil {
			return nil, err
		}
	}

	verboseOn := config.Resolve(verbose, cmd.Flags().Changed("verbose"), settings.Verbose, false)
	logger = logging.New(cmd.ErrOrStderr(), verboseOn)
	if settings.Path != "" {
		VerboseLog("Loaded settings from %s", settings.Path)
	}

	return &app{
		dir:      dir,
		settings: settings,
		svc:      newService(runner, manager, cmd.ErrOrStderr(), logger),
	}, nil
}

// newService wires a workflow.Service. Prompts are drawn on promptOut so
// that stdout only ever carries primary output.
func newService(runner command.Runner, manager *worktree.Manager, promptOut io.Writer, logger *log.Logger) *workflow.Service {
	return &workflow.Service{
		VCS:      manager,
		Hosting:  hosting.NewGitHubCLI(runner),
		Direnv:   direnv.NewCLI(runner, logger),
		Prompter: prompt.New(os.Stdin, promptOut),
		Engine:   filesync.NewEngine(filesync.NewCommandCopier(runner, logger), logger),
		Logger:   logger,
	}
}
