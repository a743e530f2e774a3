package hosting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gwt/internal/command"
	"github.com/mmr-tortoise/gwt/internal/model"
)

func TestGitHubCLI_Clone(t *testing.T) {
	runner := command.NewMockRunner()
	gh := NewGitHubCLI(runner)

	err := gh.Clone(context.Background(), "/src/repo", "owner/repo", ".bare")
	require.NoError(t, err)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/src/repo", calls[0].Dir)
	assert.Equal(t, "gh repo clone owner/repo .bare -- --bare", calls[0].String())
}

func TestGitHubCLI_CloneFailure(t *testing.T) {
	runner := command.NewMockRunner().
		On("gh", []string{"repo", "clone"}, command.MockResponse{
			Stderr: "GraphQL: Could not resolve to a Repository with the name 'owner/missing'.\n",
			Err:    &command.ExitError{Code: 1},
		})

	err := NewGitHubCLI(runner).Clone(context.Background(), "/src/missing", "owner/missing", ".bare")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.KindCommand, cliErr.Kind)
	assert.Contains(t, err.Error(), "Failed to clone repository owner/missing")
	assert.Contains(t, err.Error(), "Could not resolve")
	assert.Equal(t, 1, command.ExitCode(err))
}
