package command

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesOutput(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewExecRunner()

	stdout, stderr, err := r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(stdout))
	assert.Equal(t, "err\n", string(stderr))
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewExecRunner()

	_, _, err := r.Run(context.Background(), "", "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, ExitCode(err))
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner()

	_, _, err := r.Run(context.Background(), "", "gwt-definitely-not-a-binary")
	require.Error(t, err)
	assert.Equal(t, -1, ExitCode(err))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "git", Describe("git"))
	assert.Equal(t, "git worktree list --porcelain", Describe("git", "worktree", "list", "--porcelain"))
}

// TestMockRunner verifies prefix matching, registration order and call recording.
func TestMockRunner(t *testing.T) {
	m := NewMockRunner().
		On("git", []string{"-C", "/repo", "status"}, MockResponse{Stdout: " M file\n"}).
		On("git", []string{"-C", "/repo"}, MockResponse{Stderr: "boom", Err: &ExitError{Code: 1}})

	stdout, _, err := m.Run(context.Background(), "", "git", "-C", "/repo", "status", "-s")
	require.NoError(t, err)
	assert.Equal(t, " M file\n", string(stdout))

	_, stderr, err := m.Run(context.Background(), "", "git", "-C", "/repo", "pull")
	require.Error(t, err)
	assert.Equal(t, "boom", string(stderr))
	assert.Equal(t, "exit status 1", err.Error())

	// Unmatched commands succeed silently in non-strict mode.
	_, _, err = m.Run(context.Background(), "/tmp", "direnv", "allow", "/tmp")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"git -C /repo status -s",
		"git -C /repo pull",
		"direnv allow /tmp",
	}, m.CallStrings())
	assert.True(t, m.Called("direnv", "allow"))
	assert.False(t, m.Called("gh"))
}

func TestMockRunner_Strict(t *testing.T) {
	m := NewMockRunner()
	m.Strict = true

	_, _, err := m.Run(context.Background(), "", "gh", "repo", "clone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected command")
}
