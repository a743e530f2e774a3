package workflow

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gwt/internal/filesync"
	"github.com/mmr-tortoise/gwt/internal/logging"
	"github.com/mmr-tortoise/gwt/internal/prompt"
	"github.com/mmr-tortoise/gwt/internal/worktree"
)

// fakeVCS is an in-memory VersionControl. CreateWorktree creates the target
// directory so path canonicalization works against the real filesystem.
type fakeVCS struct {
	root          string
	rootErr       error
	pullErr       error
	createErr     error
	skipMkdir     bool
	onCreate      func(target string)
	worktrees     []worktree.WorktreeInfo
	defaultBranch string
	dirty         bool
	removeErr     error
	deleteErr     error
	setConfigErr  error
	fetchErr      error

	calls []string
}

func (f *fakeVCS) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeVCS) RepoRoot(_ context.Context, dir string) (string, error) {
	f.record("root %s", dir)
	return f.root, f.rootErr
}

func (f *fakeVCS) PullLatest(_ context.Context, dir string) error {
	f.record("pull %s", dir)
	return f.pullErr
}

func (f *fakeVCS) CreateWorktree(_ context.Context, root, branch, target string) error {
	f.record("create %s %s", branch, target)
	if f.createErr != nil {
		return f.createErr
	}
	if !f.skipMkdir {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
	}
	if f.onCreate != nil {
		f.onCreate(target)
	}
	return nil
}

func (f *fakeVCS) ListWorktrees(_ context.Context, root string) ([]worktree.WorktreeInfo, error) {
	f.record("list %s", root)
	return f.worktrees, nil
}

func (f *fakeVCS) DefaultBranch(_ context.Context, dir string) (string, error) {
	f.record("default-branch %s", dir)
	return f.defaultBranch, nil
}

func (f *fakeVCS) HasUncommittedChanges(_ context.Context, dir string) (bool, error) {
	f.record("status %s", dir)
	return f.dirty, nil
}

func (f *fakeVCS) RemoveWorktree(_ context.Context, root, path string, force bool) error {
	f.record("remove %s force=%t", path, force)
	return f.removeErr
}

func (f *fakeVCS) DeleteBranch(_ context.Context, root, branch string) error {
	f.record("delete-branch %s", branch)
	return f.deleteErr
}

func (f *fakeVCS) SetConfig(_ context.Context, dir, key, value string) error {
	f.record("config %s %s", key, value)
	return f.setConfigErr
}

func (f *fakeVCS) Fetch(_ context.Context, dir, remote string) error {
	f.record("fetch %s", remote)
	return f.fetchErr
}

// fakeHosting creates the bare directory the way `gh repo clone` would.
type fakeHosting struct {
	err   error
	calls []string
}

func (f *fakeHosting) Clone(_ context.Context, dir, repo, target string) error {
	f.calls = append(f.calls, fmt.Sprintf("%s -> %s", repo, filepath.Join(dir, target)))
	if f.err != nil {
		return f.err
	}
	return os.MkdirAll(filepath.Join(dir, target), 0o755)
}

type fakeApprover struct {
	allowed []string
	err     error
}

func (f *fakeApprover) Allow(_ context.Context, path string) error {
	f.allowed = append(f.allowed, path)
	return f.err
}

// testCopier copies in-process so tests do not shell out to cp.
type testCopier struct{}

func (testCopier) Copy(_ context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

type harness struct {
	svc      *Service
	vcs      *fakeVCS
	hosting  *fakeHosting
	approver *fakeApprover
	prompter *prompt.Scripted
	logs     *bytes.Buffer
	base     string
}

// newHarness builds a Service over fakes with a repository root at
// <base>/repo. base has symlinks resolved.
func newHarness(t *testing.T) *harness {
	t.Helper()

	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	root := filepath.Join(base, "repo")
	require.NoError(t, os.MkdirAll(root, 0o755))

	logs := &bytes.Buffer{}
	logger := logging.New(logs, true)

	h := &harness{
		vcs:      &fakeVCS{root: root},
		hosting:  &fakeHosting{},
		approver: &fakeApprover{},
		prompter: &prompt.Scripted{},
		logs:     logs,
		base:     base,
	}
	h.svc = &Service{
		VCS:      h.vcs,
		Hosting:  h.hosting,
		Direnv:   h.approver,
		Prompter: h.prompter,
		Engine:   filesync.NewEngine(testCopier{}, logger),
		Logger:   logger,
	}
	return h
}

func (h *harness) root() string {
	return h.vcs.root
}

func writeRootFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
