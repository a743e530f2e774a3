package filesync

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mmr-tortoise/gwt/internal/command"
	"github.com/mmr-tortoise/gwt/internal/model"
)

// Copier duplicates a file or directory tree from src to dst.
// dst must not exist when Copy is called.
type Copier interface {
	Copy(ctx context.Context, src, dst string) error
}

// CommandCopier copies with cp, preferring copy-on-write clones.
//
// Strategies are tried in order until one succeeds:
//  1. cp -Rc (APFS clonefile) on darwin, cp -R --reflink=auto elsewhere
//  2. cp -R
//  3. an in-process recursive copy
//
// A partial destination left by a failed attempt is removed before the
// next one.
type CommandCopier struct {
	runner command.Runner
	logger *log.Logger
	goos   string
}

// NewCommandCopier returns a CommandCopier for the running platform.
func NewCommandCopier(runner command.Runner, logger *log.Logger) *CommandCopier {
	return &CommandCopier{runner: runner, logger: logger, goos: runtime.GOOS}
}

func cpStrategies(goos string) [][]string {
	cow := []string{"-R", "--reflink=auto"}
	if goos == "darwin" {
		cow = []string{"-Rc"}
	}
	return [][]string{cow, {"-R"}}
}

// Copy copies src to dst.
func (c *CommandCopier) Copy(ctx context.Context, src, dst string) error {
	for _, flags := range cpStrategies(c.goos) {
		args := make([]string, 0, len(flags)+2)
		args = append(args, flags...)
		args = append(args, src, dst)

		_, stderr, err := c.runner.Run(ctx, "", "cp", args...)
		if err == nil {
			return nil
		}
		c.logger.Debug("copy attempt failed",
			"cmd", command.Describe("cp", args...),
			"err", err,
			"stderr", strings.TrimSpace(string(stderr)))

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err := os.RemoveAll(dst); err != nil {
			return model.FSError(fmt.Sprintf("Failed to clean up partial copy at %s", dst), err)
		}
	}

	if err := copyPath(src, dst); err != nil {
		return model.FSError(fmt.Sprintf("Unable to copy %s to %s", src, dst), err)
	}
	return nil
}

// copyPath copies a file, symlink or directory tree from src to dst.
func copyPath(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return copySymlink(src, dst)
	case info.IsDir():
		return copyTree(src, dst)
	default:
		return copyFile(src, dst, info)
	}
}

// copyTree walks src and recreates every entry under dst. Symlinks inside
// the tree are recreated as symlinks, not followed.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error walking source directory at %s: %w", path, walkErr)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			return copySymlink(path, target)
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			return nil
		default:
			return copyFile(path, target, info)
		}
	})
}

// copyFile streams src into dst with the source permissions and
// modification time.
func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Symlink(target, dst)
}
