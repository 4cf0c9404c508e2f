// SPDX-License-Identifier: MIT

// Package gitig keeps a repository's .gitignore up to date: it appends
// entries idempotently, untracks the ignored paths, and records the
// change in a commit.
package gitig

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/neptuneng/fieldkit/internal/log"
)

// ErrNotARepository is returned when root has no .git directory.
var ErrNotARepository = errors.New("not a git repository")

// NormalizeEntry returns the POSIX-style form of path relative to the
// repository root. Paths outside the root pass through unchanged.
func NormalizeEntry(root, path string) string {
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(path, "~") {
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if abs, err := filepath.Abs(path); err == nil {
		if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

// EnsureEntry appends entry to root's .gitignore unless it is already
// listed. It reports whether the file changed.
func EnsureEntry(root, entry string) (bool, error) {
	if err := checkRepository(root); err != nil {
		return false, err
	}

	path := filepath.Join(root, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read .gitignore: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == entry {
			logger := log.WithComponent("gitig")
			logger.Debug().
				Str("entry", entry).
				Msg("entry already present")
			return false, nil
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return false, fmt.Errorf("open .gitignore: %w", err)
	}
	defer f.Close() //nolint:errcheck // error captured on the write path

	// Keep the file newline-terminated without inserting blank lines.
	var b strings.Builder
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(entry)
	b.WriteByte('\n')

	if _, err := f.WriteString(b.String()); err != nil {
		return false, fmt.Errorf("append to .gitignore: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close .gitignore: %w", err)
	}

	logger := log.WithComponent("gitig")
	logger.Info().
		Str("event", "gitig.entry_added").
		Str("entry", entry).
		Msg("entry added to .gitignore")
	return true, nil
}

// Untrack removes entry from the git index when it is tracked. An
// untracked entry is a no-op, not an error.
func Untrack(root, entry string) error {
	if err := checkRepository(root); err != nil {
		return err
	}

	if _, err := runGit(root, "ls-files", "--error-unmatch", entry); err != nil {
		logger := log.WithComponent("gitig")
		logger.Debug().
			Str("entry", entry).
			Msg("entry not tracked, nothing to remove")
		return nil
	}

	if _, err := runGit(root, "rm", "-r", "--cached", entry); err != nil {
		return err
	}
	logger := log.WithComponent("gitig")
	logger.Info().
		Str("event", "gitig.untracked").
		Str("entry", entry).
		Msg("entry removed from git tracking")
	return nil
}

// Commit stages .gitignore and commits the ignore update.
func Commit(root, entry string) error {
	if err := checkRepository(root); err != nil {
		return err
	}
	if _, err := runGit(root, "add", ".gitignore"); err != nil {
		return err
	}
	msg := fmt.Sprintf("Ignore %q via .gitignore", entry)
	if _, err := runGit(root, "commit", "-m", msg); err != nil {
		return err
	}
	logger := log.WithComponent("gitig")
	logger.Info().
		Str("event", "gitig.committed").
		Str("entry", entry).
		Msg("ignore update committed")
	return nil
}

func checkRepository(root string) error {
	if _, err := os.Stat(filepath.Join(root, ".git")); err != nil {
		return fmt.Errorf("%w: %s", ErrNotARepository, root)
	}
	return nil
}

// runGit executes a git command in root, surfacing captured stderr in
// the wrapped error.
func runGit(root string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = root
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail == "" {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), detail, err)
	}
	return stdout.String(), nil
}
