// SPDX-License-Identifier: MIT

// Package fsio provides robust file I/O helpers: atomic durable writes
// with optional backups, JSON and CSV convenience wrappers, and recursive
// file discovery.
package fsio

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/neptuneng/fieldkit/internal/log"
)

// WriteOptions controls WriteFileAtomic behavior.
type WriteOptions struct {
	// Backup copies the previous file content to <path>.bak before the
	// replace, when the file already exists.
	Backup bool
}

// ReadText returns the content of the file at path.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFileAtomic writes data to path with an atomic, durable replace:
// the content lands in a temp file which is fsynced and renamed over the
// target, so readers observe either the old or the new content, never a
// partial write. Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	if opts.Backup {
		if err := backupExisting(path); err != nil {
			return err
		}
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		// renameio removes the temp file when it was not committed.
		if err := pending.Cleanup(); err != nil {
			logger := log.WithComponent("fsio")
			logger.Debug().Err(err).Msg("cleanup pending file")
		}
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// backupExisting snapshots the current content of path to path.bak.
// A missing original is not an error.
func backupExisting(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read original for backup: %w", err)
	}
	bak := path + ".bak"
	if err := renameio.WriteFile(bak, data, 0o644); err != nil {
		return fmt.Errorf("write backup %s: %w", bak, err)
	}
	logger := log.WithComponent("fsio")
	logger.Debug().
		Str("event", "fsio.backup_created").
		Str("path", bak).
		Msg("backup created")
	return nil
}

// FindFiles returns the files under dir whose base name matches pattern
// (filepath.Match syntax). With recursive set, subdirectories are walked;
// otherwise only direct children are considered.
func FindFiles(dir, pattern string, recursive bool) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("directory not found: %w", err)
	}

	if !recursive {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		var files []string
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
				files = append(files, m)
			}
		}
		return files, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
