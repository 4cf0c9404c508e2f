// SPDX-License-Identifier: MIT

package rename

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/neptuneng/fieldkit/internal/log"
)

// Watcher renames video files as they appear in a directory. Newly
// created files are left alone until their size stops changing, so a
// file still being copied in is never renamed mid-transfer.
type Watcher struct {
	dir   string
	label string

	// PollInterval is the cadence of the size-stability probe.
	PollInterval time.Duration

	logger zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewWatcher creates a watcher for dir. label follows Plan semantics.
func NewWatcher(dir, label string) *Watcher {
	return &Watcher{
		dir:          dir,
		label:        label,
		PollInterval: 250 * time.Millisecond,
		logger:       log.WithComponent("rename"),
		inFlight:     make(map[string]struct{}),
	}
}

// Run watches until ctx is cancelled. Rename failures are logged, not
// fatal; the watch continues.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck // shutdown path

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info().
		Str("event", "rename.watch_start").
		Str("dir", w.dir).
		Msg("watching for new video files")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Create) || !isVideo(ev.Name) {
				continue
			}
			if !w.claim(ev.Name) {
				continue
			}
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				defer w.release(path)
				w.handleNewFile(ctx, path)
			}(ev.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().
				Str("event", "rename.watch_error").
				Err(err).
				Msg("watch error")
		}
	}
}

// handleNewFile waits for the file to stop growing, then renames it.
func (w *Watcher) handleNewFile(ctx context.Context, path string) {
	if err := w.waitStable(ctx, path); err != nil {
		return
	}
	if err := w.renameOne(path); err != nil {
		w.logger.Error().
			Str("event", "rename.failed").
			Str("file", filepath.Base(path)).
			Err(err).
			Msg("rename failed")
	}
}

// waitStable returns once two consecutive size probes agree, or with an
// error when the file vanishes or ctx is cancelled.
func (w *Watcher) waitStable(ctx context.Context, path string) error {
	lastSize := int64(-1)
	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.Size() == lastSize {
				return nil
			}
			lastSize = info.Size()
		}
	}
}

// renameOne applies Plan naming to a single file.
func (w *Watcher) renameOne(path string) error {
	name := filepath.Base(path)

	t, source, err := CreationTime(path)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", w.dir, err)
	}
	taken := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		taken[e.Name()] = struct{}{}
	}
	delete(taken, name)

	prefix := w.label
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	target := uniqueName(taken, prefix+FormatTimestamp(t), filepath.Ext(name))
	if target == name {
		return nil
	}

	if err := os.Rename(path, filepath.Join(w.dir, target)); err != nil {
		return err
	}
	w.logger.Info().
		Str("event", "rename.applied").
		Str("from", name).
		Str("to", target).
		Str("source", string(source)).
		Msg("renamed")
	return nil
}

func (w *Watcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[path]; busy {
		return false
	}
	w.inFlight[path] = struct{}{}
	return true
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, path)
}
