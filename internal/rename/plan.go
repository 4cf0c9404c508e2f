// SPDX-License-Identifier: MIT

// Package rename renames video files after their recording time. The
// timestamp comes from container metadata when available and from the
// filesystem otherwise, and target names are made unique with a counter
// suffix.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neptuneng/fieldkit/internal/log"
)

// videoExts are the container types considered for renaming.
var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".flv": {}, ".wmv": {},
}

// Entry is one planned rename.
type Entry struct {
	From   string // absolute or dir-relative source path
	To     string // target path in the same directory
	Source Source // where the timestamp came from
}

// Plan computes the renames for every video file directly under dir.
// label, when non-empty, is prefixed to each new name. Files already
// carrying their final name are omitted from the plan.
func Plan(dir, label string) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	prefix := label
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}

	// Names already present in the directory; renamed files must not
	// collide with them or with each other.
	taken := make(map[string]struct{}, len(entries))
	var files []string
	for _, e := range entries {
		taken[e.Name()] = struct{}{}
		if e.Type().IsRegular() && isVideo(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var plan []Entry
	for _, name := range files {
		path := filepath.Join(dir, name)
		t, source, err := CreationTime(path)
		if err != nil {
			logger := log.WithComponent("rename")
			logger.Warn().
				Str("event", "rename.timestamp_failed").
				Str("file", name).
				Err(err).
				Msg("could not determine timestamp, skipping")
			continue
		}

		base := prefix + FormatTimestamp(t)
		ext := filepath.Ext(name)

		delete(taken, name)
		target := uniqueName(taken, base, ext)
		taken[target] = struct{}{}

		if target == name {
			continue
		}
		plan = append(plan, Entry{
			From:   path,
			To:     filepath.Join(dir, target),
			Source: source,
		})
	}
	return plan, nil
}

// uniqueName appends a counter suffix until the name is free.
func uniqueName(taken map[string]struct{}, base, ext string) string {
	name := base + ext
	for counter := 1; ; counter++ {
		if _, exists := taken[name]; !exists {
			return name
		}
		name = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}

// Apply performs the planned renames. Failures are logged and collected;
// the remaining entries are still attempted.
func Apply(plan []Entry) error {
	logger := log.WithComponent("rename")

	var errs []error
	for _, e := range plan {
		if err := os.Rename(e.From, e.To); err != nil {
			logger.Error().
				Str("event", "rename.failed").
				Str("from", filepath.Base(e.From)).
				Str("to", filepath.Base(e.To)).
				Err(err).
				Msg("rename failed")
			errs = append(errs, fmt.Errorf("rename %s: %w", filepath.Base(e.From), err))
			continue
		}
		logger.Info().
			Str("event", "rename.applied").
			Str("from", filepath.Base(e.From)).
			Str("to", filepath.Base(e.To)).
			Str("source", string(e.Source)).
			Msg("renamed")
	}
	return errors.Join(errs...)
}

func isVideo(name string) bool {
	_, ok := videoExts[strings.ToLower(filepath.Ext(name))]
	return ok
}
