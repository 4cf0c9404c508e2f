// SPDX-License-Identifier: MIT

package rename

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-15T10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"UTC 2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-15 10:30:00 UTC", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024/03/15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"20240315 103000", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-15 10:30:00+00:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"15/03/2024", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		if tt.ok {
			assert.True(t, got.Equal(tt.want), "raw=%q got=%v want=%v", tt.raw, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	got := FormatTimestamp(time.Date(2024, 3, 15, 10, 30, 45, 0, time.Local))
	assert.Equal(t, "15032024_103045", got)
}

// writeMP4 synthesizes a minimal container: an ftyp atom followed by a
// moov atom holding a version-0 mvhd with the given creation time.
func writeMP4(t *testing.T, path string, creation time.Time) {
	t.Helper()

	seconds := uint32(creation.Sub(mp4Epoch) / time.Second)

	mvhd := make([]byte, 8+4+96)
	binary.BigEndian.PutUint32(mvhd[0:4], uint32(len(mvhd)))
	copy(mvhd[4:8], "mvhd")
	// version 0, flags 0
	binary.BigEndian.PutUint32(mvhd[12:16], seconds)

	moov := make([]byte, 8, 8+len(mvhd))
	binary.BigEndian.PutUint32(moov[0:4], uint32(8+len(mvhd)))
	copy(moov[4:8], "moov")
	moov = append(moov, mvhd...)

	ftyp := make([]byte, 16)
	binary.BigEndian.PutUint32(ftyp[0:4], 16)
	copy(ftyp[4:8], "ftyp")
	copy(ftyp[8:12], "isom")

	require.NoError(t, os.WriteFile(path, append(ftyp, moov...), 0o644))
}

func TestCreationTime_Metadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	writeMP4(t, path, want)

	got, source, err := CreationTime(path)
	require.NoError(t, err)
	assert.Equal(t, SourceMetadata, source)
	assert.True(t, got.Equal(want), "got=%v want=%v", got, want)
}

func TestCreationTime_FallbackToModTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.avi")
	require.NoError(t, os.WriteFile(path, []byte("not a real container"), 0o644))
	mtime := time.Date(2023, 6, 1, 12, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	got, source, err := CreationTime(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFilesystem, source)
	assert.True(t, got.Equal(mtime))
}

func TestCreationTime_ZeroMvhdFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	writeMP4(t, path, mp4Epoch) // creation time 0 in the atom

	_, source, err := CreationTime(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFilesystem, source)
}

func TestCreationTime_Missing(t *testing.T) {
	_, _, err := CreationTime(filepath.Join(t.TempDir(), "nope.mp4"))
	assert.Error(t, err)
}

func TestPlan_RenamesWithMetadataTimestamp(t *testing.T) {
	dir := t.TempDir()
	writeMP4(t, filepath.Join(dir, "VID_0001.mp4"), time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC))

	plan, err := Plan(dir, "")
	require.NoError(t, err)
	require.Len(t, plan, 1)

	want := FormatTimestamp(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)) + ".mp4"
	assert.Equal(t, want, filepath.Base(plan[0].To))
	assert.Equal(t, SourceMetadata, plan[0].Source)
}

func TestPlan_LabelPrefix(t *testing.T) {
	dir := t.TempDir()
	writeMP4(t, filepath.Join(dir, "a.mp4"), time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	plan, err := Plan(dir, "drone")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	base := filepath.Base(plan[0].To)
	assert.True(t, len(base) > 6 && base[:6] == "drone_", "got %q", base)
}

func TestPlan_UniquenessCounter(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	writeMP4(t, filepath.Join(dir, "a.mp4"), ts)
	writeMP4(t, filepath.Join(dir, "b.mp4"), ts)
	writeMP4(t, filepath.Join(dir, "c.mp4"), ts)

	plan, err := Plan(dir, "")
	require.NoError(t, err)
	require.Len(t, plan, 3)

	names := make(map[string]struct{})
	for _, e := range plan {
		names[filepath.Base(e.To)] = struct{}{}
	}
	stamp := FormatTimestamp(ts)
	assert.Contains(t, names, stamp+".mp4")
	assert.Contains(t, names, stamp+"_1.mp4")
	assert.Contains(t, names, stamp+"_2.mp4")
}

func TestPlan_SkipsNonVideo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	plan, err := Plan(dir, "")
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestPlan_SkipsAlreadyNamed(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	writeMP4(t, filepath.Join(dir, FormatTimestamp(ts)+".mp4"), ts)

	plan, err := Plan(dir, "")
	require.NoError(t, err)
	assert.Empty(t, plan, "a file already carrying its final name is left alone")
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	writeMP4(t, filepath.Join(dir, "raw.mp4"), ts)

	plan, err := Plan(dir, "")
	require.NoError(t, err)
	require.NoError(t, Apply(plan))

	_, err = os.Stat(filepath.Join(dir, FormatTimestamp(ts)+".mp4"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "raw.mp4"))
	assert.True(t, os.IsNotExist(err))
}

func TestWatcher_RenamesNewFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, "cam")
	w.PollInterval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before creating the file.
	time.Sleep(100 * time.Millisecond)
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	writeMP4(t, filepath.Join(dir, "incoming.mp4"), ts)

	want := filepath.Join(dir, "cam_"+FormatTimestamp(ts)+".mp4")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(want)
		return err == nil
	}, 5*time.Second, 50*time.Millisecond, "new file should be renamed once stable")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
