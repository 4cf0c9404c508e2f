// SPDX-License-Identifier: MIT

package fsio

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "test.txt")

	err := WriteFileAtomic(path, []byte("Hello, World!\nTest content."), WriteOptions{})
	require.NoError(t, err, "parent directories must be created")

	got, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!\nTest content.", got)
}

func TestWriteFileAtomic_Replace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("old"), WriteOptions{}))
	require.NoError(t, WriteFileAtomic(path, []byte("new"), WriteOptions{}))

	got, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "new", got)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_Backup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), WriteOptions{Backup: true}))
	// First write has nothing to back up.
	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, WriteFileAtomic(path, []byte("second"), WriteOptions{Backup: true}))

	bak, err := ReadText(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "first", bak)

	got, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestReadText_Missing(t *testing.T) {
	_, err := ReadText(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestJSON_RoundTrip(t *testing.T) {
	type payload struct {
		Name   string `json:"name"`
		Values []int  `json:"values"`
	}

	path := filepath.Join(t.TempDir(), "test.json")
	want := payload{Name: "Test", Values: []int{1, 2, 3}}

	require.NoError(t, WriteJSON(path, want, WriteOptions{}))

	var got payload
	require.NoError(t, ReadJSON(path, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var v map[string]any
	err := ReadJSON(path, &v)
	assert.Error(t, err)
}

func TestCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	header := []string{"name", "age"}
	rows := [][]string{{"Alice", "30"}, {"Bob", "25"}}
	require.NoError(t, WriteCSV(path, header, rows, WriteOptions{}))

	got, err := ReadCSV(path, ',')
	require.NoError(t, err)

	want := []map[string]string{
		{"name": "Alice", "age": "30"},
		{"name": "Bob", "age": "25"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CSV round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_CustomDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(path, []byte("a;b\n1;2\n"), 0o644))

	got, err := ReadCSV(path, ';')
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"a": "1", "b": "2"}}, got)
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o750))
	for _, name := range []string{"a.txt", "b.log", filepath.Join("nested", "c.txt")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	flat, err := FindFiles(dir, "*.txt", false)
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, "a.txt", filepath.Base(flat[0]))

	deep, err := FindFiles(dir, "*.txt", true)
	require.NoError(t, err)
	bases := make([]string, len(deep))
	for i, p := range deep {
		bases[i] = filepath.Base(p)
	}
	sort.Strings(bases)
	assert.Equal(t, []string{"a.txt", "c.txt"}, bases)
}

func TestFindFiles_MissingDir(t *testing.T) {
	_, err := FindFiles(filepath.Join(t.TempDir(), "nope"), "*", true)
	assert.Error(t, err)
}
