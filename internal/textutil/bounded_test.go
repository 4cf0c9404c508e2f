// SPDX-License-Identifier: MIT

package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyBounded(t *testing.T) {
	tests := []struct {
		name    string
		dstSize int
		src     string
		wantN   int
		wantErr error
		wantStr string
	}{
		{"fits", 32, "Hello, World!", 13, nil, "Hello, World!"},
		{"exact fit", 6, "hello", 5, nil, "hello"},
		{"truncated", 8, "This is a very long string", 7, ErrTruncated, "This is"},
		{"boundary truncation", 5, "hello", 4, ErrTruncated, "hell"},
		{"empty source", 4, "", 0, nil, ""},
		{"single byte buffer", 1, "x", 0, ErrTruncated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.dstSize)
			n, err := CopyBounded(dst, tt.src)
			assert.Equal(t, tt.wantN, n)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStr, CString(dst))
			assert.Zero(t, dst[n], "terminator missing")
		})
	}
}

func TestCopyBounded_EmptyDestination(t *testing.T) {
	_, err := CopyBounded(nil, "data")
	assert.ErrorIs(t, err, ErrBadBuffer)
}

func TestAppendBounded(t *testing.T) {
	dst := make([]byte, 32)
	_, err := CopyBounded(dst, "Hello")
	require.NoError(t, err)

	n, err := AppendBounded(dst, ", World!")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "Hello, World!", CString(dst))
}

func TestAppendBounded_Truncates(t *testing.T) {
	dst := make([]byte, 10)
	_, err := CopyBounded(dst, "Hello")
	require.NoError(t, err)

	n, err := AppendBounded(dst, " Extra text!")
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, 4, n)
	assert.Equal(t, "Hello Ext", CString(dst))
}

func TestAppendBounded_NotTerminated(t *testing.T) {
	dst := []byte{'a', 'b', 'c', 'd'}
	_, err := AppendBounded(dst, "x")
	assert.ErrorIs(t, err, ErrNotTerminated)
}

func TestFormatBounded(t *testing.T) {
	dst := make([]byte, 32)
	n, err := FormatBounded(dst, "Number: %d, Float: %.2f", 42, 3.14)
	require.NoError(t, err)
	assert.Equal(t, "Number: 42, Float: 3.14", CString(dst))
	assert.Equal(t, len("Number: 42, Float: 3.14"), n)

	small := make([]byte, 8)
	_, err = FormatBounded(small, "Number: %d", 123456)
	assert.ErrorIs(t, err, ErrTruncated)
	assert.Equal(t, "Number:", CString(small))
}

func TestCString_NoTerminator(t *testing.T) {
	assert.Equal(t, "abc", CString([]byte{'a', 'b', 'c'}))
	assert.Equal(t, "", CString(nil))
}
