// SPDX-License-Identifier: MIT

// Package textutil provides bounded buffer string operations with explicit
// truncation reporting, for code that exchanges NUL-terminated text with
// firmware or fixed-width record formats.
package textutil

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrTruncated reports that the source did not fit and was cut off.
	// The destination still holds a valid NUL-terminated prefix.
	ErrTruncated = errors.New("textutil: truncated")
	// ErrBadBuffer reports a destination that cannot hold any string.
	ErrBadBuffer = errors.New("textutil: invalid destination buffer")
	// ErrNotTerminated reports a destination without a NUL terminator.
	ErrNotTerminated = errors.New("textutil: destination not NUL-terminated")
)

// CopyBounded copies src into dst, writing at most len(dst)-1 bytes and
// always NUL-terminating. It returns the number of bytes copied (without
// the terminator) and ErrTruncated when src did not fit entirely.
func CopyBounded(dst []byte, src string) (int, error) {
	if len(dst) == 0 {
		return 0, ErrBadBuffer
	}
	n := copy(dst[:len(dst)-1], src)
	dst[n] = 0
	if n < len(src) {
		return n, ErrTruncated
	}
	return n, nil
}

// AppendBounded appends src after the existing NUL-terminated content of
// dst. The destination must already be NUL-terminated. It returns the
// number of bytes appended and ErrTruncated when src did not fit.
func AppendBounded(dst []byte, src string) (int, error) {
	if len(dst) == 0 {
		return 0, ErrBadBuffer
	}
	end := bytes.IndexByte(dst, 0)
	if end < 0 {
		return 0, ErrNotTerminated
	}
	n := copy(dst[end:len(dst)-1], src)
	dst[end+n] = 0
	if n < len(src) {
		return n, ErrTruncated
	}
	return n, nil
}

// FormatBounded renders format/args into dst with the same contract as
// CopyBounded: at most len(dst)-1 bytes, always NUL-terminated, and
// ErrTruncated when the rendering did not fit.
func FormatBounded(dst []byte, format string, args ...any) (int, error) {
	return CopyBounded(dst, fmt.Sprintf(format, args...))
}

// CString returns the content of buf up to the first NUL, or the whole
// buffer if no terminator is present.
func CString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}
