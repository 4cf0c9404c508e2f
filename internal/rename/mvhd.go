// SPDX-License-Identifier: MIT

package rename

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Source identifies where a file's timestamp came from.
type Source string

const (
	SourceMetadata   Source = "metadata"
	SourceFilesystem Source = "filesystem"
)

// mp4Epoch is the reference instant of MP4/QuickTime timestamps.
var mp4Epoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

var errNoMovieHeader = errors.New("no mvhd atom found")

// CreationTime returns the recording time of the file at path. MP4/MOV
// containers carry it in the mvhd atom; when that is absent, zero, or the
// container cannot be parsed, the filesystem modification time is used.
func CreationTime(path string) (time.Time, Source, error) {
	if t, err := movieCreationTime(path); err == nil {
		return t, SourceMetadata, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, SourceFilesystem, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.ModTime(), SourceFilesystem, nil
}

// movieCreationTime extracts the creation time from the mvhd atom of an
// MP4/QuickTime container.
func movieCreationTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close() //nolint:errcheck // read-only descriptor

	moov, err := findAtom(f, "moov")
	if err != nil {
		return time.Time{}, err
	}
	mvhd, err := findAtom(io.LimitReader(f, moov), "mvhd")
	if err != nil {
		return time.Time{}, err
	}

	header := make([]byte, 12)
	if mvhd < int64(len(header)) {
		return time.Time{}, errNoMovieHeader
	}
	if _, err := io.ReadFull(f, header); err != nil {
		return time.Time{}, err
	}

	// Byte 0 is the version; creation time follows the 3 flag bytes.
	var seconds uint64
	switch header[0] {
	case 0:
		seconds = uint64(binary.BigEndian.Uint32(header[4:8]))
	case 1:
		seconds = binary.BigEndian.Uint64(header[4:12])
	default:
		return time.Time{}, fmt.Errorf("unsupported mvhd version %d", header[0])
	}
	if seconds == 0 {
		return time.Time{}, errNoMovieHeader
	}
	return mp4Epoch.Add(time.Duration(seconds) * time.Second), nil
}

// findAtom advances r to the payload of the first atom with the given
// type and returns the payload length.
func findAtom(r io.Reader, atomType string) (int64, error) {
	var header [8]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, errNoMovieHeader
			}
			return 0, err
		}

		size := int64(binary.BigEndian.Uint32(header[:4]))
		payload := size - 8
		if size == 1 {
			// 64-bit extended size follows the type field.
			var ext [8]byte
			if _, err := io.ReadFull(r, ext[:]); err != nil {
				return 0, err
			}
			size = int64(binary.BigEndian.Uint64(ext[:])) //nolint:gosec // box sizes fit int64 in practice
			payload = size - 16
		}
		if payload < 0 {
			return 0, fmt.Errorf("malformed atom %q with size %d", header[4:8], size)
		}

		if string(header[4:8]) == atomType {
			return payload, nil
		}
		if _, err := io.CopyN(io.Discard, r, payload); err != nil {
			return 0, errNoMovieHeader
		}
	}
}
