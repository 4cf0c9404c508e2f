// SPDX-License-Identifier: MIT

package rename

import (
	"strings"
	"time"
)

// layouts tried against each normalised candidate, most specific first.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"20060102 150405",
}

// ParseTimestamp normalises a metadata timestamp string and parses it.
// Container metadata is inconsistent across recorders: a "UTC " prefix or
// " UTC" suffix, a trailing "Z", and "T" vs space separators all occur in
// the wild. Returns ok=false when no form parses.
func ParseTimestamp(raw string) (time.Time, bool) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return time.Time{}, false
	}

	upper := strings.ToUpper(candidate)
	if strings.HasPrefix(upper, "UTC ") {
		candidate = strings.TrimSpace(candidate[4:])
	} else if strings.HasSuffix(upper, " UTC") {
		candidate = strings.TrimSpace(candidate[:len(candidate)-4])
	}

	seen := make(map[string]struct{})
	var candidates []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		candidates = append(candidates, v)
	}

	add(candidate)
	if strings.HasSuffix(candidate, "Z") {
		add(candidate[:len(candidate)-1] + "+00:00")
	}
	for _, v := range append([]string(nil), candidates...) {
		if strings.Contains(v, "T") {
			add(strings.Replace(v, "T", " ", 1))
		}
	}

	for _, v := range candidates {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t in the DDMMYYYY_HHMMSS form used for renamed
// files. Zoned timestamps are converted to local time first.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format("02012006_150405")
}
