// SPDX-License-Identifier: MIT

// Package version holds build metadata injected via ldflags.
package version

import "fmt"

var (
	// Version is the release tag, populated by the build system.
	Version = "dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the full build identification for --version output.
func String(tool string) string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", tool, Version, Commit, Date)
}
