// SPDX-License-Identifier: MIT

// fieldkit-gitignore adds paths to a repository's .gitignore, removes
// them from tracking, and commits the change.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/neptuneng/fieldkit/internal/gitig"
	"github.com/neptuneng/fieldkit/internal/log"
	"github.com/neptuneng/fieldkit/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	root := flag.String("root", ".", "repository root")
	rulesPath := flag.String("rules", "", "apply all entries from a TOML rules file")
	noCommit := flag.Bool("no-commit", false, "skip the commit step")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("fieldkit-gitignore"))
		os.Exit(0)
	}

	log.Configure(log.Config{
		Level:   *logLevel,
		Service: "fieldkit-gitignore",
	})
	logger := log.WithComponent("main")

	if *rulesPath != "" {
		rules, err := gitig.LoadRules(*rulesPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load rules")
		}
		added, err := gitig.Apply(*root, rules)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to apply rules")
		}
		fmt.Printf("applied %d rules, %d new\n", len(rules.Entries), added)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fieldkit-gitignore [flags] <path>")
		os.Exit(2)
	}

	entry := gitig.NormalizeEntry(*root, flag.Arg(0))
	added, err := gitig.EnsureEntry(*root, entry)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to update .gitignore")
	}
	if err := gitig.Untrack(*root, entry); err != nil {
		logger.Fatal().Err(err).Msg("failed to untrack entry")
	}

	if !added {
		fmt.Printf("%q already ignored, commit skipped\n", entry)
		return
	}
	if *noCommit {
		fmt.Printf("added %q to .gitignore\n", entry)
		return
	}
	if err := gitig.Commit(*root, entry); err != nil {
		logger.Fatal().Err(err).Msg("failed to commit")
	}
	fmt.Printf("added %q to .gitignore and committed\n", entry)
}
