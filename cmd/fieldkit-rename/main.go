// SPDX-License-Identifier: MIT

// fieldkit-rename renames video files after their recording timestamp.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/neptuneng/fieldkit/internal/log"
	"github.com/neptuneng/fieldkit/internal/rename"
	"github.com/neptuneng/fieldkit/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	label := flag.String("label", "", "optional label prefixed to each new name")
	dryRun := flag.Bool("dry-run", false, "print the planned renames without applying them")
	watch := flag.Bool("watch", false, "keep watching the directory and rename files as they appear")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("fieldkit-rename"))
		os.Exit(0)
	}

	log.Configure(log.Config{
		Level:   *logLevel,
		Service: "fieldkit-rename",
	})
	logger := log.WithComponent("main")

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fieldkit-rename [flags] <directory>")
		os.Exit(2)
	}
	dir := flag.Arg(0)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Fatal().Str("dir", dir).Msg("not a valid directory")
	}

	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := rename.NewWatcher(dir, *label).Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("watch failed")
		}
		return
	}

	plan, err := rename.Plan(dir, *label)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to plan renames")
	}
	if len(plan) == 0 {
		fmt.Println("nothing to rename")
		return
	}

	if *dryRun {
		for _, e := range plan {
			fmt.Printf("%s -> %s (%s)\n", filepath.Base(e.From), filepath.Base(e.To), e.Source)
		}
		return
	}

	if err := rename.Apply(plan); err != nil {
		logger.Fatal().Err(err).Msg("some renames failed")
	}
	fmt.Printf("renamed %d files\n", len(plan))
}
