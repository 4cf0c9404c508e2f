// SPDX-License-Identifier: MIT

// fieldkit-stopwatch measures the elapsed time of repeated sleep
// intervals against the monotonic clock.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/neptuneng/fieldkit/internal/resilience"
	"github.com/neptuneng/fieldkit/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fieldkit-stopwatch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version and exit")
	repetitions := fs.Int("n", 1, "number of times the sleep interval is executed")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("fieldkit-stopwatch"))
		return 0
	}

	duration := time.Second
	if fs.NArg() > 0 {
		seconds, err := time.ParseDuration(fs.Arg(0) + "s")
		if err != nil {
			fmt.Fprintf(stderr, "invalid duration %q: expected seconds, e.g. 0.5\n", fs.Arg(0))
			return 1
		}
		duration = seconds
	}

	if duration < 0 {
		fmt.Fprintln(stderr, "duration must be non-negative")
		return 1
	}
	if *repetitions < 1 {
		fmt.Fprintln(stderr, "repetitions must be at least 1")
		return 1
	}

	start := time.Now()
	elapsed := resilience.Measure(func() {
		for i := 0; i < *repetitions; i++ {
			time.Sleep(duration)
		}
	})
	end := start.Add(elapsed)

	fmt.Fprintf(stdout, "start     : %s\n", start.Format("15:04:05.000000"))
	fmt.Fprintf(stdout, "end       : %s\n", end.Format("15:04:05.000000"))
	fmt.Fprintf(stdout, "elapsed   : %9.6fs\n", elapsed.Seconds())
	return 0
}
