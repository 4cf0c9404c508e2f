// SPDX-License-Identifier: MIT

// fieldkit-capture records newline-delimited serial output to a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neptuneng/fieldkit/internal/capture"
	"github.com/neptuneng/fieldkit/internal/config"
	fklog "github.com/neptuneng/fieldkit/internal/log"
	"github.com/neptuneng/fieldkit/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	listPorts := flag.Bool("list", false, "list serial ports and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	port := flag.String("port", "", "serial device (overrides config)")
	baud := flag.Int("baud", 0, "baud rate (overrides config)")
	output := flag.String("output", "", "output file (overrides config)")
	appendOut := flag.Bool("append", false, "append to the output file")
	maxLines := flag.Int("max-lines", -1, "stop after N lines, 0 = unlimited (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("fieldkit-capture"))
		os.Exit(0)
	}

	fklog.Configure(fklog.Config{
		Level:   *logLevel,
		Service: "fieldkit-capture",
	})
	logger := fklog.WithComponent("main")

	if *listPorts {
		ports, err := capture.ListPorts()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to list serial ports")
		}
		if len(ports) == 0 {
			fmt.Println("no serial ports found")
			return
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Flags win over both environment and file.
	if *port != "" {
		cfg.Port = *port
	}
	if *baud > 0 {
		cfg.Baud = *baud
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *appendOut {
		cfg.Append = true
	}
	if *maxLines >= 0 {
		cfg.MaxLines = *maxLines
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", *metricsAddr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	src, err := capture.OpenPort(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open serial port")
	}

	eng, err := capture.New(cfg, src, os.Stdout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create capture engine")
	}

	summary, err := eng.Run(ctx)
	if err != nil {
		logger.Fatal().
			Str("session_id", summary.SessionID).
			Err(err).
			Msg("capture failed")
	}
	fmt.Printf("captured %d lines to %s in %s\n",
		summary.Lines, summary.Output, summary.Elapsed.Round(time.Millisecond))
}
