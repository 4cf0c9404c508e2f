// SPDX-License-Identifier: MIT

// Package capture reads newline-delimited data from a serial device and
// records it to disk. The engine consumes any io.ReadCloser, so the port
// itself stays behind the OpenPort seam.
package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/neptuneng/fieldkit/internal/config"
	"github.com/neptuneng/fieldkit/internal/log"
	"github.com/neptuneng/fieldkit/internal/metrics"
)

// lineBuffer bounds the reader/writer handoff so a stalled disk applies
// backpressure to the port instead of growing memory.
const lineBuffer = 256

// Summary describes a finished capture run.
type Summary struct {
	SessionID string
	Lines     int
	Flushes   int
	Elapsed   time.Duration
	Output    string
}

// Engine captures lines from a byte stream into an output file.
type Engine struct {
	cfg       config.Capture
	source    io.ReadCloser
	echo      io.Writer
	sessionID string
	logger    zerolog.Logger
	limiter   *rate.Limiter
	closeOnce sync.Once

	lines   int
	flushes int
}

// New creates an engine for the given source. echo receives a copy of
// every captured line (rate-limited per cfg.EchoRate); pass nil to
// disable echoing.
func New(cfg config.Capture, source io.ReadCloser, echo io.Writer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := lookupEncoding(cfg.Encoding); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		source:    source,
		echo:      echo,
		sessionID: uuid.NewString(),
	}
	e.logger = log.WithComponent("capture").With().
		Str("session_id", e.sessionID).
		Logger()
	if cfg.EchoRate > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.EchoRate), 1)
	}
	return e, nil
}

// SessionID returns the identifier tagged onto every log line of this run.
func (e *Engine) SessionID() string { return e.sessionID }

// Run captures until the source is exhausted, the configured line limit is
// reached, or ctx is cancelled. Cancellation is a graceful stop: buffered
// lines are flushed and the output closed before Run returns.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	e.logger.Info().
		Str("event", "capture.session_start").
		Str("port", e.cfg.Port).
		Int("baud", e.cfg.Baud).
		Str("output", e.cfg.Output).
		Int("max_lines", e.cfg.MaxLines).
		Msg("capture session started")

	decoded, err := decodingReader(e.source, e.cfg.Encoding)
	if err != nil {
		return Summary{}, err
	}

	lines := make(chan string, lineBuffer)
	g, gctx := errgroup.WithContext(ctx)

	// Close the source on cancellation so a blocked Read unwinds.
	go func() {
		<-gctx.Done()
		e.closeSource()
	}()

	g.Go(func() error { return e.readLines(gctx, decoded, lines) })
	g.Go(func() error { return e.writeLines(lines) })

	err = g.Wait()
	e.closeSource()

	summary := Summary{
		SessionID: e.sessionID,
		Lines:     e.lines,
		Flushes:   e.flushes,
		Elapsed:   time.Since(start),
		Output:    e.cfg.Output,
	}
	e.logger.Info().
		Str("event", "capture.session_complete").
		Int("lines", summary.Lines).
		Int("flushes", summary.Flushes).
		Dur("elapsed", summary.Elapsed).
		Msg("capture session complete")
	return summary, err
}

// readLines scans the decoded stream and hands complete lines to the
// writer. It owns the channel and closes it on return.
func (e *Engine) readLines(ctx context.Context, r io.Reader, lines chan<- string) error {
	defer close(lines)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		select {
		case lines <- line:
		case <-ctx.Done():
			return nil
		}
		count++
		if e.cfg.MaxLines > 0 && count >= e.cfg.MaxLines {
			e.logger.Info().
				Str("event", "capture.line_limit").
				Int("max_lines", e.cfg.MaxLines).
				Msg("line limit reached")
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		// A closed source during shutdown is the expected unwind path.
		if ctx.Err() != nil || errors.Is(err, fs.ErrClosed) {
			return nil
		}
		metrics.IncCaptureReadError()
		e.logger.Error().
			Str("event", "capture.read_failed").
			Err(err).
			Msg("read from source failed")
		return fmt.Errorf("read from source: %w", err)
	}
	return nil
}

// writeLines drains the channel into the output file, flushing every
// FlushEvery lines and once more at the end.
func (e *Engine) writeLines(lines <-chan string) error {
	f, err := e.openOutput()
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	pending := 0
	for line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = f.Close()
			return fmt.Errorf("write output: %w", err)
		}
		e.lines++
		pending++
		metrics.AddCaptureLines(1)
		e.echoLine(line)

		if pending >= e.cfg.FlushEvery {
			if err := w.Flush(); err != nil {
				_ = f.Close()
				return fmt.Errorf("flush output: %w", err)
			}
			pending = 0
			e.flushes++
			metrics.IncCaptureFlush()
		}
	}

	if pending > 0 {
		if err := w.Flush(); err != nil {
			_ = f.Close()
			return fmt.Errorf("flush output: %w", err)
		}
		e.flushes++
		metrics.IncCaptureFlush()
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func (e *Engine) openOutput() (*os.File, error) {
	if dir := filepath.Dir(e.cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if e.cfg.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(e.cfg.Output, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", e.cfg.Output, err)
	}
	return f, nil
}

// echoLine mirrors a captured line to the echo writer, dropping lines
// that exceed the configured rate instead of stalling the capture path.
func (e *Engine) echoLine(line string) {
	if e.echo == nil {
		return
	}
	if e.limiter != nil && !e.limiter.Allow() {
		return
	}
	fmt.Fprintln(e.echo, line)
}

func (e *Engine) closeSource() {
	e.closeOnce.Do(func() {
		if err := e.source.Close(); err != nil {
			e.logger.Debug().Err(err).Msg("close source")
		}
	})
}
