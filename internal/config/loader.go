// SPDX-License-Identifier: MIT

// Package config loads capture settings with the precedence
// ENV > file > defaults. The file is YAML; environment variables use the
// FIELDKIT_ prefix.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Capture is the resolved configuration of a capture run.
type Capture struct {
	Port        string        // serial device, e.g. /dev/ttyUSB0 or COM3
	Baud        int           // line speed in bits per second
	ReadTimeout time.Duration // per-read timeout on the port
	Output      string        // destination file for captured lines
	Append      bool          // append to Output instead of truncating
	MaxLines    int           // stop after this many lines, 0 = unlimited
	FlushEvery  int           // flush the output buffer every N lines
	Encoding    string        // input charset: utf-8, latin-1, windows-1252
	EchoRate    float64       // stdout echo limit in lines/s, 0 = unlimited
}

// fileCapture mirrors Capture for YAML decoding. Pointer fields make
// "absent" distinguishable from zero values.
type fileCapture struct {
	Port        *string  `yaml:"port"`
	Baud        *int     `yaml:"baud"`
	ReadTimeout *string  `yaml:"read_timeout"`
	Output      *string  `yaml:"output"`
	Append      *bool    `yaml:"append"`
	MaxLines    *int     `yaml:"max_lines"`
	FlushEvery  *int     `yaml:"flush_every"`
	Encoding    *string  `yaml:"encoding"`
	EchoRate    *float64 `yaml:"echo_rate"`
}

// Defaults used when neither the environment nor the file provides a value.
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 500 * time.Millisecond
	DefaultFlushEvery  = 10
	DefaultEncoding    = "utf-8"
)

// Loader resolves a Capture config from a YAML file and the environment.
type Loader struct {
	configPath string
}

// NewLoader creates a loader. An empty configPath skips the file layer.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load resolves the configuration from environment and file. Callers
// apply any flag overrides on top and then call Validate; flags outrank
// both layers.
func (l *Loader) Load() (Capture, error) {
	fc, err := l.loadFile()
	if err != nil {
		return Capture{}, err
	}

	cfg := Capture{
		Port:        ParseString("FIELDKIT_CAPTURE_PORT", strOr(fc.Port, "")),
		Baud:        ParseInt("FIELDKIT_CAPTURE_BAUD", intOr(fc.Baud, DefaultBaud)),
		ReadTimeout: ParseDuration("FIELDKIT_CAPTURE_READ_TIMEOUT", durOr(fc.ReadTimeout, DefaultReadTimeout)),
		Output:      ParseString("FIELDKIT_CAPTURE_OUTPUT", strOr(fc.Output, "")),
		Append:      ParseBool("FIELDKIT_CAPTURE_APPEND", boolOr(fc.Append, false)),
		MaxLines:    ParseInt("FIELDKIT_CAPTURE_MAX_LINES", intOr(fc.MaxLines, 0)),
		FlushEvery:  ParseInt("FIELDKIT_CAPTURE_FLUSH_EVERY", intOr(fc.FlushEvery, DefaultFlushEvery)),
		Encoding:    ParseString("FIELDKIT_CAPTURE_ENCODING", strOr(fc.Encoding, DefaultEncoding)),
		EchoRate:    ParseFloat("FIELDKIT_CAPTURE_ECHO_RATE", floatOr(fc.EchoRate, 0)),
	}

	return cfg, nil
}

// Validate reports every violation at once so a bad config can be fixed
// in a single pass.
func (c Capture) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must be set"))
	}
	if c.Baud <= 0 {
		errs = append(errs, fmt.Errorf("baud must be positive, got %d", c.Baud))
	}
	if c.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("read_timeout must be positive, got %s", c.ReadTimeout))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output must be set"))
	}
	if c.MaxLines < 0 {
		errs = append(errs, fmt.Errorf("max_lines must not be negative, got %d", c.MaxLines))
	}
	if c.FlushEvery < 1 {
		errs = append(errs, fmt.Errorf("flush_every must be at least 1, got %d", c.FlushEvery))
	}
	if c.EchoRate < 0 {
		errs = append(errs, fmt.Errorf("echo_rate must not be negative, got %g", c.EchoRate))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid capture config: %w", err)
	}
	return nil
}

func (l *Loader) loadFile() (fileCapture, error) {
	var fc fileCapture
	if l.configPath == "" {
		return fc, nil
	}
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, fmt.Errorf("config file not found: %s", l.configPath)
		}
		return fc, fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", l.configPath, err)
	}
	return fc, nil
}

func strOr(p *string, def string) string {
	if p != nil {
		return *p
	}
	return def
}

func intOr(p *int, def int) int {
	if p != nil {
		return *p
	}
	return def
}

func boolOr(p *bool, def bool) bool {
	if p != nil {
		return *p
	}
	return def
}

func floatOr(p *float64, def float64) float64 {
	if p != nil {
		return *p
	}
	return def
}

func durOr(p *string, def time.Duration) time.Duration {
	if p == nil {
		return def
	}
	d, err := time.ParseDuration(*p)
	if err != nil {
		return def
	}
	return d
}
