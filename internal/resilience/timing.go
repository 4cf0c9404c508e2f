// SPDX-License-Identifier: MIT

package resilience

import (
	"time"

	"github.com/rs/zerolog"
)

// Measure runs fn and returns how long it took on the monotonic clock.
func Measure(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

// Timed runs fn, logs its duration at debug level under the given name,
// and returns fn's error unchanged.
func Timed(logger zerolog.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	evt := logger.Debug().
		Str("event", "timing.measured").
		Str("op", name).
		Dur("elapsed", elapsed)
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("operation timed")
	return err
}
