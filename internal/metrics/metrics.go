// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pool metrics
	poolBlocksInUse = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fieldkit_pool_blocks_in_use",
		Help: "Number of pool blocks currently allocated",
	}, []string{"pool"})

	poolBlocksPeak = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fieldkit_pool_blocks_peak",
		Help: "Peak number of pool blocks allocated simultaneously",
	}, []string{"pool"})

	poolAllocFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldkit_pool_alloc_failures_total",
		Help: "Pool allocation failures by reason",
	}, []string{"pool", "reason"}) // reason=exhausted|bad_size

	guardViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldkit_guard_violations_total",
		Help: "Total number of guard word corruptions detected",
	})

	// Cache metrics
	cacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fieldkit_cache_ops_total",
		Help: "Cache operations by outcome",
	}, []string{"outcome"}) // outcome=hit|miss|set|eviction

	// Capture metrics
	captureLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldkit_capture_lines_total",
		Help: "Total number of lines captured from serial ports",
	})

	captureFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldkit_capture_flushes_total",
		Help: "Total number of output file flushes during capture",
	})

	captureReadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fieldkit_capture_read_errors_total",
		Help: "Total number of serial read failures",
	})
)

// SetPoolInUse records the current pool occupancy.
func SetPoolInUse(pool string, n int) {
	poolBlocksInUse.WithLabelValues(pool).Set(float64(n))
}

// SetPoolPeak records the high-water mark of pool occupancy.
func SetPoolPeak(pool string, n int) {
	poolBlocksPeak.WithLabelValues(pool).Set(float64(n))
}

// IncPoolAllocFailure counts a failed allocation.
func IncPoolAllocFailure(pool, reason string) {
	poolAllocFailures.WithLabelValues(pool, reason).Inc()
}

// IncGuardViolation counts a detected guard word corruption.
func IncGuardViolation() {
	guardViolations.Inc()
}

// IncCacheOp counts a cache operation outcome.
func IncCacheOp(outcome string) {
	cacheOps.WithLabelValues(outcome).Inc()
}

// AddCaptureLines counts lines written during capture.
func AddCaptureLines(n int) {
	captureLines.Add(float64(n))
}

// IncCaptureFlush counts an output flush.
func IncCaptureFlush() {
	captureFlushes.Inc()
}

// IncCaptureReadError counts a serial read failure.
func IncCaptureReadError() {
	captureReadErrors.Inc()
}
