package jitter

import (
	"github.com/HdrHistogram/hdrhistogram-go"
)

// Ceiling of the percentile tracker in ticks; roughly 2.5 seconds on a
// 4 GHz counter. Larger deltas are clamped so that recording never fails
// in the absorb path.
const quantileCeiling = int64(10_000_000_000)

// QuantileTracker estimates percentiles of the delta distribution with an
// HDR histogram. It complements the fixed bin table, which stays the
// source of truth for the rendered rows and the tuning advice.
type QuantileTracker struct {
	hist *hdrhistogram.Histogram
}

// NewQuantileTracker allocates a tracker covering [1, quantileCeiling]
// ticks at three significant figures (~30 KB, allocated before sampling).
func NewQuantileTracker() *QuantileTracker {
	return &QuantileTracker{hist: hdrhistogram.New(1, quantileCeiling, 3)}
}

// Record adds one delta, clamping values beyond the trackable ceiling.
func (q *QuantileTracker) Record(delta uint64) {
	v := int64(delta)
	if delta > uint64(quantileCeiling) {
		v = quantileCeiling
	}
	// The clamp keeps v inside the trackable range
	AssertNoErr(ND, q.hist.RecordValue(v))
}

// Quantile returns the delta value at percentile pct (0-100), in ticks.
func (q *QuantileTracker) Quantile(pct float64) uint64 {
	return uint64(q.hist.ValueAtQuantile(pct))
}

// Count returns the number of recorded deltas.
func (q *QuantileTracker) Count() int64 {
	return q.hist.TotalCount()
}
