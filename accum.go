package jitter

import "math"

// RunStats aggregates every delta absorbed during one run. The mean and
// the variance numerator are maintained with Welford's online update, so
// they stay accurate over tens of millions of samples where naive
// summation of squares would lose precision.
type RunStats struct {
	Count uint64  `json:"count"`
	Sum   uint64  `json:"sum"`
	Mean  float64 `json:"mean"`
	// Welford M2: sum of squared distances from the running mean
	M2          float64 `json:"m2"`
	Min         uint64  `json:"min"`
	Max         uint64  `json:"max"`
	TimingTicks uint64  `json:"timing_ticks"`
}

// AvgTicks returns the integer mean of all deltas, as shown in reports.
func (s RunStats) AvgTicks() uint64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / s.Count
}

// ObservedMin returns the smallest delta seen, or 0 before any sample.
func (s RunStats) ObservedMin() uint64 {
	if s.Count == 0 {
		return 0
	}
	return s.Min
}

// Variance returns the population variance of the deltas.
func (s RunStats) Variance() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.M2 / float64(s.Count)
}

// StdDev returns the population standard deviation of the deltas.
func (s RunStats) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// Accumulator classifies deltas into bins and maintains the running
// statistics, the outlier ring and the optional percentile tracker. It is
// the sole owner of all of them for the duration of a run; nothing here
// is safe for concurrent use and nothing needs to be.
type Accumulator struct {
	bins      []Bin
	knee      uint64
	stats     RunStats
	outliers  *OutlierLog      // nil when capture is disabled
	quantiles *QuantileTracker // nil when tracking is disabled
}

// NewAccumulator wires an accumulator to its bin table. outliers and
// quantiles may be nil to disable the respective capture.
func NewAccumulator(bins []Bin, knee uint64, outliers *OutlierLog, quantiles *QuantileTracker) *Accumulator {
	return &Accumulator{
		bins:      bins,
		knee:      knee,
		stats:     RunStats{Min: math.MaxUint64},
		outliers:  outliers,
		quantiles: quantiles,
	}
}

// Absorb folds one delta into the state. when is the counter value
// attributed to the delta if it turns out to be an outlier. Absorb never
// fails: the sentinel bound guarantees the bin scan terminates.
func (a *Accumulator) Absorb(delta, when uint64) {
	s := &a.stats
	if delta < s.Min {
		s.Min = delta
	}
	if delta > s.Max {
		s.Max = delta
	}

	// Linear scan beats binary search at this table size; the counts
	// stay in cache across the whole batch.
	i := 0
	for delta > a.bins[i].UpperBound {
		i++
	}
	a.bins[i].Count++

	s.Count++
	s.Sum += delta

	lastMean := s.Mean
	s.Mean += (float64(delta) - lastMean) / float64(s.Count)
	s.M2 += (float64(delta) - s.Mean) * (float64(delta) - lastMean)

	if a.outliers != nil && delta > a.knee {
		a.outliers.Record(when, delta)
	}
	if a.quantiles != nil {
		a.quantiles.Record(delta)
	}
}

// AbsorbBatch folds in a whole batch and accounts its tick span into the
// timing overhead total.
func (a *Accumulator) AbsorbBatch(b *Batch) {
	for _, d := range b.Deltas {
		a.Absorb(d, b.Mid)
	}
	a.stats.TimingTicks += b.Span
}

// Stats returns a copy of the aggregated statistics.
func (a *Accumulator) Stats() RunStats {
	return a.stats
}

// Bins exposes the bin table with its accumulated counts.
func (a *Accumulator) Bins() []Bin {
	return a.bins
}

// Outliers returns the outlier ring, or nil when capture is disabled.
func (a *Accumulator) Outliers() *OutlierLog {
	return a.outliers
}

// Quantiles returns the percentile tracker, or nil when disabled.
func (a *Accumulator) Quantiles() *QuantileTracker {
	return a.quantiles
}
