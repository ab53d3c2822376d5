package jitter

import (
	"fmt"
	"math"
)

// Sentinel is the upper bound of the last histogram bin, meaning "no upper
// limit". It guarantees that a linear scan over the bin table terminates.
const Sentinel uint64 = math.MaxUint64

// Bin is one histogram bucket: an inclusive upper bound on delta values in
// ticks, and the count of samples that landed in it.
type Bin struct {
	UpperBound uint64
	Count      uint64
}

// BuildBins produces the ordered table of bin upper bounds for a
// configuration. The lower half of the table divides [min, knee] into
// equal integer steps (truncating division, same rounding as the report
// consumers expect); the upper half advances by alternating x2 and x10
// multipliers from the knee, a half order of magnitude per bin. The last
// bound is forced to the Sentinel.
//
// The same Config always yields the same table; there is no hidden state.
func BuildBins(cfg Config) ([]Bin, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bins := make([]Bin, cfg.Bins)
	half := cfg.Bins / 2
	for i := 0; i < half; i++ {
		bins[i].UpperBound = cfg.Min + (cfg.Knee-cfg.Min)*uint64(i+1)/uint64(half)
	}

	mult := cfg.Knee
	for i := half; i < cfg.Bins; i += 2 {
		bins[i].UpperBound = mult * 2
		mult *= 10
		if i+1 < cfg.Bins {
			bins[i+1].UpperBound = mult
		}
	}
	bins[cfg.Bins-1].UpperBound = Sentinel

	// The multiplier wraps around for very large bin counts; refuse the
	// table rather than hand out non-monotonic bounds.
	for i := 1; i < cfg.Bins-1; i++ {
		if bins[i].UpperBound <= bins[i-1].UpperBound {
			return nil, fmt.Errorf("%w: %d bins overflow the exponential range above knee %d",
				ErrConfig, cfg.Bins, cfg.Knee)
		}
	}

	return bins, nil
}
