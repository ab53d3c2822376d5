package jitter

import (
	"errors"
	"fmt"
)

// Errors surfaced before sampling starts. All configuration failures wrap
// ErrConfig; failures to obtain buffers or sinks wrap ErrResource.
var (
	ErrConfig   = errors.New("invalid configuration")
	ErrResource = errors.New("resource unavailable")
)

// Bounds on the report line width, derived from the fixed row header and
// the longest possible bar.
const (
	MinLineWidth = len(reportHeader) + 1
	MaxLineWidth = len(reportHeader) + len(graphText)
)

// Largest accepted outlier ring capacity. Sixteen bytes per slot keeps the
// limit at ~1.6 GB, past which the allocation is refused instead of letting
// the runtime abort.
const maxOutBuf = 100_000_000

// Config holds the validated parameters of one measurement run. It is
// created by the caller (normally from command-line flags), checked with
// Validate and immutable afterwards.
type Config struct {
	// Number of histogram bins; must be even since the table is split
	// into a linear and an exponential half
	Bins int `json:"bins"`
	// Upper bound of the linearly binned region (ticks)
	Knee uint64 `json:"knee"`
	// Lower bound of the first bin (ticks); deltas below it are counted
	// in the first bin anyway
	Min uint64 `json:"min"`
	// Capacity of the outlier ring buffer; 0 disables outlier capture
	OutBuf int `json:"outbuf"`
	// Track percentiles of the delta distribution alongside the bins
	Quantiles bool `json:"quantiles"`
	// Pause before each batch (milliseconds)
	Pause int `json:"pause"`
	// Run duration (seconds)
	Runtime int `json:"runtime"`
	// Maximum report line width (characters)
	LineWidth int `json:"width"`
}

// DefaultConfig returns the stock settings: 20 bins, knee at 50 ticks,
// minimum at 10 ticks, 10000-slot outlier ring, no pause, 1 second run,
// 79-character lines.
func DefaultConfig() Config {
	return Config{
		Bins:      20,
		Knee:      50,
		Min:       10,
		OutBuf:    10000,
		Quantiles: true,
		Pause:     0,
		Runtime:   1,
		LineWidth: 79,
	}
}

// Validate checks the relationships between bins, knee, min and the report
// width. Any violation is reported as an ErrConfig before sampling starts.
func (c Config) Validate() error {
	if c.Bins < 2 || c.Bins%2 != 0 {
		return fmt.Errorf("%w: bins (%d) must be an even number, at least 2", ErrConfig, c.Bins)
	}
	if c.Knee <= c.Min {
		return fmt.Errorf("%w: min (%d) must be less than knee (%d)", ErrConfig, c.Min, c.Knee)
	}
	if c.Knee-c.Min < uint64(c.Bins/2) {
		return fmt.Errorf("%w: too few (%d) discrete values between min (%d) and knee (%d) for %d linear bins",
			ErrConfig, c.Knee-c.Min, c.Min, c.Knee, c.Bins/2)
	}
	if c.OutBuf < 0 {
		return fmt.Errorf("%w: outlier buffer size (%d) is negative", ErrConfig, c.OutBuf)
	}
	if c.LineWidth < MinLineWidth {
		return fmt.Errorf("%w: line width %d is below the minimum %d", ErrConfig, c.LineWidth, MinLineWidth)
	}
	if c.LineWidth > MaxLineWidth {
		return fmt.Errorf("%w: line width %d exceeds the maximum %d", ErrConfig, c.LineWidth, MaxLineWidth)
	}
	return nil
}
