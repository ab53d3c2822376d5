// Package jitter measures OS and hardware induced latency jitter by
// timing back-to-back CPU counter reads and binning the deltas in a
// histogram.
package jitter

import (
	"errors"
	"fmt"
	"time"

	"github.com/aknopov/jitter/tickcount"
)

// Engine drives one measurement run: it samples counter deltas in
// batches until the configured runtime elapses, then hands the frozen
// results to a Reporter. An engine is single-use.
type Engine struct {
	cfg   Config
	accum *Accumulator
	cal   Calibration
	ran   bool

	// Function substitutions for unit tests
	Tick  func() uint64
	Now   func() time.Time
	Sleep func(time.Duration)
}

// NewEngine validates the configuration and allocates the run state.
// The outlier ring is created only for a positive buffer size; rings
// beyond the supported maximum are refused rather than attempted.
func NewEngine(cfg Config) (*Engine, error) {
	bins, err := BuildBins(cfg)
	if err != nil {
		return nil, err
	}

	var ring *OutlierLog
	if cfg.OutBuf > 0 {
		if cfg.OutBuf > maxOutBuf {
			return nil, fmt.Errorf("%w: outlier buffer of %d entries", ErrResource, cfg.OutBuf)
		}
		ring = NewOutlierLog(cfg.OutBuf)
	}

	var quantiles *QuantileTracker
	if cfg.Quantiles {
		quantiles = NewQuantileTracker()
	}

	return &Engine{
		cfg:   cfg,
		accum: NewAccumulator(bins, cfg.Knee, ring, quantiles),
		Tick:  tickcount.TickCount,
		Now:   time.Now,
		Sleep: time.Sleep,
	}, nil
}

// Run samples until the deadline and returns a reporter over the
// collected data. The deadline is checked only between batches, so at
// least one full batch is always measured. Calling Run twice on the
// same engine is an error; the first run's state is never reused.
func (e *Engine) Run() (*Reporter, error) {
	if e.ran {
		return nil, errors.New("engine has already run")
	}
	e.ran = true

	pause := time.Duration(e.cfg.Pause) * time.Millisecond
	startTicks := e.Tick()
	startWall := e.Now()
	deadline := startWall.Add(time.Duration(e.cfg.Runtime) * time.Second)

	var batch Batch
	var stopTicks uint64
	var stopWall time.Time
	for {
		if pause > 0 {
			e.Sleep(pause)
		}
		ReadBatch(e.Tick, &batch)
		e.accum.AbsorbBatch(&batch)

		stopTicks = e.Tick()
		stopWall = e.Now()
		if !stopWall.Before(deadline) {
			break
		}
	}

	// The whole run doubles as the tick-to-time calibration interval.
	elapsedTicks := stopTicks - startTicks
	elapsedUs := stopWall.Sub(startWall).Microseconds()
	var tpns float64
	if elapsedUs > 0 {
		tpns = float64(elapsedTicks) / 1000.0 / float64(elapsedUs)
	}
	e.cal = Calibration{TicksPerNs: tpns, ElapsedTicks: elapsedTicks, StartTicks: startTicks}

	return NewReporter(e.cfg, e.accum.Bins(), e.accum.Stats(), e.cal,
		e.accum.Outliers(), e.accum.Quantiles()), nil
}

// Stats returns the statistics accumulated so far.
func (e *Engine) Stats() RunStats {
	return e.accum.Stats()
}

// Calibration returns the tick-to-time calibration of a finished run.
func (e *Engine) Calibration() Calibration {
	return e.cal
}
