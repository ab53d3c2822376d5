package jitter

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// Fixed report texts. The header length and the bar text length bound the
// configurable line width.
const (
	reportHeader = "Time    Ticks    Count        Percent    Cumulative  "
	graphTitle   = "Graph ln(Count-e)"
	graphText    = "*******************************************************************"
)

// Calibration converts ticks to wall time for one finished run. It is
// measured over the whole run: elapsed counter ticks divided by elapsed
// wall-clock time.
type Calibration struct {
	TicksPerNs   float64 `json:"ticks_per_ns"`
	ElapsedTicks uint64  `json:"elapsed_ticks"`
	StartTicks   uint64  `json:"start_ticks"`
}

// MHz returns the measured counter frequency in megahertz.
func (c Calibration) MHz() float64 {
	return c.TicksPerNs * 1000
}

// ticksToTime formats a tick count as a human-scaled time: nanoseconds,
// microseconds, milliseconds or seconds by magnitude, three significant
// digits. Values past 1e12 ns (the sentinel bound in particular) come out
// as "Infini".
func ticksToTime(ticks uint64, ticksPerNs float64) string {
	ns := float64(ticks) / ticksPerNs
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%4.3gns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%4.3gus", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%4.3gms", ns/1e6)
	case ns < 1e12:
		return fmt.Sprintf("%4.3gs", ns/1e9)
	default:
		return "Infini"
	}
}

// graphScale fits the largest bin count into the line width left over
// after the fixed columns. An all-empty histogram yields scale 0 so that
// every bar renders at length 0 instead of propagating a NaN.
func graphScale(lineWidth int, maxCount uint64) float64 {
	if maxCount == 0 {
		return 0
	}
	return float64(lineWidth-len(reportHeader)) / math.Log(float64(maxCount)-math.E)
}

// barLength maps a bin count to its bar length. Zero counts never touch
// the logarithm; any nonzero count renders at least one character even
// when the scaled value rounds down to nothing.
func barLength(count uint64, scale float64) int {
	if count == 0 {
		return 0
	}
	v := scale * math.Log(float64(count)-math.E)
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	n := int(v)
	if n <= 0 {
		n = 1
	}
	if n > len(graphText) {
		n = len(graphText)
	}
	return n
}

// Reporter renders the final state of a run: the histogram, summary
// statistics, tuning advice and the captured outliers. It only reads;
// all state was frozen when sampling stopped.
type Reporter struct {
	cfg       Config
	bins      []Bin
	stats     RunStats
	cal       Calibration
	outliers  *OutlierLog
	quantiles *QuantileTracker
}

// NewReporter assembles a reporter over the final run state. outliers and
// quantiles may be nil when the respective capture was disabled.
func NewReporter(cfg Config, bins []Bin, stats RunStats, cal Calibration,
	outliers *OutlierLog, quantiles *QuantileTracker) *Reporter {
	return &Reporter{cfg: cfg, bins: bins, stats: stats, cal: cal, outliers: outliers, quantiles: quantiles}
}

// Render writes the histogram rows, the summary block and the tuning
// recommendations. Write errors surface once, from the final flush.
func (r *Reporter) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	tpns := r.cal.TicksPerNs
	total := r.stats.Count

	percent := func(n uint64) float64 {
		if total == 0 {
			return 0
		}
		return 100 * float64(n) / float64(total)
	}

	fmt.Fprintf(bw, "%s%s\n", reportHeader, graphTitle)

	scale := graphScale(r.cfg.LineWidth, maxBinCount(r.bins))
	half := len(r.bins) / 2

	var cumulative, midCount uint64
	for i, bin := range r.bins {
		// Cumulative count entering the knee bin drives the knee advice
		if i == half {
			midCount = cumulative
		}
		cumulative += bin.Count

		tickLabel := "Infinite"
		if bin.UpperBound != Sentinel {
			tickLabel = fmt.Sprintf("%-8d", bin.UpperBound)
		}

		bar := graphText[:barLength(bin.Count, scale)]
		fmt.Fprintf(bw, "%s  %s %-12d %7.4f%%  %8.4f%%    %s\n",
			ticksToTime(bin.UpperBound, tpns), tickLabel, bin.Count,
			percent(bin.Count), percent(cumulative), bar)

		// Visual break between the linear and the exponential half
		if i+1 == half {
			fmt.Fprintln(bw)
		}
	}

	overheadPct := 0.0
	if r.cal.ElapsedTicks != 0 {
		overheadPct = 100 * float64(r.stats.TimingTicks) / float64(r.cal.ElapsedTicks)
	}
	fmt.Fprintf(bw, "\nTiming was measured for %s, %5.2f%% of runtime\n",
		ticksToTime(r.stats.TimingTicks, tpns), overheadPct)
	fmt.Fprintf(bw, "CPU speed measured  : %7.2f MHz over %d iterations\n", r.cal.MHz(), total)

	obsMin := r.stats.ObservedMin()
	avg := r.stats.AvgTicks()
	stdDev := r.stats.StdDev()
	fmt.Fprintf(bw, "Min / Average / Std Dev / Max :   %d   /   %d   /  %3.0f   / %d ticks\n",
		obsMin, avg, stdDev, r.stats.Max)
	fmt.Fprintf(bw, "Min / Average / Std Dev / Max : %s / %s / %s / %s\n",
		ticksToTime(obsMin, tpns), ticksToTime(avg, tpns),
		ticksToTime(uint64(stdDev), tpns), ticksToTime(r.stats.Max, tpns))

	if r.quantiles != nil && r.quantiles.Count() > 0 {
		p50 := r.quantiles.Quantile(50)
		p90 := r.quantiles.Quantile(90)
		p99 := r.quantiles.Quantile(99)
		p999 := r.quantiles.Quantile(99.9)
		fmt.Fprintf(bw, "p50 / p90 / p99 / p99.9 :   %d   /   %d   /   %d   /   %d ticks\n",
			p50, p90, p99, p999)
		fmt.Fprintf(bw, "p50 / p90 / p99 / p99.9 : %s / %s / %s / %s\n",
			ticksToTime(p50, tpns), ticksToTime(p90, tpns),
			ticksToTime(p99, tpns), ticksToTime(p999, tpns))
	}

	if total > 0 {
		r.renderAdvice(bw, percent(midCount))
	}

	return bw.Flush()
}

// renderAdvice prints the heuristic tuning recommendations derived from
// the finished run. midPercent is the cumulative percentage accumulated
// below the knee bin.
func (r *Reporter) renderAdvice(bw *bufio.Writer, midPercent float64) {
	obsMin := r.stats.ObservedMin()
	if obsMin < r.cfg.Min || float64(r.cfg.Min) < 0.80*float64(obsMin) {
		fmt.Fprintf(bw, "Recommend min setting of %3.0f ticks\n", 0.80*float64(obsMin))
	}

	if r.outliers == nil {
		// Without outlier capture the knee advice rests on how much of
		// the distribution the linear half caught.
		if midPercent < 90.0 {
			fmt.Fprintf(bw, "Recommend increasing knee setting from %d ticks\n", r.cfg.Knee)
		}
		if midPercent > 99.0 {
			fmt.Fprintf(bw, "Recommend decreasing knee setting from %d ticks\n", r.cfg.Knee)
		}
		return
	}

	if r.outliers.Wrapped() {
		fmt.Fprintf(bw, "Recommend increasing knee setting from %d ticks\n", r.cfg.Knee)
	} else if r.outliers.Len() < r.outliers.Cap()/4 {
		fmt.Fprintf(bw, "Recommend decreasing knee setting from %d ticks\n", r.cfg.Knee)
	}
}

// ExportOutliers streams the captured outliers, one per line: elapsed
// milliseconds since the run started, a comma and a space, then the
// outlier magnitude in microseconds. Slots never written are skipped.
// Plot the file as an x/y scatter to spot periodic jitter patterns.
func (r *Reporter) ExportOutliers(w io.Writer) error {
	if r.outliers == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	for _, o := range r.outliers.Slots() {
		if o.When == 0 {
			continue
		}
		elapsedMs := float64(o.When-r.cal.StartTicks) / r.cal.TicksPerNs / 1e6
		sizeUs := float64(o.Delta) / r.cal.TicksPerNs / 1e3
		fmt.Fprintf(bw, "%f, %f\n", elapsedMs, sizeUs)
	}
	return bw.Flush()
}

func maxBinCount(bins []Bin) uint64 {
	var m uint64
	for _, b := range bins {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}
