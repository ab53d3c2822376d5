package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aknopov/fancylogger"
	"github.com/aknopov/jitter"
	"github.com/aknopov/jitter/hostinfo"
	"github.com/aknopov/jitter/tickcount"
)

const version = "1.0.0"

var logger = fancylogger.NewLogger(os.Stderr, fancylogger.LiteFg)

// Function substitution for unit tests
var pinCPUF = pinToCPU

func main() {
	opts, err := parseArgs(os.Args, func() { usage(os.Stderr) })
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
			usage(os.Stderr)
		}
		os.Exit(1)
	}

	// Outliers are captured only when a file is there to receive them;
	// without the ring the knee advice switches to the mid-table form
	if opts.OutFile == "" {
		opts.Cfg.OutBuf = 0
	}

	engine, err := jitter.NewEngine(opts.Cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		usage(os.Stderr)
		os.Exit(1)
	}

	if opts.CPU >= 0 {
		pinSampler(opts.CPU)
	}

	logHostInfo(hostinfo.Collect())
	logger.Info().Int("ticks", int(tickcount.TickCountOverhead())).Msg("Timing overhead")
	if freq := tickcount.CounterFrequency(); freq != 0 {
		logger.Info().Int("Hz", int(freq)).Msg("Advertised counter frequency")
	}

	// Opened before sampling so a bad path fails fast
	var outFile *os.File
	if opts.OutFile != "" {
		if opts.Cfg.OutBuf <= 0 {
			logger.Info().Msg("Outlier file ignored: -outbuf is 0")
		} else {
			outFile = assertNoErr(os.Create(opts.OutFile))
			defer outFile.Close() //nolint:errcheck
		}
	}

	reporter := assertNoErr(engine.Run())
	assertNoErr(jitter.ND, reporter.Render(os.Stdout))

	if outFile != nil {
		assertNoErr(jitter.ND, reporter.ExportOutliers(outFile))
		logger.Info().Str("file", opts.OutFile).Msg("Outliers saved")
	}

	if opts.SaveFile != "" {
		saveSummary(opts.SaveFile, opts.Cfg, engine)
	}
	if opts.Baseline != "" {
		compareBaseline(opts.Baseline, engine.Stats())
	}
}

// pinSampler binds the sampling thread to one CPU. Pinning is advisory:
// when it fails the run continues unpinned, just with more noise.
func pinSampler(cpu int) {
	if err := pinCPUF(cpu); err != nil {
		logger.Error().Int("cpu", cpu).Str("reason", err.Error()).Msg("CPU pinning failed, sampler runs unpinned")
		return
	}
	logger.Info().Int("cpu", cpu).Msg("Sampler pinned")
}

func logHostInfo(snap hostinfo.Snapshot) {
	logger.Info().Str("model", snap.CPUModel).Float64("MHz", snap.AdvertisedMHz).Msg("CPU")
	logger.Info().Int("physical", snap.PhysicalCores).Int("logical", snap.LogicalCores).
		Int("GOMAXPROCS", snap.GoMaxProcs).Msg("Cores")
	logger.Info().Float64("load1", snap.Load1).Int("processes", snap.Processes).Msg("Host load")
	if snap.Virtualization != "" {
		logger.Info().Str("system", snap.Virtualization).Str("role", snap.VirtualizationRole).Msg("Virtualization")
	}
}

func saveSummary(path string, cfg jitter.Config, engine *jitter.Engine) {
	f := assertNoErr(os.Create(path))
	defer f.Close() //nolint:errcheck

	summary := jitter.RunSummary{Config: cfg, Stats: engine.Stats(), Cal: engine.Calibration(), TakenAt: time.Now()}
	assertNoErr(jitter.ND, summary.Save(f))
	logger.Info().Str("file", path).Msg("Run summary saved")
}

func compareBaseline(path string, current jitter.RunStats) {
	f := assertNoErr(os.Open(path))
	defer f.Close() //nolint:errcheck
	baseline := assertNoErr(jitter.LoadSummary(f))

	pVal, err := jitter.Noisier(baseline.Stats, current)
	if err != nil {
		logger.Error().Str("reason", err.Error()).Msg("Baseline comparison failed")
		return
	}
	if pVal < 0.05 {
		logger.Error().Float64("p", pVal).Msg("This run is noisier than the baseline")
	} else {
		logger.Info().Float64("p", pVal).Msg("This run is on par with the baseline")
	}
}

func assertNoErr[T any](val T, err error) T {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return val
}
