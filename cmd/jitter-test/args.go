package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aknopov/jitter"
)

// Options is the parsed command line: the measurement configuration plus
// the output and comparison paths that do not concern the engine.
type Options struct {
	Cfg      jitter.Config
	OutFile  string
	SaveFile string
	Baseline string
	CPU      int
}

// Parses commandline; returns parsed options
func parseArgs(args []string, usage func()) (Options, error) {
	progName := filepath.Base(args[0])
	flagSet := flag.NewFlagSet(progName, flag.ContinueOnError)
	flagSet.Usage = usage

	opts := Options{Cfg: jitter.DefaultConfig(), CPU: -1}
	flagSet.IntVar(&opts.Cfg.Bins, "bins", opts.Cfg.Bins, "")
	flagSet.Uint64Var(&opts.Cfg.Knee, "knee", opts.Cfg.Knee, "")
	flagSet.Uint64Var(&opts.Cfg.Min, "min", opts.Cfg.Min, "")
	flagSet.IntVar(&opts.Cfg.OutBuf, "outbuf", opts.Cfg.OutBuf, "")
	flagSet.IntVar(&opts.Cfg.Pause, "pause", opts.Cfg.Pause, "")
	flagSet.IntVar(&opts.Cfg.Runtime, "runtime", opts.Cfg.Runtime, "")
	flagSet.IntVar(&opts.Cfg.LineWidth, "width", opts.Cfg.LineWidth, "")
	flagSet.BoolVar(&opts.Cfg.Quantiles, "quantiles", opts.Cfg.Quantiles, "")
	flagSet.StringVar(&opts.OutFile, "outfile", "", "")
	flagSet.StringVar(&opts.SaveFile, "save", "", "")
	flagSet.StringVar(&opts.Baseline, "baseline", "", "")
	flagSet.IntVar(&opts.CPU, "cpu", opts.CPU, "")

	if err := flagSet.Parse(args[1:]); err != nil {
		return Options{}, err
	}
	if len(flagSet.Args()) > 0 {
		return Options{}, fmt.Errorf("unexpected argument '%s'", flagSet.Args()[0])
	}

	return opts, nil
}

//nolint:errcheck
func usage(sink *os.File) {
	fmt.Fprintf(sink, "Measures system latency jitter by timing back-to-back CPU counter reads (v%s)\n", version)
	fmt.Fprintln(sink, `Usage: jitter-test [options]
-bins - number of histogram bins, must be even (default 20)
-knee - histogram knee in ticks, where coarse bins start (default 50)
-min - lowest histogram bound in ticks (default 10)
-outbuf - outlier ring capacity, 0 disables capture (default 10000)
-outfile - file for captured outliers, one "time_ms, size_us" pair per line
-pause - pause between sampling batches in milliseconds (default 0)
-runtime - measurement time in seconds (default 1)
-width - report line width, 54 to 120 (default 79)
-quantiles - track p50/p90/p99/p99.9 percentiles (default true)
-cpu - pin the sampler to this CPU, -1 to float (default -1)
-save - write the run summary JSON to this file
-baseline - summary JSON of a previous run to compare against`)
}
