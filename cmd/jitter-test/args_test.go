package main

import (
	"testing"

	"github.com/aknopov/jitter"
	"github.com/aknopov/jitter/mocker"
	"github.com/stretchr/testify/assert"
)

func TestParseArgsDefaults(t *testing.T) {
	assertT := assert.New(t)

	opts, err := parseArgs([]string{"jitter-test"}, func() {})
	assertT.Nil(err)
	assertT.Equal(jitter.DefaultConfig(), opts.Cfg)
	assertT.Equal(-1, opts.CPU)
	assertT.Empty(opts.OutFile)
	assertT.Empty(opts.SaveFile)
	assertT.Empty(opts.Baseline)
}

func TestParseArgs(t *testing.T) {
	assertT := assert.New(t)

	testCases := []struct {
		name       string
		args       []string
		expBins    int
		expKnee    uint64
		expCPU     int
		shouldFail bool
	}{
		{
			name:    "Overrides",
			args:    []string{"test", "-bins=10", "-knee=100", "-cpu=2"},
			expBins: 10,
			expKnee: 100,
			expCPU:  2,
		},
		{
			name:       "Unexpected positional",
			args:       []string{"test", "extra"},
			shouldFail: true,
		},
		{
			name:       "Wrong flag",
			args:       []string{"test", "-foo"},
			shouldFail: true,
		},
	}

	for _, tc := range testCases {
		opts, err := parseArgs(tc.args, func() {})

		if tc.shouldFail {
			assertT.Error(err, "In test", tc.name)
			continue
		}

		assertT.Nil(err, "In test", tc.name)
		assertT.Equal(tc.expBins, opts.Cfg.Bins, "In test", tc.name)
		assertT.Equal(tc.expKnee, opts.Cfg.Knee, "In test", tc.name)
		assertT.Equal(tc.expCPU, opts.CPU, "In test", tc.name)
	}
}

func TestUsage(t *testing.T) {
	assertT := assert.New(t)

	stream, ch := mocker.CreateStream()
	usage(stream)

	output := mocker.ReadStream(stream, ch)
	assertT.Contains(output, "Usage: jitter-test")
	assertT.Contains(output, "-bins")
	assertT.Contains(output, version)
}
