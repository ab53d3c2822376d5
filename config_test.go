package jitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	assertT := assert.New(t)

	cfg := DefaultConfig()
	assertT.Nil(cfg.Validate())
	assertT.Equal(20, cfg.Bins)
	assertT.EqualValues(50, cfg.Knee)
	assertT.EqualValues(10, cfg.Min)
	assertT.Equal(10000, cfg.OutBuf)
	assertT.True(cfg.Quantiles)
	assertT.Equal(0, cfg.Pause)
	assertT.Equal(1, cfg.Runtime)
	assertT.Equal(79, cfg.LineWidth)
}

func TestLineWidthBounds(t *testing.T) {
	assertT := assert.New(t)

	assertT.Equal(54, MinLineWidth)
	assertT.Equal(120, MaxLineWidth)
}

func TestConfigValidation(t *testing.T) {
	assertT := assert.New(t)

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Odd bins", func(c *Config) { c.Bins = 7 }},
		{"Zero bins", func(c *Config) { c.Bins = 0 }},
		{"Negative bins", func(c *Config) { c.Bins = -4 }},
		{"Knee at min", func(c *Config) { c.Knee = c.Min }},
		{"Knee below min", func(c *Config) { c.Knee = 5 }},
		{"Narrow linear range", func(c *Config) { c.Min = 45 }},
		{"Negative outbuf", func(c *Config) { c.OutBuf = -1 }},
		{"Line too narrow", func(c *Config) { c.LineWidth = MinLineWidth - 1 }},
		{"Line too wide", func(c *Config) { c.LineWidth = MaxLineWidth + 1 }},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		assertT.ErrorIs(cfg.Validate(), ErrConfig, "In test", tc.name)
	}
}
