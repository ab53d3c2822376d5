package jitter

// The t-distribution CDF is taken from "golang.org/x/perf/internal/stats":
// Copyright 2009 The Go Authors.

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"time"
)

var (
	ErrSampleSize   = errors.New("sample is too small")
	ErrZeroVariance = errors.New("sample has zero variance")
)

// RunSummary is the persistent form of a finished run, written by the
// -save flag and read back by -baseline.
type RunSummary struct {
	Config  Config      `json:"config"`
	Stats   RunStats    `json:"stats"`
	Cal     Calibration `json:"calibration"`
	TakenAt time.Time   `json:"taken_at"`
}

// Save writes the summary as indented JSON.
func (s RunSummary) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// LoadSummary reads a summary previously written by Save.
func LoadSummary(r io.Reader) (RunSummary, error) {
	var s RunSummary
	err := json.NewDecoder(r).Decode(&s)
	return s, err
}

// Noisier compares the current run against a baseline with a one-tailed
// Welch's t-test and returns the p-value for the null hypothesis that
// jitter did not grow. Small values (say below 0.05) mean the current
// run is measurably noisier than the baseline.
//
// Both runs need at least two samples, and at least one of them must
// have nonzero variance.
func Noisier(baseline, current RunStats) (float64, error) {
	b, err := welchSample(baseline)
	if err != nil {
		return 0, err
	}
	c, err := welchSample(current)
	if err != nil {
		return 0, err
	}
	if b.variance == 0 && c.variance == 0 {
		return 0, ErrZeroVariance
	}
	return welchGreater(c, b), nil
}

// A tTestSample carries the three moments a t-test needs.
type tTestSample struct {
	weight   float64
	mean     float64
	variance float64
}

func welchSample(s RunStats) (tTestSample, error) {
	if s.Count <= 1 {
		return tTestSample{}, ErrSampleSize
	}
	// Welch works on the sample variance, not the population one.
	return tTestSample{
		weight:   float64(s.Count),
		mean:     s.Mean,
		variance: s.M2 / float64(s.Count-1),
	}, nil
}

// welchGreater runs a two-sample (unpaired) Welch's t-test of the
// alternative hypothesis that the location of x1 is greater than the
// location of x2. Unlike Student's test it does not assume the two
// distributions have equal variance.
func welchGreater(x1, x2 tTestSample) float64 {
	n1, n2 := x1.weight, x2.weight
	v1, v2 := x1.variance, x2.variance

	dof := (v1/n1 + v2/n2) * (v1/n1 + v2/n2) /
		(v1/n1*(v1/n1)/(n1-1) + v2/n2*(v2/n2)/(n2-1))
	s := math.Sqrt(v1/n1 + v2/n2)
	t := (x1.mean - x2.mean) / s
	return 1 - tDist{dof}.cdf(t)
}

// A tDist is a Student's t-distribution with V degrees of freedom.
type tDist struct {
	v float64
}

func (t tDist) cdf(x float64) float64 {
	switch {
	case x == 0:
		return 0.5
	case x > 0:
		return 1 - 0.5*mathBetaInc(t.v/(t.v+x*x), t.v/2, 0.5)
	case x < 0:
		return 1 - t.cdf(-x)
	default:
		return math.NaN()
	}
}

func lgamma(x float64) float64 {
	y, _ := math.Lgamma(x)
	return y
}

// mathBetaInc returns the value of the regularized incomplete beta
// function Iₓ(a, b).
//
// This is not to be confused with the "incomplete beta function",
// which can be computed as BetaInc(x, a, b)*Beta(a, b).
//
// If x < 0 or x > 1, returns NaN.
func mathBetaInc(x, a, b float64) float64 {
	// Based on Numerical Recipes in C, section 6.4. This uses the
	// continued fraction definition of I:
	//
	//  (xᵃ*(1-x)ᵇ)/(a*B(a,b)) * (1/(1+(d₁/(1+(d₂/(1+...))))))
	//
	// where B(a,b) is the beta function and
	//
	//  d_{2m+1} = -(a+m)(a+b+m)x/((a+2m)(a+2m+1))
	//  d_{2m}   = m(b-m)x/((a+2m-1)(a+2m))
	if x < 0 || x > 1 {
		return math.NaN()
	}
	bt := 0.0
	if 0 < x && x < 1 {
		// Compute the coefficient before the continued
		// fraction.
		bt = math.Exp(lgamma(a+b) - lgamma(a) - lgamma(b) +
			a*math.Log(x) + b*math.Log(1-x))
	}
	if x < (a+1)/(a+b+2) {
		// Compute continued fraction directly.
		return bt * betacf(x, a, b) / a
	} else {
		// Compute continued fraction after symmetry transform.
		return 1 - bt*betacf(1-x, b, a)/b
	}
}

// betacf is the continued fraction component of the regularized
// incomplete beta function Iₓ(a, b).
func betacf(x, a, b float64) float64 {
	const maxIterations = 200
	const epsilon = 3e-14

	raiseZero := func(z float64) float64 {
		if math.Abs(z) < math.SmallestNonzeroFloat64 {
			return math.SmallestNonzeroFloat64
		}
		return z
	}

	c := 1.0
	d := 1 / raiseZero(1-(a+b)*x/(a+1))
	h := d
	for m := 1; m <= maxIterations; m++ {
		mf := float64(m)

		// Even step of the recurrence.
		numer := mf * (b - mf) * x / ((a + 2*mf - 1) * (a + 2*mf))
		d = 1 / raiseZero(1+numer*d)
		c = raiseZero(1 + numer/c)
		h *= d * c

		// Odd step of the recurrence.
		numer = -(a + mf) * (a + b + mf) * x / ((a + 2*mf) * (a + 2*mf + 1))
		d = 1 / raiseZero(1+numer*d)
		c = raiseZero(1 + numer/c)
		hfac := d * c
		h *= hfac

		if math.Abs(hfac-1) < epsilon {
			return h
		}
	}
	panic("betainc: a or b too big; failed to converge")
}
