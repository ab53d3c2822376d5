package tickcount

//go:noinline
func counterFreqA() uint64

// CounterFrequency returns the frequency of the virtual counter in Hz as
// advertised by CNTFRQ_EL0.
func CounterFrequency() uint64 {
	return counterFreqA()
}
