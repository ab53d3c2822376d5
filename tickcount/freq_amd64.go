package tickcount

// CounterFrequency returns the advertised counter frequency in Hz, or 0
// when the architecture does not expose one. The TSC rate cannot be read
// directly; it has to be measured against wall time.
func CounterFrequency() uint64 {
	return 0
}
