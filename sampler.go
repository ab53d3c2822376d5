package jitter

// BatchLen is the number of deltas produced by one uninterrupted block of
// counter reads (BatchLen+1 reads per block).
const BatchLen = 10

// Batch holds the deltas of one block of consecutive counter reads, the
// counter value from the middle of the block (attributed to any outlier
// the block produced) and the block's total tick span (for overhead
// accounting).
type Batch struct {
	Deltas [BatchLen]uint64
	Mid    uint64
	Span   uint64
}

// ReadBatch takes BatchLen+1 timestamps back to back and stores their
// differences. The body is deliberately straight-line: no loop, no
// branch, no allocation may run between the first and the last read, so
// the deltas reflect only hardware and OS behavior, never the sampler's
// own control flow. Analysis happens elsewhere, after the block.
func ReadBatch(tick func() uint64, b *Batch) {
	t0 := tick()
	t1 := tick()
	t2 := tick()
	t3 := tick()
	t4 := tick()
	t5 := tick()
	t6 := tick()
	t7 := tick()
	t8 := tick()
	t9 := tick()
	t10 := tick()

	b.Deltas[0] = t1 - t0
	b.Deltas[1] = t2 - t1
	b.Deltas[2] = t3 - t2
	b.Deltas[3] = t4 - t3
	b.Deltas[4] = t5 - t4
	b.Deltas[5] = t6 - t5
	b.Deltas[6] = t7 - t6
	b.Deltas[7] = t8 - t7
	b.Deltas[8] = t9 - t8
	b.Deltas[9] = t10 - t9
	b.Mid = t5
	b.Span = t10 - t0
}
