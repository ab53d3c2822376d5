package jitter

// Outlier is one captured delta that exceeded the knee, tagged with the
// counter reading at the middle of its batch.
type Outlier struct {
	When  uint64 `json:"when"`
	Delta uint64 `json:"delta"`
}

// OutlierLog is a fixed-capacity ring buffer of the most recent outliers.
// Once full, new records overwrite the oldest ones and the log is marked
// wrapped. Slots that were never written keep a zero When value; consumers
// skip them.
type OutlierLog struct {
	slots   []Outlier
	next    int
	wrapped bool
}

// NewOutlierLog allocates a ring for up to capacity outliers. The whole
// buffer is allocated here, before sampling starts. A zero capacity makes
// an inert log that records nothing.
func NewOutlierLog(capacity int) *OutlierLog {
	return &OutlierLog{slots: make([]Outlier, capacity)}
}

// Record stores one outlier at the next write position, wrapping to the
// start of the ring once the capacity is exceeded.
func (l *OutlierLog) Record(when, delta uint64) {
	if len(l.slots) == 0 {
		return
	}
	l.slots[l.next] = Outlier{When: when, Delta: delta}
	l.next++
	if l.next >= len(l.slots) {
		l.next = 0
		l.wrapped = true
	}
}

// Wrapped reports whether the write position has wrapped to the start of
// the ring. It arms as soon as the ring fills to capacity.
func (l *OutlierLog) Wrapped() bool {
	return l.wrapped
}

// Len returns the number of live records.
func (l *OutlierLog) Len() int {
	if l.wrapped {
		return len(l.slots)
	}
	return l.next
}

// Cap returns the ring capacity.
func (l *OutlierLog) Cap() int {
	return len(l.slots)
}

// Slots exposes the underlying buffer in slot order (not insertion order);
// unwritten slots have a zero When. Callers must not modify the contents.
func (l *OutlierLog) Slots() []Outlier {
	return l.slots
}
