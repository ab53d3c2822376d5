package jitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutlierLogPartialFill(t *testing.T) {
	assertT := assert.New(t)

	log := NewOutlierLog(5)
	log.Record(1000, 100)
	log.Record(1001, 101)
	log.Record(1002, 102)

	assertT.False(log.Wrapped())
	assertT.Equal(3, log.Len())
	assertT.Equal(5, log.Cap())

	slots := log.Slots()
	assertT.Equal(Outlier{When: 1000, Delta: 100}, slots[0])
	assertT.Equal(Outlier{When: 1002, Delta: 102}, slots[2])
	assertT.Zero(slots[3].When)
	assertT.Zero(slots[4].When)
}

func TestOutlierLogExactFill(t *testing.T) {
	assertT := assert.New(t)

	log := NewOutlierLog(3)
	for i := uint64(0); i < 3; i++ {
		log.Record(1000+i, 100+i)
	}

	// Filling to capacity arms the wrap flag even though nothing was lost yet
	assertT.True(log.Wrapped())
	assertT.Equal(3, log.Len())
}

func TestOutlierLogZeroCapacity(t *testing.T) {
	assertT := assert.New(t)

	log := NewOutlierLog(0)
	assertT.NotPanics(func() { log.Record(1000, 100) })

	assertT.False(log.Wrapped())
	assertT.Zero(log.Len())
	assertT.Zero(log.Cap())
}

func TestOutlierLogWrapAround(t *testing.T) {
	assertT := assert.New(t)

	// Capacity 5, 8 records: the first three get overwritten
	log := NewOutlierLog(5)
	for i := uint64(0); i < 8; i++ {
		log.Record(1000+i, 100+i)
	}

	assertT.True(log.Wrapped())
	assertT.Equal(5, log.Len())

	slots := log.Slots()
	assertT.Equal([]Outlier{
		{When: 1005, Delta: 105},
		{When: 1006, Delta: 106},
		{When: 1007, Delta: 107},
		{When: 1003, Delta: 103},
		{When: 1004, Delta: 104},
	}, slots)
}
