package tickcount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickCount(t *testing.T) {
	assertT := assert.New(t)

	tc1 := TickCount()
	assertT.GreaterOrEqual(tc1, uint64(0))
	tc2 := TickCount()
	assertT.GreaterOrEqual(tc2, tc1)
}

func TestTickCountAdvances(t *testing.T) {
	assertT := assert.New(t)

	tc1 := TickCount()
	time.Sleep(10 * time.Millisecond)
	tc2 := TickCount()
	assertT.Greater(tc2, tc1)
}

func TestTickCountOverhead(t *testing.T) {
	assertT := assert.New(t)

	ovhd := TickCountOverhead()
	// Two back-to-back reads cost a few dozen ticks at worst
	assertT.Less(ovhd, uint64(10000))
}
