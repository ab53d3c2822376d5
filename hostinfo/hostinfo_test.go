package hostinfo

import (
	"errors"
	"runtime"
	"testing"

	"github.com/aknopov/jitter/mocker"
	ps "github.com/mitchellh/go-ps"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/stretchr/testify/assert"
)

var errProbe = errors.New("probe failed")

type fakeProc struct{}

func (fakeProc) Pid() int           { return 42 }
func (fakeProc) PPid() int          { return 1 }
func (fakeProc) Executable() string { return "fake" }

func TestCollect(t *testing.T) {
	assertT := assert.New(t)

	defer mocker.ReplaceItem(&cpuInfoF, func() ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{ModelName: "Imitation CPU @ 3.00GHz", Mhz: 3000}}, nil
	})()
	defer mocker.ReplaceItem(&cpuCountsF, func(logical bool) (int, error) {
		if logical {
			return 8, nil
		}
		return 4, nil
	})()
	defer mocker.ReplaceItem(&loadAvgF, func() (*load.AvgStat, error) {
		return &load.AvgStat{Load1: 0.25}, nil
	})()
	defer mocker.ReplaceItem(&processesF, func() ([]ps.Process, error) {
		return []ps.Process{fakeProc{}, fakeProc{}}, nil
	})()
	defer mocker.ReplaceItem(&hostInfoF, func() (*host.InfoStat, error) {
		return &host.InfoStat{OS: "linux", VirtualizationSystem: "kvm", VirtualizationRole: "guest"}, nil
	})()

	snap := Collect()
	assertT.Equal("Imitation CPU @ 3.00GHz", snap.CPUModel)
	assertT.EqualValues(3000, snap.AdvertisedMHz)
	assertT.Equal(4, snap.PhysicalCores)
	assertT.Equal(8, snap.LogicalCores)
	assertT.Equal(runtime.GOMAXPROCS(0), snap.GoMaxProcs)
	assertT.EqualValues(0.25, snap.Load1)
	assertT.Equal(2, snap.Processes)
	assertT.Equal("linux", snap.OS)
	assertT.Equal("kvm", snap.Virtualization)
	assertT.Equal("guest", snap.VirtualizationRole)
	assertT.False(snap.TakenAt.IsZero())
}

func TestCollectDegradesOnErrors(t *testing.T) {
	assertT := assert.New(t)

	defer mocker.ReplaceItem(&cpuInfoF, func() ([]cpu.InfoStat, error) { return nil, errProbe })()
	defer mocker.ReplaceItem(&cpuCountsF, func(bool) (int, error) { return 0, errProbe })()
	defer mocker.ReplaceItem(&loadAvgF, func() (*load.AvgStat, error) { return nil, errProbe })()
	defer mocker.ReplaceItem(&processesF, func() ([]ps.Process, error) { return nil, errProbe })()
	defer mocker.ReplaceItem(&hostInfoF, func() (*host.InfoStat, error) { return nil, errProbe })()

	snap := Collect()
	assertT.Empty(snap.CPUModel)
	assertT.Zero(snap.PhysicalCores)
	assertT.Zero(snap.LogicalCores)
	assertT.Zero(snap.Load1)
	assertT.Zero(snap.Processes)
	assertT.Empty(snap.OS)
	assertT.Equal(runtime.GOMAXPROCS(0), snap.GoMaxProcs)
}
