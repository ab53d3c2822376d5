// Package hostinfo captures the host facts that matter when judging a
// jitter run: CPU model and speed, core counts, load and virtualization.
package hostinfo

import (
	"runtime"
	"time"

	"github.com/aknopov/jitter"
	ps "github.com/mitchellh/go-ps"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
)

var (
	NO_CPUINFO = []cpu.InfoStat{}
	NO_LOAD    = &load.AvgStat{}
	NO_HOST    = &host.InfoStat{}
	NO_PROCS   = []ps.Process{}
)

// Function substitutions for unit tests
var (
	cpuInfoF   = cpu.Info
	cpuCountsF = cpu.Counts
	loadAvgF   = load.Avg
	processesF = ps.Processes
	hostInfoF  = host.Info
)

// Snapshot of the host at measurement time
type Snapshot struct {
	CPUModel           string    `json:"cpu_model"`
	AdvertisedMHz      float64   `json:"advertised_mhz"`
	PhysicalCores      int       `json:"physical_cores"`
	LogicalCores       int       `json:"logical_cores"`
	GoMaxProcs         int       `json:"go_max_procs"`
	Load1              float64   `json:"load_1"`
	Processes          int       `json:"processes"`
	OS                 string    `json:"os"`
	Virtualization     string    `json:"virtualization"`
	VirtualizationRole string    `json:"virtualization_role"`
	TakenAt            time.Time `json:"taken_at"`
}

// Collect gathers the snapshot. Probes not supported on this platform
// degrade to zero values instead of failing the run.
func Collect() Snapshot {
	var snap Snapshot
	snap.TakenAt = time.Now()
	snap.GoMaxProcs = runtime.GOMAXPROCS(0)

	cpuInfo := jitter.AssumeOnErr(cpuInfoF, NO_CPUINFO)
	if len(cpuInfo) > 0 {
		snap.CPUModel = cpuInfo[0].ModelName
		snap.AdvertisedMHz = cpuInfo[0].Mhz
	}
	snap.PhysicalCores = jitter.AssumeOnErr(func() (int, error) { return cpuCountsF(false) }, 0)
	snap.LogicalCores = jitter.AssumeOnErr(func() (int, error) { return cpuCountsF(true) }, 0)

	snap.Load1 = jitter.AssumeOnErr(loadAvgF, NO_LOAD).Load1
	snap.Processes = len(jitter.AssumeOnErr(processesF, NO_PROCS))

	hostInfo := jitter.AssumeOnErr(hostInfoF, NO_HOST)
	snap.OS = hostInfo.OS
	snap.Virtualization = hostInfo.VirtualizationSystem
	snap.VirtualizationRole = hostInfo.VirtualizationRole

	return snap
}
