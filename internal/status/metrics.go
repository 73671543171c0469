// Package status produces the one-shot system health report. Metrics
// come from gopsutil; systemd, apt and docker facts come from their own
// tools.
package status

import (
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	gnet "github.com/shirou/gopsutil/v4/net"
)

// Metrics is one snapshot of the machine.
type Metrics struct {
	Uptime time.Duration
	Load1  float64
	Load5  float64
	Load15 float64

	CPUPercent float64

	MemTotal   uint64
	MemUsed    uint64
	MemFree    uint64
	MemAvail   uint64
	MemUsedPct float64

	DiskTotal   uint64
	DiskUsed    uint64
	DiskFree    uint64
	DiskUsedPct float64

	ReadBps  float64
	WriteBps float64

	Interfaces []IfaceRate
}

// IfaceRate is one interface's current throughput.
type IfaceRate struct {
	Name    string
	RecvBps float64
	SendBps float64
}

// Collect samples the system. I/O and network rates are measured over
// the given interval.
func Collect(sample time.Duration) *Metrics {
	if sample <= 0 {
		sample = time.Second
	}
	m := &Metrics{}

	if up, err := host.Uptime(); err == nil {
		m.Uptime = time.Duration(up) * time.Second
	}
	if avg, err := load.Avg(); err == nil {
		m.Load1, m.Load5, m.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		m.MemTotal = vm.Total
		m.MemUsed = vm.Used
		m.MemFree = vm.Free
		m.MemAvail = vm.Available
		m.MemUsedPct = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		m.DiskTotal = du.Total
		m.DiskUsed = du.Used
		m.DiskFree = du.Free
		m.DiskUsedPct = du.UsedPercent
	}

	ioBefore, ioErr := disk.IOCounters()
	netBefore, netErr := gnet.IOCounters(true)

	// cpu.Percent blocks for the interval, doubling as the sampling gap
	// for the disk and network deltas.
	if pcts, err := cpu.Percent(sample, false); err == nil && len(pcts) > 0 {
		m.CPUPercent = pcts[0]
	} else {
		time.Sleep(sample)
	}

	secs := sample.Seconds()
	if ioErr == nil {
		if ioAfter, err := disk.IOCounters(); err == nil {
			var readDelta, writeDelta uint64
			for name, after := range ioAfter {
				if before, ok := ioBefore[name]; ok {
					readDelta += after.ReadBytes - before.ReadBytes
					writeDelta += after.WriteBytes - before.WriteBytes
				}
			}
			m.ReadBps = float64(readDelta) / secs
			m.WriteBps = float64(writeDelta) / secs
		}
	}
	if netErr == nil {
		if netAfter, err := gnet.IOCounters(true); err == nil {
			before := make(map[string]gnet.IOCountersStat, len(netBefore))
			for _, b := range netBefore {
				before[b.Name] = b
			}
			for _, after := range netAfter {
				b, ok := before[after.Name]
				if !ok || after.Name == "lo" {
					continue
				}
				m.Interfaces = append(m.Interfaces, IfaceRate{
					Name:    after.Name,
					RecvBps: float64(after.BytesRecv-b.BytesRecv) / secs,
					SendBps: float64(after.BytesSent-b.BytesSent) / secs,
				})
			}
			sort.Slice(m.Interfaces, func(i, j int) bool {
				return m.Interfaces[i].RecvBps+m.Interfaces[i].SendBps >
					m.Interfaces[j].RecvBps+m.Interfaces[j].SendBps
			})
		}
	}

	return m
}

// HealthScore condenses CPU, memory and disk pressure into 0..100.
// Each resource deducts 30 points when critical, 15 when elevated.
func HealthScore(cpuPct, memPct, diskPct float64) int {
	score := 100
	switch {
	case cpuPct > 90:
		score -= 30
	case cpuPct > 75:
		score -= 15
	}
	switch {
	case memPct > 90:
		score -= 30
	case memPct > 80:
		score -= 15
	}
	switch {
	case diskPct > 90:
		score -= 30
	case diskPct > 85:
		score -= 15
	}
	if score < 0 {
		score = 0
	}
	return score
}
