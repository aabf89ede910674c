package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats собирает сведения о процессе и хосте для /api/v1/stats
type ProcessStats struct {
	startTime time.Time
	proc      *process.Process // nil, если gopsutil не видит процесс
}

// ProcessSnapshot — снимок состояния процесса
type ProcessSnapshot struct {
	Uptime        string  `json:"uptime"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	ServerTime    int64   `json:"server_time"`
	NumCPU        int     `json:"num_cpu"`
	Goroutines    int     `json:"goroutines"`
	CPUPercent    float64 `json:"cpu_percent"`
	SystemCPU     float64 `json:"system_cpu"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	SysMB         float64 `json:"sys_mb"`
	NumGC         uint32  `json:"num_gc"`
	RSSMB         float64 `json:"rss_mb,omitempty"`
	HostMemoryPct float64 `json:"host_memory_percent,omitempty"`
	HostMemoryMB  float64 `json:"host_memory_total_mb,omitempty"`
}

// NewProcessStats создаёт сборщик; время старта — момент вызова
func NewProcessStats() *ProcessStats {
	ps := &ProcessStats{startTime: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps.proc = proc
	}
	return ps
}

// Snapshot собирает снимок. Недоступные метрики gopsutil остаются нулевыми.
func (ps *ProcessStats) Snapshot() ProcessSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(ps.startTime)
	snap := ProcessSnapshot{
		Uptime:        formatUptime(uptime),
		UptimeSeconds: int64(uptime.Seconds()),
		ServerTime:    time.Now().Unix(),
		NumCPU:        runtime.NumCPU(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   toMB(m.HeapAlloc),
		SysMB:         toMB(m.Sys),
		NumGC:         m.NumGC,
	}

	if ps.proc != nil {
		if pct, err := ps.proc.CPUPercent(); err == nil {
			snap.CPUPercent = pct
		}
		if info, err := ps.proc.MemoryInfo(); err == nil {
			snap.RSSMB = toMB(info.RSS)
		}
	}

	// Загрузка CPU с момента предыдущего вызова, без ожидания
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		snap.SystemCPU = pcts[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.HostMemoryPct = vm.UsedPercent
		snap.HostMemoryMB = toMB(vm.Total)
	}
	return snap
}

func toMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}

// formatUptime форматирует длительность как "1д 2ч 3м 4с", опуская старшие нули
func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	}
	return fmt.Sprintf("%dс", seconds)
}
