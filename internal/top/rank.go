// Package top runs the live process monitor.
package top

import (
	"sort"

	"ziro/internal/procdir"
)

// Row is one ranked process as displayed.
type Row struct {
	PID           uint32
	Name          string
	Cmd           string
	MemoryBytes   uint64
	MemoryPercent float64
	CPU           float64
}

func score(r Row, withCPU bool) float64 {
	if !withCPU {
		return float64(r.MemoryBytes)
	}
	return float64(r.MemoryBytes)*0.7 + r.CPU*1000*0.3
}

// Rank orders records by memory, or by a memory/cpu blend when withCPU is
// set, and keeps the first max(limit, 1). Ties go to the lower pid.
func Rank(records []procdir.Record, mem procdir.MemoryStats, limit int, withCPU bool) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := Row{
			PID:         rec.PID,
			Name:        rec.DisplayName(),
			Cmd:         rec.CommandLine(),
			MemoryBytes: rec.MemoryBytes,
			CPU:         rec.CPUPercent,
		}
		if mem.Total > 0 {
			row.MemoryPercent = float64(rec.MemoryBytes) / float64(mem.Total) * 100
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := score(rows[i], withCPU), score(rows[j], withCPU)
		if si != sj {
			return si > sj
		}
		return rows[i].PID < rows[j].PID
	})
	limit = max(limit, 1)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
