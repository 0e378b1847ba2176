// Package procdir captures refreshable snapshots of the running processes.
package procdir

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// System is the gopsutil-backed process directory.
//
// It remembers the process handles of the previous refresh so that CPU
// percentages are computed over the interval between two refreshes. Only the
// Live Monitor refreshes repeatedly; one-shot callers see 0% CPU.
type System struct {
	tracked map[int32]*process.Process
}

// NewSystem returns an empty directory. Nothing is sampled until Snapshot.
func NewSystem() *System {
	return &System{tracked: make(map[int32]*process.Process)}
}

// Snapshot refreshes every process and returns a new immutable view.
// Processes that vanish mid-refresh are skipped.
func (s *System) Snapshot(ctx context.Context) (*Snapshot, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	next := make(map[int32]*process.Process, len(procs))
	records := make([]Record, 0, len(procs))
	for _, p := range procs {
		if prev, ok := s.tracked[p.Pid]; ok {
			p = prev
		}
		rec, ok := s.record(ctx, p)
		if !ok {
			continue
		}
		next[p.Pid] = p
		records = append(records, rec)
	}
	s.tracked = next
	return NewSnapshot(records), nil
}

// Lookup samples a single pid. ok is false when the process is not running.
func (s *System) Lookup(ctx context.Context, pid uint32) (Record, bool, error) {
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("lookup pid %d: %w", pid, err)
	}
	rec, ok := s.record(ctx, p)
	return rec, ok, nil
}

// Exists reports whether pid is currently running.
func (s *System) Exists(ctx context.Context, pid uint32) (bool, error) {
	return process.PidExistsWithContext(ctx, int32(pid))
}

// Memory returns total and used physical memory.
func (s *System) Memory(ctx context.Context) (MemoryStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, fmt.Errorf("read memory stats: %w", err)
	}
	return MemoryStats{Total: vm.Total, Used: vm.Used}, nil
}

func (s *System) record(ctx context.Context, p *process.Process) (Record, bool) {
	if p.Pid < 0 {
		return Record{}, false
	}
	rec := Record{PID: uint32(p.Pid)}

	name, err := p.NameWithContext(ctx)
	if err != nil {
		if alive, _ := p.IsRunningWithContext(ctx); !alive {
			return Record{}, false
		}
	}
	rec.Name = name

	if args, err := p.CmdlineSliceWithContext(ctx); err == nil && len(args) > 0 {
		rec.Cmd = args
	} else {
		rec.Cmd = fallbackCmdline(rec.PID)
	}

	if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
		rec.MemoryBytes = mi.RSS
	}
	if cpu, err := p.PercentWithContext(ctx, 0); err == nil {
		rec.CPUPercent = cpu
	} else {
		slog.Debug("cpu sample failed", "pid", rec.PID, "err", err)
	}
	return rec, true
}
