package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ziro/internal/procdir"
)

// LockDetector answers whether a path is held open and by whom. It never
// fails: an ambiguous answer is "locked" for IsLocked and "no holders" for
// FindHolders.
type LockDetector interface {
	IsLocked(path string) bool
	FindHolders(path string) []uint32
}

// Holder is a process holding a path open.
type Holder struct {
	PID  uint32
	Name string
	Cmd  string
}

// LockInfo is the lock picture for one path.
type LockInfo struct {
	Path    string
	Locked  bool
	Holders []Holder
}

// IsLocked reports whether path is held open. Missing paths are never locked.
func (m *Manager) IsLocked(path string) bool {
	if _, err := os.Lstat(path); err != nil {
		return false
	}
	return m.locks.IsLocked(canonicalPath(path))
}

// FindHolders returns the distinct pids holding path open, ascending.
func (m *Manager) FindHolders(path string) []uint32 {
	if _, err := os.Lstat(path); err != nil {
		return nil
	}
	return dedupPIDs(m.locks.FindHolders(canonicalPath(path)))
}

// Inspect reports the lock state of each path. Holders are named from one
// process snapshot; a pid missing from it is reported as "unknown".
func (m *Manager) Inspect(ctx context.Context, paths []string) []LockInfo {
	out := make([]LockInfo, 0, len(paths))
	var snap *procdir.Snapshot
	for _, path := range paths {
		info := LockInfo{Path: path, Locked: m.IsLocked(path)}
		pids := m.FindHolders(path)
		if len(pids) > 0 && snap == nil {
			snap, _ = m.procs.Snapshot(ctx)
		}
		for _, pid := range pids {
			h := Holder{PID: pid, Name: "unknown"}
			if rec, ok := snap.Get(pid); ok {
				h.Name = rec.DisplayName()
				h.Cmd = rec.CommandLine()
			}
			info.Holders = append(info.Holders, h)
		}
		if len(info.Holders) > 0 {
			info.Locked = true
		}
		out = append(out, info)
	}
	return out
}

// canonicalPath resolves symlinks in the parent directories of path the way
// the kernel does for open handles. The last element is kept, so a symlink
// entry still names the link itself.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		return abs
	}
	return filepath.Join(dir, filepath.Base(abs))
}

func dedupPIDs(pids []uint32) []uint32 {
	if len(pids) == 0 {
		return nil
	}
	seen := make(map[uint32]struct{}, len(pids))
	out := make([]uint32, 0, len(pids))
	for _, pid := range pids {
		if pid == 0 {
			continue
		}
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		out = append(out, pid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// parseDigitLines collects lines that consist only of a decimal pid, as
// printed by `lsof -t` and PowerShell `Select-Object -ExpandProperty Id`.
func parseDigitLines(lines []string) []uint32 {
	var out []uint32
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.TrimLeft(line, "0123456789") != "" {
			continue
		}
		if pid, ok := parsePID(line); ok {
			out = append(out, pid)
		}
	}
	return out
}
