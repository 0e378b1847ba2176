package procdir

import (
	"sort"
	"strings"
	"time"
)

// Record is one process as captured by a snapshot. It is never updated in
// place; a later snapshot produces new records.
type Record struct {
	PID         uint32
	Name        string
	Cmd         []string
	CPUPercent  float64
	MemoryBytes uint64
}

// CommandLine joins the argument vector with single spaces.
func (r Record) CommandLine() string {
	return strings.Join(r.Cmd, " ")
}

// DisplayName falls back to the executable basename when the OS gave no name.
func (r Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	if len(r.Cmd) > 0 && r.Cmd[0] != "" {
		exe := r.Cmd[0]
		if i := strings.LastIndexAny(exe, `/\`); i >= 0 {
			exe = exe[i+1:]
		}
		return exe
	}
	return "unknown"
}

// MemoryStats is the system-wide memory picture at sampling time.
type MemoryStats struct {
	Total uint64
	Used  uint64
}

// UsedPercent returns Used/Total in percent, or 0 when Total is unknown.
func (m MemoryStats) UsedPercent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Used) / float64(m.Total) * 100
}

// Snapshot is an immutable view of every process at one point in time.
type Snapshot struct {
	taken   time.Time
	records map[uint32]Record
}

// NewSnapshot builds a snapshot from records. Later duplicates of a PID win.
func NewSnapshot(records []Record) *Snapshot {
	s := &Snapshot{
		taken:   time.Now(),
		records: make(map[uint32]Record, len(records)),
	}
	for _, r := range records {
		s.records[r.PID] = r
	}
	return s
}

// Taken reports when the snapshot was captured.
func (s *Snapshot) Taken() time.Time { return s.taken }

// Len returns the number of processes in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Get returns the record for pid.
func (s *Snapshot) Get(pid uint32) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	r, ok := s.records[pid]
	return r, ok
}

// Has reports whether pid was running when the snapshot was taken.
func (s *Snapshot) Has(pid uint32) bool {
	_, ok := s.Get(pid)
	return ok
}

// Records returns a copy of all records ordered by PID.
func (s *Snapshot) Records() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}
