// Package ports maps bound network ports to the processes that own them.
package ports

import (
	"context"
	"fmt"
	"sort"

	"ziro/internal/procdir"
)

// Binding is one port-to-owner row as reported by the OS.
type Binding struct {
	Port uint16
	PID  uint32
}

// Info is a binding whose owner could be resolved to a running process.
type Info struct {
	Port    uint16
	Process procdir.Record
}

// Backend lists the port bindings visible to the current user. Rows are
// returned in table order; callers apply the first-row-wins rule.
type Backend interface {
	Bindings(ctx context.Context) ([]Binding, error)
}

// Directory resolves a pid to a process record.
type Directory interface {
	Lookup(ctx context.Context, pid uint32) (procdir.Record, bool, error)
}

// Resolver answers port ownership queries. Nothing is cached between calls.
type Resolver struct {
	backend Backend
	dir     Directory
}

// NewResolver returns a resolver using the backend for the current platform.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{backend: platformBackend(), dir: dir}
}

// NewResolverWithBackend is used by callers that supply their own table source.
func NewResolverWithBackend(backend Backend, dir Directory) *Resolver {
	return &Resolver{backend: backend, dir: dir}
}

// Resolve returns at most one Info per requested port: the first row whose
// owner is still running. Ports that are unused or whose owners cannot be
// resolved are absent from the result.
func (r *Resolver) Resolve(ctx context.Context, ports []uint16) (map[uint16]Info, error) {
	out := make(map[uint16]Info, len(ports))
	if len(ports) == 0 {
		return out, nil
	}
	want := make(map[uint16]struct{}, len(ports))
	for _, p := range ports {
		want[p] = struct{}{}
	}

	bindings, err := r.bindings(ctx)
	if err != nil {
		return nil, err
	}
	cache := make(map[uint32]*procdir.Record)
	for _, b := range bindings {
		if _, ok := want[b.Port]; !ok {
			continue
		}
		if _, done := out[b.Port]; done {
			continue
		}
		rec, ok, err := r.lookup(ctx, cache, b.PID)
		if err != nil {
			return nil, err
		}
		if ok {
			out[b.Port] = Info{Port: b.Port, Process: rec}
		}
	}
	return out, nil
}

// ResolveAll returns every resolvable binding, strictly ascending by port.
func (r *Resolver) ResolveAll(ctx context.Context) ([]Info, error) {
	bindings, err := r.bindings(ctx)
	if err != nil {
		return nil, err
	}
	cache := make(map[uint32]*procdir.Record)
	seen := make(map[uint16]struct{}, len(bindings))
	out := make([]Info, 0, len(bindings))
	for _, b := range bindings {
		if _, done := seen[b.Port]; done {
			continue
		}
		rec, ok, err := r.lookup(ctx, cache, b.PID)
		if err != nil {
			return nil, err
		}
		if ok {
			seen[b.Port] = struct{}{}
			out = append(out, Info{Port: b.Port, Process: rec})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, nil
}

func (r *Resolver) bindings(ctx context.Context) ([]Binding, error) {
	rows, err := r.backend.Bindings(ctx)
	if err != nil {
		return nil, fmt.Errorf("read port table: %w", err)
	}
	return rows, nil
}

// lookup memoises owners for the duration of one call; a nil entry records
// a pid that is no longer running.
func (r *Resolver) lookup(ctx context.Context, cache map[uint32]*procdir.Record, pid uint32) (procdir.Record, bool, error) {
	if rec, seen := cache[pid]; seen {
		if rec == nil {
			return procdir.Record{}, false, nil
		}
		return *rec, true, nil
	}
	rec, ok, err := r.dir.Lookup(ctx, pid)
	if err != nil {
		return procdir.Record{}, false, fmt.Errorf("resolve owner of pid %d: %w", pid, err)
	}
	if !ok {
		cache[pid] = nil
		return procdir.Record{}, false, nil
	}
	cache[pid] = &rec
	return rec, true, nil
}
