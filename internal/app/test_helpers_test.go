package app

import (
	"context"
	"io"
	"testing"

	"ziro/internal/config"
	"ziro/internal/fsops"
	"ziro/internal/lifecycle"
	"ziro/internal/ports"
	"ziro/internal/procdir"
	"ziro/internal/top"
	"ziro/internal/ui"
)

type stubResolver struct {
	found  map[uint16]ports.Info
	all    []ports.Info
	err    error
	wanted []uint16
}

func (s *stubResolver) Resolve(ctx context.Context, wanted []uint16) (map[uint16]ports.Info, error) {
	s.wanted = append([]uint16(nil), wanted...)
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[uint16]ports.Info)
	for _, p := range wanted {
		if info, ok := s.found[p]; ok {
			out[p] = info
		}
	}
	return out, nil
}

func (s *stubResolver) ResolveAll(context.Context) ([]ports.Info, error) {
	return s.all, s.err
}

type stubLifecycle struct {
	killed   []uint32
	forced   bool
	failPIDs map[uint32]error
	locks    []lifecycle.LockInfo
	inspect  []string
}

func (s *stubLifecycle) IsLocked(string) bool                     { return false }
func (s *stubLifecycle) FindHolders(string) []uint32              { return nil }
func (s *stubLifecycle) KillForced(context.Context, uint32) error { return nil }

func (s *stubLifecycle) KillAll(_ context.Context, pids []uint32, forced bool) []lifecycle.KillOutcome {
	s.killed = append(s.killed, pids...)
	s.forced = forced
	out := make([]lifecycle.KillOutcome, 0, len(pids))
	for _, pid := range pids {
		out = append(out, lifecycle.KillOutcome{PID: pid, Err: s.failPIDs[pid]})
	}
	return out
}

func (s *stubLifecycle) Inspect(_ context.Context, paths []string) []lifecycle.LockInfo {
	s.inspect = append(s.inspect, paths...)
	return s.locks
}

type stubRemover struct {
	calls int
	opts  fsops.ExecOptions
	seen  []fsops.Entry
}

func (s *stubRemover) Execute(_ context.Context, entries []fsops.Entry, opts fsops.ExecOptions) []fsops.Result {
	s.calls++
	s.opts = opts
	s.seen = entries
	out := make([]fsops.Result, 0, len(entries))
	for _, e := range entries {
		out = append(out, fsops.Result{Entry: e})
	}
	return out
}

type stubMonitor struct {
	opts top.Options
}

func (s *stubMonitor) Run(_ context.Context, opts top.Options) error {
	s.opts = opts
	return nil
}

type stubs struct {
	resolver *stubResolver
	life     *stubLifecycle
	remover  *stubRemover
	monitor  *stubMonitor
}

func resetDeps() {
	newDirectory = func() *procdir.System { return procdir.NewSystem() }
	newResolver = func(dir *procdir.System) portResolver { return ports.NewResolver(dir) }
	newLifecycle = func(dir *procdir.System, cfg config.KillConfig) lifecycleManager {
		return lifecycle.New(lifecycle.Options{
			Processes: dir,
			Policy:    lifecycle.ForcePolicy{Attempts: cfg.Attempts, Settle: cfg.Settle, Retry: cfg.Retry},
		})
	}
	newRemover = func(locker fsops.Locker, cfg config.RemoveConfig) removalEngine {
		return fsops.New(fsops.Options{Locker: locker, Attempts: cfg.Attempts, Backoff: cfg.Backoff, ReleaseWait: cfg.ReleaseWait})
	}
	newMonitor = func(dir *procdir.System, th *ui.Theme, out io.Writer) monitorRunner {
		return top.New(dir, th, out)
	}
	planRemoval = fsops.Plan
}

func stubAll(t *testing.T) *stubs {
	t.Helper()
	s := &stubs{
		resolver: &stubResolver{},
		life:     &stubLifecycle{},
		remover:  &stubRemover{},
		monitor:  &stubMonitor{},
	}
	newResolver = func(*procdir.System) portResolver { return s.resolver }
	newLifecycle = func(*procdir.System, config.KillConfig) lifecycleManager { return s.life }
	newRemover = func(fsops.Locker, config.RemoveConfig) removalEngine { return s.remover }
	newMonitor = func(*procdir.System, *ui.Theme, io.Writer) monitorRunner { return s.monitor }
	t.Cleanup(resetDeps)
	return s
}

func info(port uint16, pid uint32, name string) ports.Info {
	return ports.Info{Port: port, Process: procdir.Record{PID: pid, Name: name}}
}
