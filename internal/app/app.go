package app

import (
	"context"
	"io"

	"ziro/internal/config"
	"ziro/internal/fsops"
	"ziro/internal/lifecycle"
	"ziro/internal/ports"
	"ziro/internal/procdir"
	"ziro/internal/top"
	"ziro/internal/ui"
)

// Options configures the top-level controller.
type Options struct {
	// Config holds the loaded settings; nil means built-in defaults.
	Config *config.Config
}

type portResolver interface {
	Resolve(ctx context.Context, wanted []uint16) (map[uint16]ports.Info, error)
	ResolveAll(ctx context.Context) ([]ports.Info, error)
}

type lifecycleManager interface {
	fsops.Locker
	KillAll(ctx context.Context, pids []uint32, forced bool) []lifecycle.KillOutcome
	Inspect(ctx context.Context, paths []string) []lifecycle.LockInfo
}

type removalEngine interface {
	Execute(ctx context.Context, entries []fsops.Entry, opts fsops.ExecOptions) []fsops.Result
}

type monitorRunner interface {
	Run(ctx context.Context, opts top.Options) error
}

// Construction seams, swapped in tests.
var (
	newDirectory = func() *procdir.System { return procdir.NewSystem() }
	newResolver  = func(dir *procdir.System) portResolver { return ports.NewResolver(dir) }
	newLifecycle = func(dir *procdir.System, cfg config.KillConfig) lifecycleManager {
		return lifecycle.New(lifecycle.Options{
			Processes: dir,
			Policy:    lifecycle.ForcePolicy{Attempts: cfg.Attempts, Settle: cfg.Settle, Retry: cfg.Retry},
		})
	}
	newRemover = func(locker fsops.Locker, cfg config.RemoveConfig) removalEngine {
		return fsops.New(fsops.Options{
			Locker:      locker,
			Attempts:    cfg.Attempts,
			Backoff:     cfg.Backoff,
			ReleaseWait: cfg.ReleaseWait,
		})
	}
	newMonitor = func(dir *procdir.System, th *ui.Theme, out io.Writer) monitorRunner {
		return top.New(dir, th, out)
	}
	planRemoval = fsops.Plan
)

// App exposes high-level operations that the CLI reuses.
type App struct {
	cfg      config.Config
	dir      *procdir.System
	resolver portResolver
	life     lifecycleManager
	remover  removalEngine
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	dir := newDirectory()
	life := newLifecycle(dir, cfg.Kill)
	return &App{
		cfg:      cfg,
		dir:      dir,
		resolver: newResolver(dir),
		life:     life,
		remover:  newRemover(life, cfg.Remove),
	}
}

// Config returns the settings in effect.
func (a *App) Config() config.Config {
	return a.cfg
}
