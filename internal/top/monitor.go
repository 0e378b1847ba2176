package top

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ziro/internal/procdir"
	"ziro/internal/render"
	"ziro/internal/ui"
)

// Sampler is the slice of the process directory the monitor reads.
type Sampler interface {
	Snapshot(ctx context.Context) (*procdir.Snapshot, error)
	Memory(ctx context.Context) (procdir.MemoryStats, error)
}

// Options controls one monitor run.
type Options struct {
	Interval time.Duration
	Limit    int
	ShowCPU  bool
	ShowCmd  bool
	Once     bool
}

// DefaultOptions mirrors the command-line defaults.
func DefaultOptions() Options {
	return Options{Interval: time.Second, Limit: 20}
}

// warmup gives CPU percentages a baseline before the first frame.
const warmup = 100 * time.Millisecond

// Monitor samples processes and repaints a ranked table until cancelled.
type Monitor struct {
	sampler Sampler
	theme   *ui.Theme
	out     io.Writer
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

// New returns a monitor drawing to out with the given theme.
func New(sampler Sampler, th *ui.Theme, out io.Writer) *Monitor {
	return &Monitor{sampler: sampler, theme: th, out: out, now: time.Now, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run loops until ctx is cancelled, or renders a single plain frame in
// Once mode. Cancellation is a normal exit. The screen is restored on
// every return path.
func (m *Monitor) Run(ctx context.Context, opts Options) (err error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}
	profile := m.theme.Profile
	alt := profile.AltScreen && !profile.Plain && !opts.Once
	incremental := profile.Incremental && !profile.Plain && !opts.Once

	var r render.Renderer = render.NewPlain(m.out)
	if incremental {
		inc := render.NewIncremental(m.out)
		if alt {
			if err := inc.EnterAltScreen(); err != nil {
				return fmt.Errorf("enter alternate screen: %w", err)
			}
		}
		defer func() {
			if rerr := inc.Restore(alt); rerr != nil && err == nil {
				err = fmt.Errorf("restore screen: %w", rerr)
			}
		}()
		r = inc
	}

	if _, err := m.sampler.Snapshot(ctx); err != nil {
		return fmt.Errorf("sample processes: %w", err)
	}
	if !opts.Once {
		if err := m.sleep(ctx, warmup); err != nil {
			return nil
		}
	}

	var tick uint64
	for {
		tick++
		start := m.now()
		frame, err := m.tick(ctx, tick, opts)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := r.Render(frame); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if opts.Once {
			return nil
		}
		wait := max(opts.Interval-m.now().Sub(start), 0)
		slog.Debug("top tick", "tick", tick, "rows", len(frame), "sleep", wait)
		if err := m.sleep(ctx, wait); err != nil {
			return nil
		}
	}
}

func (m *Monitor) tick(ctx context.Context, tick uint64, opts Options) (render.Frame, error) {
	snap, err := m.sampler.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("sample processes: %w", err)
	}
	mem, err := m.sampler.Memory(ctx)
	if err != nil {
		return nil, fmt.Errorf("sample memory: %w", err)
	}
	rows := Rank(snap.Records(), mem, opts.Limit, opts.ShowCPU)
	return Compose(m.theme, rows, Status{Tick: tick, Interval: opts.Interval, Memory: mem}, opts.ShowCPU, opts.ShowCmd), nil
}
