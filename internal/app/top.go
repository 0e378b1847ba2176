package app

import (
	"context"
	"errors"
	"io"

	"ziro/internal/top"
	"ziro/internal/ui"
)

// TopParams configures the live monitor. Zero interval or limit take the
// configured values.
type TopParams struct {
	Options top.Options
	Theme   *ui.Theme
	Out     io.Writer
}

// Top runs the live monitor until ctx is cancelled or, in once mode,
// after one frame.
func (a *App) Top(ctx context.Context, params TopParams) error {
	if params.Theme == nil || params.Out == nil {
		return errors.New("top needs an output and a theme")
	}
	opts := params.Options
	if opts.Interval <= 0 {
		opts.Interval = a.cfg.Top.Interval
	}
	if opts.Limit <= 0 {
		opts.Limit = a.cfg.Top.Limit
	}
	return newMonitor(a.dir, params.Theme, params.Out).Run(ctx, opts)
}
