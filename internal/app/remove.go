package app

import (
	"context"
	"errors"

	"ziro/internal/fsops"
)

// RemoveParams configures rm command semantics.
type RemoveParams struct {
	Paths     []string
	Recursive bool
	// Force skips the confirmation.
	Force   bool
	DryRun  bool
	Verbose bool
	// Anyway kills the processes holding locked entries.
	Anyway bool

	// Preview sees the plan before anything happens, unless Force is set
	// outside a dry run.
	Preview func(entries []fsops.Entry)
	// Confirm approves the plan when neither Force nor DryRun is set.
	// Nil approves.
	Confirm func(entries []fsops.Entry) (bool, error)
	// Starting runs right before execution.
	Starting func()
	// Report receives each result as it happens in verbose mode.
	Report func(fsops.Result)
}

// RemoveResult reports the plan and what happened to each entry.
type RemoveResult struct {
	Entries   []fsops.Entry
	Results   []fsops.Result
	Summary   fsops.Summary
	Cancelled bool
}

// Remove plans, confirms and executes a deletion. Planning errors stop
// the command; per-entry failures are only reported.
func (a *App) Remove(ctx context.Context, params RemoveParams) (RemoveResult, error) {
	var result RemoveResult
	if len(params.Paths) == 0 {
		return result, errors.New("provide at least one path")
	}

	entries, err := planRemoval(params.Paths, params.Recursive)
	if err != nil {
		return result, err
	}
	result.Entries = fsops.Order(entries)

	if params.Preview != nil && (!params.Force || params.DryRun) {
		params.Preview(result.Entries)
	}
	if !params.Force && !params.DryRun && params.Confirm != nil {
		ok, err := params.Confirm(result.Entries)
		if err != nil {
			return result, err
		}
		if !ok {
			result.Cancelled = true
			return result, nil
		}
	}

	if params.Starting != nil {
		params.Starting()
	}
	result.Results = a.remover.Execute(ctx, result.Entries, fsops.ExecOptions{
		DryRun:      params.DryRun,
		Verbose:     params.Verbose,
		ForceUnlock: params.Anyway,
		Report:      params.Report,
	})
	result.Summary = fsops.Summarize(result.Results)
	return result, nil
}
