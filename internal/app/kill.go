package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ziro/internal/lifecycle"
	"ziro/internal/ports"
)

// KillParams configures kill command semantics.
type KillParams struct {
	Ports []uint16
	Force bool
	// Select narrows the candidates when not forced. Nil keeps them all.
	Select func([]ports.Info) ([]ports.Info, error)
	// Announce runs just before the first signal is sent.
	Announce func(targets []ports.Info)
}

// KillResult aggregates the command outcome.
type KillResult struct {
	Candidates []ports.Info
	Targets    []ports.Info
	Outcomes   []lifecycle.KillOutcome
	Message    string
	Successes  int
}

// Kill terminates the owners of the given ports. Per-process failures are
// reported in the result, not as an error.
func (a *App) Kill(ctx context.Context, params KillParams) (KillResult, error) {
	var result KillResult
	if len(params.Ports) == 0 {
		return result, errors.New("provide at least one port")
	}

	wanted := uniquePorts(params.Ports)
	found, err := a.resolver.Resolve(ctx, wanted)
	if err != nil {
		return result, fmt.Errorf("resolve ports: %w", err)
	}
	for _, port := range wanted {
		if info, ok := found[port]; ok {
			result.Candidates = append(result.Candidates, info)
		}
	}
	if len(result.Candidates) == 0 {
		result.Message = "No process is using the given ports"
		return result, nil
	}

	result.Targets = result.Candidates
	if !params.Force && params.Select != nil {
		chosen, err := params.Select(result.Candidates)
		if err != nil {
			return result, err
		}
		result.Targets = chosen
	}
	if len(result.Targets) == 0 {
		result.Message = "Nothing selected"
		return result, nil
	}

	if params.Announce != nil {
		params.Announce(result.Targets)
	}
	pids := targetPIDs(result.Targets)
	slog.Debug("killing", "pids", pids, "forced", params.Force)
	result.Outcomes = a.life.KillAll(ctx, pids, params.Force)
	for _, o := range result.Outcomes {
		if o.Err == nil {
			result.Successes++
		}
	}
	return result, nil
}

// targetPIDs lists each owning pid once; one process may hold several ports.
func targetPIDs(targets []ports.Info) []uint32 {
	seen := make(map[uint32]bool, len(targets))
	pids := make([]uint32, 0, len(targets))
	for _, t := range targets {
		if !seen[t.Process.PID] {
			seen[t.Process.PID] = true
			pids = append(pids, t.Process.PID)
		}
	}
	return pids
}
