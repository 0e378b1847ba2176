package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ziro/internal/lifecycle"
	"ziro/internal/ports"
)

// FindParams selects the ports to look up.
type FindParams struct {
	Ports []uint16
}

// FindResult pairs the requested ports, de-duplicated in request order,
// with the owners that were found.
type FindResult struct {
	Ports []uint16
	Found map[uint16]ports.Info
}

// ParsePorts validates command-line port arguments.
func ParsePorts(args []string) ([]uint16, error) {
	out := make([]uint16, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 16)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid port %q: want 1-65535", arg)
		}
		out = append(out, uint16(n))
	}
	return out, nil
}

func uniquePorts(in []uint16) []uint16 {
	seen := make(map[uint16]bool, len(in))
	out := make([]uint16, 0, len(in))
	for _, p := range in {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// Find resolves the owners of the requested ports.
func (a *App) Find(ctx context.Context, params FindParams) (FindResult, error) {
	var result FindResult
	if len(params.Ports) == 0 {
		return result, errors.New("provide at least one port")
	}
	result.Ports = uniquePorts(params.Ports)
	found, err := a.resolver.Resolve(ctx, result.Ports)
	if err != nil {
		return result, fmt.Errorf("resolve ports: %w", err)
	}
	result.Found = found
	return result, nil
}

// List returns every bound port with its owner, ascending by port.
func (a *App) List(ctx context.Context) ([]ports.Info, error) {
	infos, err := a.resolver.ResolveAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve ports: %w", err)
	}
	return infos, nil
}

// WhoParams selects the paths to inspect.
type WhoParams struct {
	Paths []string
}

// Who reports which processes hold each path open.
func (a *App) Who(ctx context.Context, params WhoParams) ([]lifecycle.LockInfo, error) {
	if len(params.Paths) == 0 {
		return nil, errors.New("provide at least one path")
	}
	return a.life.Inspect(ctx, params.Paths), nil
}
