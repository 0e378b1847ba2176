package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"ziro/internal/app"
	"ziro/internal/fsops"
	"ziro/internal/lifecycle"
	"ziro/internal/ports"
	"ziro/internal/procdir"
	"ziro/internal/term"
)

type stubController struct {
	findFunc   func(ctx context.Context, params app.FindParams) (app.FindResult, error)
	listFunc   func(ctx context.Context) ([]ports.Info, error)
	killFunc   func(ctx context.Context, params app.KillParams) (app.KillResult, error)
	whoFunc    func(ctx context.Context, params app.WhoParams) ([]lifecycle.LockInfo, error)
	removeFunc func(ctx context.Context, params app.RemoveParams) (app.RemoveResult, error)
	topFunc    func(ctx context.Context, params app.TopParams) error
}

func (s *stubController) Find(ctx context.Context, params app.FindParams) (app.FindResult, error) {
	if s.findFunc != nil {
		return s.findFunc(ctx, params)
	}
	panic("Find not implemented")
}

func (s *stubController) List(ctx context.Context) ([]ports.Info, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx)
	}
	panic("List not implemented")
}

func (s *stubController) Kill(ctx context.Context, params app.KillParams) (app.KillResult, error) {
	if s.killFunc != nil {
		return s.killFunc(ctx, params)
	}
	panic("Kill not implemented")
}

func (s *stubController) Who(ctx context.Context, params app.WhoParams) ([]lifecycle.LockInfo, error) {
	if s.whoFunc != nil {
		return s.whoFunc(ctx, params)
	}
	panic("Who not implemented")
}

func (s *stubController) Remove(ctx context.Context, params app.RemoveParams) (app.RemoveResult, error) {
	if s.removeFunc != nil {
		return s.removeFunc(ctx, params)
	}
	panic("Remove not implemented")
}

func (s *stubController) Top(ctx context.Context, params app.TopParams) error {
	if s.topFunc != nil {
		return s.topFunc(ctx, params)
	}
	panic("Top not implemented")
}

func withController(t *testing.T, stub controllerAPI) {
	t.Helper()
	origFactory := controllerFactory
	controllerFactory = func() controllerAPI {
		return stub
	}
	t.Cleanup(func() {
		controllerFactory = origFactory
	})
}

// withPlainOutput captures cmd output with the plain profile and a
// non-interactive stdin.
func withPlainOutput(t *testing.T, cmd *cobra.Command, interactive bool) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	origOut := cmd.OutOrStdout()
	origErr := cmd.ErrOrStderr()
	origProfile := profile
	origStdin := stdinIsTerminal
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())
	profile = term.PlainProfile()
	stdinIsTerminal = func() bool { return interactive }
	t.Cleanup(func() {
		cmd.SetOut(origOut)
		cmd.SetErr(origErr)
		profile = origProfile
		stdinIsTerminal = origStdin
	})
	return buf
}

func setFlag[T any](t *testing.T, v *T, val T) {
	t.Helper()
	old := *v
	*v = val
	t.Cleanup(func() { *v = old })
}

func nginx(port uint16) ports.Info {
	return ports.Info{Port: port, Process: procdir.Record{PID: 100, Name: "nginx"}}
}

func TestFindPrintsTree(t *testing.T) {
	withController(t, &stubController{
		findFunc: func(ctx context.Context, params app.FindParams) (app.FindResult, error) {
			if len(params.Ports) != 2 || params.Ports[1] != 8080 {
				t.Fatalf("unexpected ports %v", params.Ports)
			}
			return app.FindResult{Ports: params.Ports, Found: map[uint16]ports.Info{80: nginx(80)}}, nil
		},
	})
	buf := withPlainOutput(t, cmdFind, false)

	if err := cmdFind.RunE(cmdFind, []string{"80", "8080"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "process: nginx (100)") || !strings.Contains(out, "8080 x (not in use)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestFindRejectsBadPort(t *testing.T) {
	withController(t, &stubController{})
	withPlainOutput(t, cmdFind, false)
	if err := cmdFind.RunE(cmdFind, []string{"http"}); err == nil {
		t.Fatalf("expected invalid port error")
	}
}

func TestListPropagatesError(t *testing.T) {
	expected := errors.New("no backend")
	withController(t, &stubController{
		listFunc: func(context.Context) ([]ports.Info, error) { return nil, expected },
	})
	withPlainOutput(t, cmdList, false)
	if err := cmdList.RunE(cmdList, nil); !errors.Is(err, expected) {
		t.Fatalf("expected %v, got %v", expected, err)
	}
}

func TestKillNeedsTerminalWithoutForce(t *testing.T) {
	withController(t, &stubController{})
	withPlainOutput(t, cmdKill, false)
	setFlag(t, &killForce, false)
	err := cmdKill.RunE(cmdKill, []string{"80"})
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected a hint to use --force, got %v", err)
	}
}

func TestKillForcedPrintsTargetsAndTally(t *testing.T) {
	withController(t, &stubController{
		killFunc: func(ctx context.Context, params app.KillParams) (app.KillResult, error) {
			if !params.Force {
				t.Fatalf("expected forced kill")
			}
			targets := []ports.Info{nginx(80)}
			params.Announce(targets)
			return app.KillResult{
				Candidates: targets,
				Targets:    targets,
				Outcomes:   []lifecycle.KillOutcome{{PID: 100}},
				Successes:  1,
			}, nil
		},
	})
	buf := withPlainOutput(t, cmdKill, false)
	setFlag(t, &killForce, true)

	if err := cmdKill.RunE(cmdKill, []string{"80"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Force killing processes", "port 80 - nginx (PID 100)", "Force killed process 100", "ok: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestKillMessage(t *testing.T) {
	withController(t, &stubController{
		killFunc: func(context.Context, app.KillParams) (app.KillResult, error) {
			return app.KillResult{Message: "No process is using the given ports"}, nil
		},
	})
	buf := withPlainOutput(t, cmdKill, true)
	setFlag(t, &killForce, false)
	if err := cmdKill.RunE(cmdKill, []string{"9"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got := buf.String(); got != "No process is using the given ports\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWhoPrintsTable(t *testing.T) {
	withController(t, &stubController{
		whoFunc: func(ctx context.Context, params app.WhoParams) ([]lifecycle.LockInfo, error) {
			return []lifecycle.LockInfo{{Path: params.Paths[0], Locked: true, Holders: []lifecycle.Holder{{PID: 5, Name: "vim"}}}}, nil
		},
	})
	buf := withPlainOutput(t, cmdWho, false)
	if err := cmdWho.RunE(cmdWho, []string{"notes.txt"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if !strings.Contains(buf.String(), "notes.txt") || !strings.Contains(buf.String(), "vim") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestRmDryRunPreviewsAndSummarises(t *testing.T) {
	entries := []fsops.Entry{{Path: "build/a.o", Size: 4}, {Path: "build", IsDir: true}}
	withController(t, &stubController{
		removeFunc: func(ctx context.Context, params app.RemoveParams) (app.RemoveResult, error) {
			if !params.DryRun || !params.Recursive {
				t.Fatalf("unexpected params %+v", params)
			}
			params.Preview(entries)
			results := []fsops.Result{{Entry: entries[0]}, {Entry: entries[1]}}
			return app.RemoveResult{Entries: entries, Results: results, Summary: fsops.Summarize(results)}, nil
		},
	})
	buf := withPlainOutput(t, cmdRm, false)
	setFlag(t, &rmDryRun, true)
	setFlag(t, &rmRecursive, true)
	setFlag(t, &rmForce, false)

	if err := cmdRm.RunE(cmdRm, []string{"build"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Dry run: nothing will be deleted", "1 files", "Dry run done", "ok: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRmNeedsTerminalToConfirm(t *testing.T) {
	withController(t, &stubController{})
	withPlainOutput(t, cmdRm, false)
	setFlag(t, &rmDryRun, false)
	setFlag(t, &rmForce, false)
	if err := cmdRm.RunE(cmdRm, []string{"x"}); err == nil {
		t.Fatalf("expected terminal error")
	}
}

func TestRmCancelled(t *testing.T) {
	withController(t, &stubController{
		removeFunc: func(ctx context.Context, params app.RemoveParams) (app.RemoveResult, error) {
			return app.RemoveResult{Cancelled: true}, nil
		},
	})
	buf := withPlainOutput(t, cmdRm, true)
	setFlag(t, &rmDryRun, false)
	setFlag(t, &rmForce, false)
	if err := cmdRm.RunE(cmdRm, []string{"x"}); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got := buf.String(); got != "Cancelled\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTopPassesFlags(t *testing.T) {
	var got app.TopParams
	withController(t, &stubController{
		topFunc: func(ctx context.Context, params app.TopParams) error {
			got = params
			return nil
		},
	})
	withPlainOutput(t, cmdTop, false)
	setFlag(t, &topInterval, 2*time.Second)
	setFlag(t, &topLimit, 5)
	setFlag(t, &topOnce, true)

	if err := cmdTop.RunE(cmdTop, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got.Options.Interval != 2*time.Second || got.Options.Limit != 5 || !got.Options.Once {
		t.Fatalf("unexpected options %+v", got.Options)
	}
	if got.Theme == nil || got.Out == nil {
		t.Fatalf("theme and output must be set")
	}
}

func TestVersion(t *testing.T) {
	buf := withPlainOutput(t, cmdVersion, false)
	setFlag(t, &version, "1.2.3")
	if err := cmdVersion.RunE(cmdVersion, nil); err != nil {
		t.Fatalf("RunE error: %v", err)
	}
	if got := buf.String(); got != "ziro 1.2.3\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
