// Package lifecycle terminates processes and reports which processes hold a
// file open.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"time"

	"ziro/internal/fault"
	"ziro/internal/procdir"
)

// Processes is the view of the process table the manager needs.
type Processes interface {
	Exists(ctx context.Context, pid uint32) (bool, error)
	Snapshot(ctx context.Context) (*procdir.Snapshot, error)
}

// Signaler delivers termination requests. Terminate is the polite request
// (SIGTERM, TerminateProcess on Windows); ForceKill cannot be caught.
type Signaler interface {
	Terminate(pid uint32) error
	ForceKill(pid uint32) error
}

// ForcePolicy bounds the forced-kill retry loop.
type ForcePolicy struct {
	Attempts int
	Settle   time.Duration
	Retry    time.Duration
}

// DefaultForcePolicy gives a worst case of 3 signals and 3.5s of sleeping.
func DefaultForcePolicy() ForcePolicy {
	return ForcePolicy{Attempts: 3, Settle: 500 * time.Millisecond, Retry: time.Second}
}

// Options configures a Manager. Zero fields fall back to platform defaults.
type Options struct {
	Processes Processes
	Signals   Signaler
	Locks     LockDetector
	Policy    ForcePolicy
	Sleep     func(time.Duration)
}

// Manager kills processes and answers lock queries.
type Manager struct {
	procs  Processes
	sig    Signaler
	locks  LockDetector
	policy ForcePolicy
	sleep  func(time.Duration)
}

// New builds a Manager.
func New(opts Options) *Manager {
	m := &Manager{
		procs:  opts.Processes,
		sig:    opts.Signals,
		locks:  opts.Locks,
		policy: opts.Policy,
		sleep:  opts.Sleep,
	}
	if m.procs == nil {
		m.procs = procdir.NewSystem()
	}
	if m.sig == nil {
		m.sig = osSignaler{}
	}
	if m.locks == nil {
		m.locks = platformDetector()
	}
	if m.policy.Attempts <= 0 {
		m.policy = DefaultForcePolicy()
	}
	if m.sleep == nil {
		m.sleep = time.Sleep
	}
	return m
}

// Policy returns the forced-kill policy in effect.
func (m *Manager) Policy() ForcePolicy { return m.policy }

// Kill sends one polite termination request. A pid that is already gone
// counts as killed.
func (m *Manager) Kill(ctx context.Context, pid uint32) error {
	alive, err := m.procs.Exists(ctx, pid)
	if err != nil {
		return fault.ForPID(fault.KindOf(err), "check process", pid, err)
	}
	if !alive {
		return nil
	}
	if err := m.sig.Terminate(pid); err != nil {
		if processGone(err) {
			return nil
		}
		return fault.ForPID(fault.KindOf(err), "terminate", pid, err)
	}
	return nil
}

type forceState int

const (
	stateChecking forceState = iota
	stateSignaling
	stateVerifying
	stateSucceeded
	stateFailed
)

// ErrStillRunning is reported when every forced attempt was delivered but
// the process never went away.
var ErrStillRunning = errors.New("process may still be running")

// KillForced escalates to an uncatchable kill and retries per the policy
// until the process is gone.
func (m *Manager) KillForced(ctx context.Context, pid uint32) error {
	state := stateChecking
	attempt := 0
	var failure error

	for {
		switch state {
		case stateChecking:
			alive, err := m.procs.Exists(ctx, pid)
			if err != nil {
				return fault.ForPID(fault.KindOf(err), "check process", pid, err)
			}
			if !alive {
				state = stateSucceeded
			} else {
				state = stateSignaling
			}

		case stateSignaling:
			attempt++
			err := m.sig.ForceKill(pid)
			switch {
			case err == nil:
				m.sleep(m.policy.Settle)
				state = stateVerifying
			case processGone(err):
				state = stateSucceeded
			case attempt >= m.policy.Attempts:
				failure = fault.ForPID(fault.KindOf(err), "force kill", pid, err)
				state = stateFailed
			default:
				m.sleep(m.policy.Retry)
			}

		case stateVerifying:
			alive, err := m.procs.Exists(ctx, pid)
			if err == nil && !alive {
				state = stateSucceeded
				break
			}
			if attempt >= m.policy.Attempts {
				failure = fault.ForPID(fault.Other, "force kill", pid, ErrStillRunning)
				state = stateFailed
				break
			}
			m.sleep(m.policy.Retry)
			state = stateSignaling

		case stateSucceeded:
			return nil

		case stateFailed:
			return failure
		}
	}
}

// KillOutcome is the result for one pid of a batch kill.
type KillOutcome struct {
	PID uint32
	Err error
}

// KillAll kills every pid in order. A failure never stops the batch.
func (m *Manager) KillAll(ctx context.Context, pids []uint32, forced bool) []KillOutcome {
	out := make([]KillOutcome, 0, len(pids))
	for _, pid := range pids {
		var err error
		if forced {
			err = m.KillForced(ctx, pid)
		} else {
			err = m.Kill(ctx, pid)
		}
		out = append(out, KillOutcome{PID: pid, Err: err})
	}
	return out
}

func processGone(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || fault.KindOf(err) == fault.NotFound
}
