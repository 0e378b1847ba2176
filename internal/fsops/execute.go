package fsops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ziro/internal/fault"
)

var (
	// ErrRetryWithForce marks a locked entry that was left alone because
	// lock breaking was not requested.
	ErrRetryWithForce = errors.New("in use by another process; retry with force unlock")
	// ErrHolderUnidentified marks a locked entry whose holders could not be found.
	ErrHolderUnidentified = errors.New("in use, but the holding process could not be identified")
)

// Locker is the lock and termination surface the engine needs.
type Locker interface {
	IsLocked(path string) bool
	FindHolders(path string) []uint32
	KillForced(ctx context.Context, pid uint32) error
}

// Options configures an Engine.
type Options struct {
	Locker      Locker
	Attempts    int
	Backoff     time.Duration
	ReleaseWait time.Duration
	Sleep       func(time.Duration)
}

// DefaultOptions returns the stock retry and release timings.
func DefaultOptions() Options {
	return Options{Attempts: 3, Backoff: 100 * time.Millisecond, ReleaseWait: 750 * time.Millisecond}
}

// ExecOptions selects how one removal request runs.
type ExecOptions struct {
	DryRun      bool
	Verbose     bool
	ForceUnlock bool
	// Report receives every result as it is produced when Verbose is set.
	Report func(Result)
}

// Result is the outcome for one entry.
type Result struct {
	Entry Entry
	Err   error
	// Bulk is set when the entry went away with its root's bulk removal.
	Bulk bool
}

// Engine executes removal plans.
type Engine struct {
	locker      Locker
	attempts    int
	step        time.Duration
	releaseWait time.Duration
	sleep       func(time.Duration)
	bulk        func(path string) error
	remove      func(Entry) error
}

// New builds an engine. Zero timings take the defaults.
func New(opts Options) *Engine {
	def := DefaultOptions()
	e := &Engine{
		locker:      opts.Locker,
		attempts:    opts.Attempts,
		step:        opts.Backoff,
		releaseWait: opts.ReleaseWait,
		sleep:       opts.Sleep,
		bulk:        platformBulkRemove,
		remove:      removeOnce,
	}
	if e.attempts <= 0 {
		e.attempts = def.Attempts
	}
	if e.step <= 0 {
		e.step = def.Backoff
	}
	if e.releaseWait <= 0 {
		e.releaseWait = def.ReleaseWait
	}
	if e.sleep == nil {
		e.sleep = time.Sleep
	}
	return e
}

// Execute removes entries in Order and returns one result per entry in
// execution order. A failing entry never stops the pass.
func (e *Engine) Execute(ctx context.Context, entries []Entry, opts ExecOptions) []Result {
	ordered := Order(entries)
	results := make([]Result, 0, len(ordered))
	emit := func(r Result) {
		results = append(results, r)
		if opts.Verbose && opts.Report != nil {
			opts.Report(r)
		}
	}

	if opts.DryRun {
		for _, entry := range ordered {
			emit(Result{Entry: entry})
		}
		return results
	}

	covered, attempted := e.bulkRemoveRoots(ordered)
	for _, entry := range ordered {
		if covered(entry.Path) {
			emit(Result{Entry: entry, Bulk: true})
			continue
		}
		// A failed bulk call may still have deleted part of the tree.
		if attempted(entry.Path) && vanished(entry.Path) {
			emit(Result{Entry: entry, Bulk: true})
			continue
		}
		if err := ctx.Err(); err != nil {
			emit(Result{Entry: entry, Err: err})
			continue
		}
		emit(Result{Entry: entry, Err: e.removeEntry(ctx, entry, opts.ForceUnlock)})
	}
	return results
}

// bulkRemoveRoots tries one recursive native call per root directory. It
// returns a predicate for paths those calls took care of and one for paths
// under a root whose call failed part way.
func (e *Engine) bulkRemoveRoots(entries []Entry) (covered, attempted func(string) bool) {
	if e.bulk == nil {
		none := func(string) bool { return false }
		return none, none
	}
	var removed, failed []string
	for _, entry := range entries {
		if !entry.Root || !entry.IsDir || entry.IsSymlink {
			continue
		}
		if err := e.bulk(entry.Path); err != nil {
			slog.Debug("bulk removal failed, removing entry by entry", "path", entry.Path, "err", err)
			failed = append(failed, filepath.Clean(entry.Path))
			continue
		}
		removed = append(removed, filepath.Clean(entry.Path))
	}
	return under(removed), under(failed)
}

func under(roots []string) func(string) bool {
	return func(path string) bool {
		path = filepath.Clean(path)
		for _, root := range roots {
			if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}
}

func vanished(path string) bool {
	_, err := os.Lstat(path)
	return errors.Is(err, os.ErrNotExist)
}

func (e *Engine) removeEntry(ctx context.Context, entry Entry, forceUnlock bool) error {
	if e.locker != nil && e.locker.IsLocked(entry.Path) {
		if !forceUnlock {
			return fault.New(fault.Locked, "remove", entry.Path, ErrRetryWithForce)
		}
		if err := e.breakLock(ctx, entry.Path); err != nil {
			return err
		}
	}

	attempt := func() error {
		err := e.remove(entry)
		if err != nil && fault.KindOf(err) == fault.NotFound {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(newRetryPolicy(e.attempts, e.step), ctx)
	if err := backoff.RetryNotifyWithTimer(attempt, policy, nil, newSleepTimer(e.sleep)); err != nil {
		return fault.Wrap("remove", entry.Path, err)
	}
	return nil
}

// breakLock force kills every holder of path and waits for the OS to
// release the handles.
func (e *Engine) breakLock(ctx context.Context, path string) error {
	holders := e.locker.FindHolders(path)
	if len(holders) == 0 {
		return fault.New(fault.Locked, "remove", path, ErrHolderUnidentified)
	}
	var errs []error
	for _, pid := range holders {
		if err := e.locker.KillForced(ctx, pid); err != nil {
			errs = append(errs, fmt.Errorf("kill holder %d: %w", pid, err))
		}
	}
	if len(errs) == len(holders) {
		return fault.New(fault.Locked, "remove", path, errors.Join(errs...))
	}
	e.sleep(e.releaseWait)
	return nil
}

// removeOnce deletes one entry, clearing a read-only attribute or falling
// back to a native recursive removal when the plain call is refused.
func removeOnce(entry Entry) error {
	err := os.Remove(entry.Path)
	if err == nil {
		return nil
	}
	if fault.KindOf(err) == fault.PermissionDenied && !entry.IsSymlink {
		restore, clearErr := clearReadOnly(entry.Path)
		if clearErr != nil {
			slog.Debug("could not clear read-only attribute", "path", entry.Path, "err", clearErr)
		}
		err = os.Remove(entry.Path)
		if err == nil {
			return nil
		}
		if entry.IsDir && fault.KindOf(err) == fault.DirectoryNotEmpty {
			if err = removeAll(entry.Path); err == nil {
				return nil
			}
		}
		restore()
		return err
	}
	if entry.IsDir && fault.KindOf(err) == fault.DirectoryNotEmpty {
		return removeAll(entry.Path)
	}
	return err
}

// Summary tallies a result set.
type Summary struct {
	Removed int
	Failed  int
	Bytes   uint64
}

// Summarize counts successes, failures and freed bytes.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.Removed++
		s.Bytes += r.Entry.Size
	}
	return s
}
