package lifecycle

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"

	"ziro/internal/fault"
)

// probeDetector infers locks by trying to open the path, for platforms
// where open handles cannot be listed directly. Holder discovery is
// delegated to external tools whose answers are merged.
type probeDetector struct {
	stat      func(string) (os.FileInfo, error)
	openWrite func(string) error
	openRead  func(string) error
	readDir   func(string) error
	rename    func(from, to string) error

	// moduleQuery reports whether any process has path loaded as a module.
	// An exec.ErrNotFound error means the query tool is unavailable.
	moduleQuery func(path string) (bool, error)

	holderSources []func(path string) []uint32
}

func (d *probeDetector) IsLocked(path string) bool {
	info, err := d.stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if err := d.readDir(path); err != nil {
			slog.Warn("directory unreadable, treating as locked", "path", path, "err", err)
			return true
		}
		return false
	}

	err = d.openWrite(path)
	switch {
	case err == nil:
		return false
	case fault.Is(err, fault.NotFound):
		return false
	case fault.Is(err, fault.PermissionDenied):
		return d.deniedButLocked(path)
	default:
		slog.Warn("open for write failed, treating as locked", "path", path, "err", err)
		return true
	}
}

// deniedButLocked separates "read-only for us" from "held by someone".
func (d *probeDetector) deniedButLocked(path string) bool {
	if d.openRead(path) == nil {
		return true
	}
	inUse, err := d.moduleQuery(path)
	if err == nil {
		return inUse
	}
	if !errors.Is(err, exec.ErrNotFound) {
		return true
	}
	probe := path + ".tmp_check"
	if err := d.rename(path, probe); err != nil {
		return true
	}
	if err := d.rename(probe, path); err != nil {
		slog.Warn("could not restore name after rename probe", "path", path, "probe", probe, "err", err)
	}
	return false
}

func (d *probeDetector) FindHolders(path string) []uint32 {
	var pids []uint32
	for _, source := range d.holderSources {
		pids = append(pids, source(path)...)
	}
	return dedupPIDs(pids)
}

func openWriteProbe(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return f.Close()
}

func openReadProbe(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return f.Close()
}

func readDirProbe(path string) error {
	_, err := os.ReadDir(path)
	return err
}
