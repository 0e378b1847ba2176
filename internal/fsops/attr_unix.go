//go:build unix

package fsops

import (
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// clearReadOnly grants the owner write permission on path and on its parent
// directory, which is what unlink(2) and rmdir(2) check. The returned func
// puts the previous modes back.
func clearReadOnly(path string) (restore func(), err error) {
	var errs []error
	type saved struct {
		path string
		mode uint32
	}
	var changed []saved
	for _, p := range []string{path, filepath.Dir(path)} {
		var st unix.Stat_t
		if err := unix.Lstat(p, &st); err != nil {
			errs = append(errs, &os.PathError{Op: "lstat", Path: p, Err: err})
			continue
		}
		if st.Mode&unix.S_IFMT == unix.S_IFLNK {
			continue
		}
		prev := uint32(st.Mode & 0o7777)
		mode := prev | unix.S_IWUSR
		if st.Mode&unix.S_IFMT == unix.S_IFDIR {
			mode |= unix.S_IXUSR
		}
		if mode == prev {
			continue
		}
		if err := unix.Chmod(p, mode); err != nil {
			errs = append(errs, &os.PathError{Op: "chmod", Path: p, Err: err})
			continue
		}
		changed = append(changed, saved{path: p, mode: prev})
	}
	restore = func() {
		for _, c := range changed {
			_ = unix.Chmod(c.path, c.mode)
		}
	}
	return restore, errors.Join(errs...)
}

func removeAll(path string) error {
	return os.RemoveAll(path)
}

// platformBulkRemove is only used where per-entry deletion is slow.
var platformBulkRemove func(string) error
