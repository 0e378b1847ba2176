//go:build windows

package fsops

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

func clearReadOnly(path string) (restore func(), err error) {
	restore = func() {}
	p, err := windows.UTF16PtrFromString(longPath(absPath(path)))
	if err != nil {
		return restore, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return restore, &os.PathError{Op: "GetFileAttributes", Path: path, Err: err}
	}
	if attrs&windows.FILE_ATTRIBUTE_READONLY == 0 {
		return restore, nil
	}
	if err := windows.SetFileAttributes(p, attrs&^windows.FILE_ATTRIBUTE_READONLY); err != nil {
		return restore, &os.PathError{Op: "SetFileAttributes", Path: path, Err: err}
	}
	return func() { _ = windows.SetFileAttributes(p, attrs) }, nil
}

// clearReadOnlyTree drops the read-only attribute from every object below
// root. Reparse points are cleared but not descended.
func clearReadOnlyTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		_, _ = clearReadOnly(path)
		return nil
	})
}

func removeAll(path string) error {
	long := longPath(absPath(path))
	if err := os.RemoveAll(long); err == nil {
		return nil
	}
	clearReadOnlyTree(long)
	return os.RemoveAll(long)
}

// platformBulkRemove deletes a whole tree in one pass; per-entry deletion
// of large trees is slow on NTFS.
var platformBulkRemove = removeAll

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
