//go:build !unix && !windows

package fsops

import "os"

func clearReadOnly(path string) (restore func(), err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return func() {}, err
	}
	prev := info.Mode().Perm()
	if err := os.Chmod(path, prev|0o200); err != nil {
		return func() {}, err
	}
	return func() { _ = os.Chmod(path, prev) }, nil
}

func removeAll(path string) error {
	return os.RemoveAll(path)
}

var platformBulkRemove func(string) error
