//go:build windows

package fault

import (
	"errors"

	"golang.org/x/sys/windows"
)

func osKind(err error) (Kind, bool) {
	var errno windows.Errno
	if !errors.As(err, &errno) {
		return Other, false
	}
	switch errno {
	case windows.ERROR_DIR_NOT_EMPTY:
		return DirectoryNotEmpty, true
	case windows.ERROR_SHARING_VIOLATION, windows.ERROR_LOCK_VIOLATION, windows.ERROR_USER_MAPPED_FILE:
		return Locked, true
	case windows.ERROR_BUSY, windows.ERROR_DELETE_PENDING:
		return TransientIO, true
	case windows.ERROR_ACCESS_DENIED, windows.ERROR_WRITE_PROTECT:
		return PermissionDenied, true
	case windows.ERROR_INVALID_PARAMETER:
		return NotFound, true
	}
	return Other, false
}
