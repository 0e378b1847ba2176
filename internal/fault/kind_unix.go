//go:build unix

package fault

import (
	"errors"

	"golang.org/x/sys/unix"
)

func osKind(err error) (Kind, bool) {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return Other, false
	}
	switch errno {
	case unix.ENOTEMPTY, unix.EEXIST:
		return DirectoryNotEmpty, true
	case unix.ETXTBSY:
		return Locked, true
	case unix.EBUSY, unix.EAGAIN, unix.EINTR:
		return TransientIO, true
	case unix.ESRCH:
		return NotFound, true
	case unix.EPERM, unix.EACCES, unix.EROFS:
		return PermissionDenied, true
	}
	return Other, false
}
