// Package fault classifies the failures ziro reports per item.
package fault

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Kind is the coarse category of a failure.
type Kind int

const (
	Other Kind = iota
	NotFound
	PermissionDenied
	Locked
	DirectoryNotEmpty
	UnsupportedPlatform
	TransientIO
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case PermissionDenied:
		return "permission denied"
	case Locked:
		return "locked"
	case DirectoryNotEmpty:
		return "directory not empty"
	case UnsupportedPlatform:
		return "unsupported platform"
	case TransientIO:
		return "transient i/o"
	default:
		return "other"
	}
}

// Error carries a Kind plus the item it concerns.
type Error struct {
	Kind Kind
	Op   string
	Path string
	PID  uint32
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
	}
	switch {
	case e.Path != "":
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Path)
	case e.PID != 0:
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "pid %d", e.PID)
	}
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	} else if b.Len() == 0 {
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with an explicit kind.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// Wrap wraps err, deriving the kind from err itself. A nil err stays nil.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindOf(err), Op: op, Path: path, Err: err}
}

// ForPID wraps err for a process-level operation.
func ForPID(kind Kind, op string, pid uint32, err error) *Error {
	return &Error{Kind: kind, Op: op, PID: pid, Err: err}
}

// KindOf reports the kind of err. Explicit kinds from *Error win over
// inspection of the underlying OS error.
func KindOf(err error) Kind {
	if err == nil {
		return Other
	}
	var fe *Error
	if errors.As(err, &fe) && fe.Kind != Other {
		return fe.Kind
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	}
	if k, ok := osKind(err); ok {
		return k
	}
	return Other
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Suggestion returns a short hint shown next to an itemized failure.
func Suggestion(kind Kind) string {
	switch kind {
	case NotFound:
		return "check the path or pid; it may already be gone"
	case PermissionDenied:
		return "re-run elevated (sudo / Administrator)"
	case Locked:
		return "close the owning program or re-run with --anyway"
	case DirectoryNotEmpty:
		return "re-run with -r to remove the directory contents"
	case UnsupportedPlatform:
		return "this operating system has no supported backend"
	case TransientIO:
		return "the filesystem is busy; try again in a moment"
	default:
		return ""
	}
}
