//go:build unix

package lifecycle

import "golang.org/x/sys/unix"

type osSignaler struct{}

func (osSignaler) Terminate(pid uint32) error {
	return unix.Kill(int(pid), unix.SIGTERM)
}

func (osSignaler) ForceKill(pid uint32) error {
	return unix.Kill(int(pid), unix.SIGKILL)
}
