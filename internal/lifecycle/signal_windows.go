//go:build windows

package lifecycle

import "golang.org/x/sys/windows"

// osSignaler terminates through TerminateProcess; Windows has no polite
// equivalent of SIGTERM for arbitrary processes.
type osSignaler struct{}

func (osSignaler) Terminate(pid uint32) error {
	return terminate(pid)
}

func (osSignaler) ForceKill(pid uint32) error {
	return terminate(pid)
}

func terminate(pid uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, pid)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	return windows.TerminateProcess(h, 1)
}
