//go:build linux

package lifecycle

func platformDetector() LockDetector {
	return newProcfsDetector("/proc")
}
