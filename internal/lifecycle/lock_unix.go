//go:build unix && !linux

package lifecycle

func platformDetector() LockDetector {
	return lsofDetector{}
}
