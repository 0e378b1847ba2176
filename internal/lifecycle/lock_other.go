//go:build !unix && !windows

package lifecycle

type noDetector struct{}

func (noDetector) IsLocked(string) bool { return false }

func (noDetector) FindHolders(string) []uint32 { return nil }

func platformDetector() LockDetector {
	return noDetector{}
}
