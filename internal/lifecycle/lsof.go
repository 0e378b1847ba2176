package lifecycle

import (
	"os/exec"
	"strconv"

	"ziro/internal/textdecode"
)

// lsofDetector asks lsof(8) for the pids holding a path.
type lsofDetector struct{}

func (lsofDetector) IsLocked(path string) bool {
	return len(lsofHolders(path)) > 0
}

func (lsofDetector) FindHolders(path string) []uint32 {
	return lsofHolders(path)
}

// lsofHolders returns nil when lsof is missing or reports nothing; it exits
// non-zero in both cases.
func lsofHolders(path string) []uint32 {
	out, err := exec.Command("lsof", "-t", path).Output()
	if err != nil && len(out) == 0 {
		return nil
	}
	return parseDigitLines(textdecode.Lines(out))
}

func parsePID(s string) (uint32, bool) {
	pid, err := strconv.ParseUint(s, 10, 32)
	if err != nil || pid == 0 {
		return 0, false
	}
	return uint32(pid), true
}
