package lifecycle

import (
	"strings"
)

// parseHandleOutput reads Sysinternals handle.exe lines such as
//
//	notepad.exe        pid: 4242   type: File   1A4: C:\work\notes.txt
func parseHandleOutput(lines []string) []uint32 {
	var out []uint32
	for _, line := range lines {
		fields := strings.Fields(line)
		for i, f := range fields {
			if !strings.EqualFold(f, "pid:") || i+1 >= len(fields) {
				continue
			}
			if pid, ok := parsePID(fields[i+1]); ok {
				out = append(out, pid)
			}
			break
		}
	}
	return out
}

// parseWmicList reads `wmic ... /format:list` output ("ProcessId=123").
func parseWmicList(lines []string) []uint32 {
	var out []uint32
	for _, line := range lines {
		value, ok := strings.CutPrefix(strings.TrimSpace(line), "ProcessId=")
		if !ok {
			continue
		}
		if pid, ok := parsePID(strings.TrimSpace(value)); ok {
			out = append(out, pid)
		}
	}
	return out
}
