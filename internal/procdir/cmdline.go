package procdir

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"ziro/internal/textdecode"
)

// fallbackCmdline fetches the argument vector for pid when the primary
// sampler could not. It tries procfs first and ps second; nil means unknown.
func fallbackCmdline(pid uint32) []string {
	if pid == 0 {
		return nil
	}
	if args, err := readProcCmdline(pid); err == nil && len(args) > 0 {
		return args
	}
	if args, err := readPsCommand(pid); err == nil && len(args) > 0 {
		return args
	}
	return nil
}

var procRoot = "/proc"

func readProcCmdline(pid uint32) ([]string, error) {
	path := filepath.Join(procRoot, strconv.FormatUint(uint64(pid), 10), "cmdline")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return splitNul(data), nil
}

func splitNul(data []byte) []string {
	parts := bytes.Split(data, []byte{0})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		out = append(out, textdecode.Decode(part))
	}
	return out
}

func readPsCommand(pid uint32) ([]string, error) {
	cmd := exec.Command("ps", "-o", "command=", "-p", strconv.FormatUint(uint64(pid), 10))
	output, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return strings.Fields(strings.TrimSpace(textdecode.Decode(output))), nil
}
