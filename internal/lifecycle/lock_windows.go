//go:build windows

package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"ziro/internal/textdecode"
)

func platformDetector() LockDetector {
	return &probeDetector{
		stat:          os.Stat,
		openWrite:     openWriteProbe,
		openRead:      openReadProbe,
		readDir:       readDirProbe,
		rename:        os.Rename,
		moduleQuery:   powershellModuleQuery,
		holderSources: []func(string) []uint32{handleHolders, powershellHolders, wmicHolders},
	}
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func runPowerShell(script string) ([]string, error) {
	out, err := exec.Command("powershell", "-NoProfile", "-Command", script).Output()
	if err != nil {
		return nil, err
	}
	return textdecode.Lines(out), nil
}

func powershellModuleQuery(path string) (bool, error) {
	script := fmt.Sprintf("(Get-Process | Where-Object { $_.Modules.FileName -eq %s } | Measure-Object).Count", psQuote(path))
	lines, err := runPowerShell(script)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, err
		}
		return false, fmt.Errorf("powershell: %w", exec.ErrNotFound)
	}
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			return line != "0", nil
		}
	}
	return false, nil
}

func handleHolders(path string) []uint32 {
	out, err := exec.Command("handle.exe", "-nobanner", path).Output()
	if err != nil && len(out) == 0 {
		return nil
	}
	return parseHandleOutput(textdecode.Lines(out))
}

func powershellHolders(path string) []uint32 {
	scripts := []string{
		fmt.Sprintf("Get-Process | Where-Object { $_.MainModule.FileName -like %s } | Select-Object -ExpandProperty Id", psQuote("*"+path+"*")),
		fmt.Sprintf("$p = %s; Get-Process | ForEach-Object { if ($_.Modules.FileName -contains $p) { $_.Id } }", psQuote(path)),
	}
	var pids []uint32
	for _, script := range scripts {
		lines, err := runPowerShell(script)
		if err != nil {
			continue
		}
		pids = append(pids, parseDigitLines(lines)...)
	}
	return pids
}

func wmicHolders(path string) []uint32 {
	where := fmt.Sprintf("ExecutablePath like '%%%s%%'", strings.ReplaceAll(path, `\`, `\\`))
	out, err := exec.Command("wmic", "process", "where", where, "get", "ProcessId", "/format:list").Output()
	if err != nil {
		return nil
	}
	return parseWmicList(textdecode.Lines(out))
}
