//go:build windows

package term

import "golang.org/x/sys/windows"

const utf8CodePage = 65001

// virtualTerminalEnabled turns on VT processing for stdout and reports
// whether the console accepted it.
func virtualTerminalEnabled() bool {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return false
	}
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}

func utf8Console() bool {
	cp, err := windows.GetConsoleOutputCP()
	return err == nil && cp == utf8CodePage
}
