//go:build !windows

package term

func virtualTerminalEnabled() bool { return true }

func utf8Console() bool { return true }
