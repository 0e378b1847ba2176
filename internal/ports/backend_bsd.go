//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package ports

func platformBackend() Backend {
	return commandBackend{name: "lsof", args: []string{"-i", "-n", "-P"}, parse: parseLsof}
}
