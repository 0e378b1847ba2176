//go:build windows

package ports

func platformBackend() Backend {
	return commandBackend{name: "netstat", args: []string{"-ano"}, parse: parseNetstat}
}
