//go:build linux

package ports

func platformBackend() Backend {
	return procNetBackend{root: "/proc"}
}
