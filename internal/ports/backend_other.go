//go:build !linux && !windows && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package ports

import (
	"context"
	"errors"

	"ziro/internal/fault"
)

type unsupportedBackend struct{}

func (unsupportedBackend) Bindings(context.Context) ([]Binding, error) {
	return nil, fault.New(fault.UnsupportedPlatform, "list ports", "", errors.New("no port table source for this platform"))
}

func platformBackend() Backend {
	return unsupportedBackend{}
}
