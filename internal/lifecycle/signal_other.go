//go:build !unix && !windows

package lifecycle

import (
	"errors"

	"ziro/internal/fault"
)

type osSignaler struct{}

var errNoSignals = fault.New(fault.UnsupportedPlatform, "signal", "", errors.New("process signals are not available"))

func (osSignaler) Terminate(uint32) error { return errNoSignals }

func (osSignaler) ForceKill(uint32) error { return errNoSignals }
