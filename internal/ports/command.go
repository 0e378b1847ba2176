package ports

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"ziro/internal/textdecode"
)

// commandBackend runs a table-listing tool and parses its output.
type commandBackend struct {
	name  string
	args  []string
	parse func([]string) []Binding
}

func (b commandBackend) Bindings(ctx context.Context) ([]Binding, error) {
	out, err := exec.CommandContext(ctx, b.name, b.args...).Output()
	if err != nil {
		// lsof exits 1 when it has nothing to report.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", b.name, err)
		}
	}
	return b.parse(textdecode.Lines(out)), nil
}
