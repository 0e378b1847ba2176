package main

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner shows progress on stderr and returns its stop function.
// Plain terminals get no spinner.
func startSpinner(cmd *cobra.Command, suffix string) func() {
	if profile.Plain {
		return func() {}
	}
	charset := spinner.CharSets[14]
	if profile.ASCIIIcons {
		charset = spinner.CharSets[9]
	}
	s := spinner.New(charset, 120*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
