package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ziro/internal/app"
	"ziro/internal/ports"
	"ziro/internal/tui"
)

var killForce bool

func init() {
	rootCmd.AddCommand(cmdKill)
	cmdKill.Flags().BoolVarP(&killForce, "force", "f", false, "Kill every owner without asking, retrying until it exits")
}

// pickProcesses is the interactive selection, swapped in tests.
var pickProcesses = func(candidates []ports.Info) ([]ports.Info, error) {
	return tui.Pick(candidates, os.Stdin, os.Stderr)
}

var cmdKill = &cobra.Command{
	Use:   "kill PORT...",
	Short: "Terminate the processes that own the given ports",
	Long:  "Without --force the owners are offered for selection and receive one polite termination request. With --force every owner is killed and re-checked until it is gone.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wanted, err := app.ParsePorts(args)
		if err != nil {
			return err
		}
		if !killForce && !stdinIsTerminal() {
			return errors.New("interactive selection needs a terminal; re-run with --force")
		}

		th := themeFor(cmd)
		out := cmd.OutOrStdout()
		stop := func() {}
		params := app.KillParams{Ports: wanted, Force: killForce, Select: pickProcesses}
		if killForce {
			params.Announce = func(targets []ports.Info) {
				fmt.Fprintln(out, th.KillTargets(targets))
				fmt.Fprintln(out)
				stop = startSpinner(cmd, "Waiting for processes to exit...")
			}
		}

		res, err := controller().Kill(cmd.Context(), params)
		stop()
		if err != nil {
			return err
		}
		if res.Message != "" {
			fmt.Fprintln(out, th.Warn(res.Message))
			return nil
		}
		fmt.Fprintln(out, th.KillResults(res.Outcomes, killForce))
		return nil
	},
}
