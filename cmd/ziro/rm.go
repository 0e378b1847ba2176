package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ziro/internal/app"
	"ziro/internal/fsops"
	"ziro/internal/tui"
)

var (
	rmRecursive bool
	rmForce     bool
	rmDryRun    bool
	rmVerbose   bool
	rmAnyway    bool
)

func init() {
	rootCmd.AddCommand(cmdRm)
	cmdRm.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "Remove directories and their contents")
	cmdRm.Flags().BoolVarP(&rmForce, "force", "f", false, "Do not ask for confirmation")
	cmdRm.Flags().BoolVarP(&rmDryRun, "dry-run", "n", false, "Show what would be removed without removing it")
	cmdRm.Flags().BoolVar(&rmVerbose, "verbose", false, "Print every removed entry")
	cmdRm.Flags().BoolVar(&rmAnyway, "anyway", false, "Kill processes that hold entries open, then remove")
}

// confirmRemoval asks before deleting, swapped in tests.
var confirmRemoval = func(entries []fsops.Entry) (bool, error) {
	return tui.Confirm(
		fmt.Sprintf("Delete these %d entries? This cannot be undone.", len(entries)),
		"use --force to skip this question",
		os.Stdin, os.Stderr)
}

var cmdRm = &cobra.Command{
	Use:   "rm PATH...",
	Short: "Remove files and directories, even when other programs hold them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !rmForce && !rmDryRun && !stdinIsTerminal() {
			return errors.New("confirmation needs a terminal; re-run with --force")
		}

		th := themeFor(cmd)
		out := cmd.OutOrStdout()
		stop := func() {}
		params := app.RemoveParams{
			Paths:     args,
			Recursive: rmRecursive,
			Force:     rmForce,
			DryRun:    rmDryRun,
			Verbose:   rmVerbose,
			Anyway:    rmAnyway,
			Preview: func(entries []fsops.Entry) {
				fmt.Fprintln(out, th.DeletionPreview(entries, rmDryRun))
				fmt.Fprintln(out)
			},
			Confirm: confirmRemoval,
			Report: func(r fsops.Result) {
				fmt.Fprintln(out, th.RemovalLine(r, rmDryRun))
			},
		}
		if !rmDryRun && !rmVerbose {
			params.Starting = func() { stop = startSpinner(cmd, "Removing...") }
		}

		res, err := controller().Remove(cmd.Context(), params)
		stop()
		if err != nil {
			return err
		}
		if res.Cancelled {
			fmt.Fprintln(out, th.Warn("Cancelled"))
			return nil
		}
		fmt.Fprintln(out, th.RemovalSummary(res.Results, rmDryRun, rmVerbose))
		return nil
	},
}
