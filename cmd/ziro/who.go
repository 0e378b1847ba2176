package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ziro/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdWho)
}

var cmdWho = &cobra.Command{
	Use:   "who PATH...",
	Short: "Show which processes hold files or directories open",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := controller().Who(cmd.Context(), app.WhoParams{Paths: args})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), themeFor(cmd).LockTable(infos))
		return nil
	},
}
