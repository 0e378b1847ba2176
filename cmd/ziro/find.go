package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ziro/internal/app"
)

func init() {
	rootCmd.AddCommand(cmdFind, cmdList)
}

var cmdFind = &cobra.Command{
	Use:   "find PORT...",
	Short: "Show which process owns each port",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wanted, err := app.ParsePorts(args)
		if err != nil {
			return err
		}
		res, err := controller().Find(cmd.Context(), app.FindParams{Ports: wanted})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), themeFor(cmd).PortTree(res.Ports, res.Found))
		return nil
	},
}

var cmdList = &cobra.Command{
	Use:   "list",
	Short: "List every bound port and its owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := controller().List(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), themeFor(cmd).PortList(infos))
		return nil
	},
}
