package main

import (
	"time"

	"github.com/spf13/cobra"

	"ziro/internal/app"
	"ziro/internal/top"
)

var (
	topInterval time.Duration
	topLimit    int
	topCPU      bool
	topCmd      bool
	topOnce     bool
)

func init() {
	rootCmd.AddCommand(cmdTop)
	cmdTop.Flags().DurationVar(&topInterval, "interval", 0, "Refresh interval (default from config, 1s)")
	cmdTop.Flags().IntVar(&topLimit, "limit", 0, "Number of processes to show (default from config, 20)")
	cmdTop.Flags().BoolVar(&topCPU, "cpu", false, "Show CPU usage and rank by memory and CPU")
	cmdTop.Flags().BoolVar(&topCmd, "cmd", false, "Show command lines")
	cmdTop.Flags().BoolVar(&topOnce, "once", false, "Print one snapshot and exit")
}

var cmdTop = &cobra.Command{
	Use:   "top",
	Short: "Live view of the processes using the most memory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return controller().Top(cmd.Context(), app.TopParams{
			Theme: themeFor(cmd),
			Out:   cmd.OutOrStdout(),
			Options: top.Options{
				Interval: topInterval,
				Limit:    topLimit,
				ShowCPU:  topCPU,
				ShowCmd:  topCmd,
				Once:     topOnce,
			},
		})
	},
}
