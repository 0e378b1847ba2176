package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ziro/internal/app"
	"ziro/internal/config"
	"ziro/internal/fault"
	"ziro/internal/lifecycle"
	"ziro/internal/logging"
	"ziro/internal/ports"
	"ziro/internal/term"
	"ziro/internal/ui"
)

var (
	configPath  string
	flagPlain   bool
	flagASCII   bool
	flagNoColor bool
	flagNarrow  bool
	flagDebug   bool

	loadedConfig = config.Default()
	profile      = term.Full()
)

var rootCmd = &cobra.Command{
	Use:           "ziro [command]",
	Short:         "ziro: free ports, unlock files, watch memory",
	Long:          `ziro finds and kills the processes behind network ports, removes files that other programs hold open, and shows a live view of the hungriest processes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if flagDebug {
			level = logging.LevelDebug
		}
		if err := logging.Configure(level); err != nil {
			return err
		}
		loadedConfig = cfg
		profile = detectProfile(term.Flags{Plain: flagPlain, ASCII: flagASCII, NoColor: flagNoColor, Narrow: flagNarrow})
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	pf.BoolVar(&flagPlain, "plain", false, "Plain output: no colors, no cursor movement, ASCII icons")
	pf.BoolVar(&flagASCII, "ascii", false, "Use ASCII icons")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colors")
	pf.BoolVar(&flagNarrow, "narrow", false, "Compact tables for narrow terminals")
	pf.BoolVar(&flagDebug, "debug", false, "Log diagnostics to stderr")
}

// controllerAPI is the slice of app.App the commands use.
type controllerAPI interface {
	Find(ctx context.Context, params app.FindParams) (app.FindResult, error)
	List(ctx context.Context) ([]ports.Info, error)
	Kill(ctx context.Context, params app.KillParams) (app.KillResult, error)
	Who(ctx context.Context, params app.WhoParams) ([]lifecycle.LockInfo, error)
	Remove(ctx context.Context, params app.RemoveParams) (app.RemoveResult, error)
	Top(ctx context.Context, params app.TopParams) error
}

var controllerFactory = func() controllerAPI {
	return app.New(app.Options{Config: &loadedConfig})
}

func controller() controllerAPI {
	return controllerFactory()
}

// Seams for terminal probing, swapped in tests.
var (
	detectProfile = func(flags term.Flags) term.Profile {
		return term.Detect(flags, term.SystemEnv())
	}
	stdinIsTerminal = term.StdinIsTerminal
)

func themeFor(cmd *cobra.Command) *ui.Theme {
	return ui.NewTheme(cmd.OutOrStdout(), profile)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hint := fault.Suggestion(fault.KindOf(err)); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
