package root

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "autothemeswitcher",
		Short: "autothemeswitcher - per-workspace color theme switching",
		Long: "autothemeswitcher watches a workspace's .vstheme marker file and\n" +
			"temporarily switches the active color theme it names, reverting\n" +
			"automatically after 60 seconds.",
		Example: `  autothemeswitcher watch ~/src/myproject
  autothemeswitcher themes add "{d1b2e4f6-0000-4000-8000-000000000001}" "Dark"
  autothemeswitcher apply Dark`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logging before anything else so early failures are captured
			if err := flags.setupLogging(); err != nil {
				// If logging setup fails, fall back to stderr so we still get logs
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: func() slog.Level {
						if flags.debugMode {
							return slog.LevelDebug
						}
						return slog.LevelInfo
					}(),
				})))
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if flags.logFile != nil {
				if err := flags.logFile.Close(); err != nil {
					slog.Error("Failed to close log file", "error", err)
				}
			}
			return nil
		},
		// If no subcommand is specified, show help
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.debugMode, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFilePath, "log-file", "", "Path to debug log file (default: ~/.autothemeswitcher/autothemeswitcher.debug.log; only used with --debug)")
	cmd.PersistentFlags().StringVar(&flags.storePath, "store", "", "Path to the settings database (default: ~/.autothemeswitcher/settings.db)")
	cmd.PersistentFlags().BoolVar(&flags.useMemory, "memory", false, "Use an in-memory settings store (nothing persists)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newWatchCmd(&flags))
	cmd.AddCommand(newApplyCmd(&flags))
	cmd.AddCommand(newThemesCmd(&flags))
	cmd.AddCommand(newCurrentCmd(&flags))

	return cmd
}
