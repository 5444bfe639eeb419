package root

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/config"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/dispatch"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/notify"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/session"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/switcher"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/themes"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [workspace]",
		Short: "Watch a workspace's marker file and switch themes",
		Long: "Watch <workspace>/" + session.MarkerFileName + " and switch the active theme to\n" +
			"whatever display name the file's first line holds. Each switch\n" +
			"reverts on its own 60 second timer. Runs until interrupted.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := resolveWorkspace(args)
			if err != nil {
				return err
			}

			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			dispatcher := dispatch.New()
			defer dispatcher.Close()

			broadcaster := notify.NewBroadcaster()
			broadcaster.Subscribe(func(n notify.Notification) {
				slog.Debug("Broadcast delivered", "kind", n.Kind)
			})

			registry := themes.NewRegistry(store)
			scheduler := switcher.NewScheduler(store, dispatcher)
			sw := switcher.New(store, broadcaster, scheduler)
			sess := session.New(themes.NewResolver(registry), sw, dispatcher)

			if err := sess.Start(workspace); err != nil {
				return fmt.Errorf("failed to start watch session: %w", err)
			}
			defer sess.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", workspace)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh

			return nil
		},
	}
}

// resolveWorkspace picks the workspace directory: the argument, then the
// configured default, then the current directory.
func resolveWorkspace(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg, err := config.Load(); err == nil && cfg.Workspace != "" {
		return cfg.Workspace, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	return wd, nil
}
