package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/dispatch"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/notify"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/switcher"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/themes"
)

func newApplyCmd(flags *rootFlags) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "apply <display-name>",
		Short: "Switch the active theme once, by display name",
		Long: "Switch the active theme to the installed theme with the given\n" +
			"display name. The match is exact, the same as a marker file line.\n" +
			"With --wait the command stays alive until the revert has fired;\n" +
			"without it the process exits and the revert is lost.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			displayName := args[0]

			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			dispatcher := dispatch.New()
			defer dispatcher.Close()

			registry := themes.NewRegistry(store)
			installed, err := registry.ListInstalled()
			if err != nil {
				return fmt.Errorf("failed to enumerate installed themes: %w", err)
			}
			themeID, ok := installed[displayName]
			if !ok {
				return fmt.Errorf("no installed theme has display name %q", displayName)
			}

			scheduler := switcher.NewScheduler(store, dispatcher)
			sw := switcher.New(store, notify.NewBroadcaster(), scheduler)

			var result switcher.Result
			err = dispatcher.Sync("apply-theme", func() error {
				var applyErr error
				result, applyErr = sw.Apply(themeID)
				return applyErr
			})
			if err != nil {
				return err
			}

			if result == switcher.Noop {
				fmt.Fprintf(cmd.OutOrStdout(), "Theme %q is already active\n", displayName)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Switched to %q\n", displayName)
			if wait {
				fmt.Fprintf(cmd.OutOrStdout(), "Reverting in %s...\n", switcher.RevertDelay)
				// Small grace on top of the delay so the timer's store
				// write has landed before the dispatcher shuts down.
				time.Sleep(switcher.RevertDelay + time.Second)
				fmt.Fprintln(cmd.OutOrStdout(), "Reverted")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Stay alive until the automatic revert has fired")

	return cmd
}
