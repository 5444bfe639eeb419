package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/notify"
	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/switcher"
)

func newCurrentCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the active-theme setting pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sw := switcher.New(store, notify.NewBroadcaster(), nil)
			snap, err := sw.Active()
			if err != nil {
				return fmt.Errorf("failed to read active theme: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s:    %s\n", switcher.KeyColorTheme, valueOrUnset(snap.ColorTheme))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", switcher.KeyColorThemeNew, valueOrUnset(snap.ColorThemeNew))
			return nil
		},
	}
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
