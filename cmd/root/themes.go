package root

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdmiralSnyder/AutoThemeSwitcher/pkg/themes"
)

func newThemesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "Manage the installed-themes registry",
	}

	cmd.AddCommand(newThemesListCmd(flags))
	cmd.AddCommand(newThemesAddCmd(flags))
	cmd.AddCommand(newThemesRemoveCmd(flags))

	return cmd
}

func newThemesListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			installed, err := themes.NewRegistry(store).ListInstalled()
			if err != nil {
				return fmt.Errorf("failed to enumerate installed themes: %w", err)
			}
			if len(installed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No themes installed")
				return nil
			}

			names := make([]string, 0, len(installed))
			for name := range installed {
				names = append(names, name)
			}
			sort.Strings(names)

			bold := color.New(color.Bold)
			faint := color.New(color.Faint)
			for _, name := range names {
				bold.Fprint(cmd.OutOrStdout(), name)
				faint.Fprintf(cmd.OutOrStdout(), "  %s\n", installed[name])
			}
			return nil
		},
	}
}

func newThemesAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <display-name>",
		Short: "Register a theme",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, displayName := args[0], args[1]
			if displayName == "" {
				return fmt.Errorf("display name cannot be empty")
			}

			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := themes.NewRegistry(store).Install(id, displayName); err != nil {
				return fmt.Errorf("failed to register theme: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q as %s\n", displayName, id)
			return nil
		},
	}
}

func newThemesRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Unregister a theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := themes.NewRegistry(store).Uninstall(args[0]); err != nil {
				return fmt.Errorf("failed to unregister theme: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unregistered %s\n", args[0])
			return nil
		},
	}
}
