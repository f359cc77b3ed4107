package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/synapse/internal/preferences"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [name]",
	Short:     "Show or set the color theme",
	Long:      "Show the stored theme, or store a new one: " + strings.Join(preferences.Themes, ", ") + ".",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: preferences.Themes,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		prefs := preferences.New(e.store.KV(), e.log)
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintln(out, prefs.Theme(cmd.Context()))
			return nil
		}
		if err := prefs.SetTheme(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, "Theme set to", args[0])
		return nil
	},
}
