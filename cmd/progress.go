package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show completion per unit",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		units := e.repo.Units()

		fmt.Fprintf(out, "%-8s  %-24s  %9s  %5s\n", "Unit", "Title", "Lessons", "Done")
		fmt.Fprintln(out, strings.Repeat("─", 54))
		known := make([]string, 0, len(units))
		for _, u := range units {
			known = append(known, u.Key)
			done := e.progress.Load(ctx, u.Key).Within(len(u.Lessons)).Len()
			fmt.Fprintf(out, "%-8s  %-24s  %4d / %-2d  %4d%%\n",
				u.Key, u.Title, done, len(u.Lessons), lesson.Percent(done, len(u.Lessons)))
		}

		// Records left behind by units no longer in the curriculum.
		stored, err := e.progress.StoredUnits(ctx)
		if err != nil {
			return err
		}
		for _, k := range stored {
			if !slices.Contains(known, k) {
				fmt.Fprintf(out, "\nStale record %q (%s); remove with: synapse reset %s\n", k, progress.Key(k), k)
			}
		}
		return nil
	},
}
