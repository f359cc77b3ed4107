package cmd

import (
	"fmt"

	"github.com/abhisek/synapse/internal/lesson"
	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List units and lessons with their gating status",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		for i, u := range e.repo.Units() {
			if i > 0 {
				fmt.Fprintln(out)
			}
			done := e.progress.Load(cmd.Context(), u.Key).Within(len(u.Lessons))
			fmt.Fprintf(out, "%s: %s (%s, %d%%)\n", u.Key, u.Title, u.Artifact, lesson.Percent(done.Len(), len(u.Lessons)))

			for _, st := range lesson.Gating(u, done.Has, done.Len(), -1) {
				mark := "○"
				switch st.Status {
				case lesson.StatusCompleted:
					mark = "✓"
				case lesson.StatusLocked:
					mark = "·"
				}
				fmt.Fprintf(out, "  %s %2d. %-32s %s\n", mark, st.Index+1, st.Title, st.Status)
			}
		}
		return nil
	},
}
