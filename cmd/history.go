package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/synapse/internal/quiz"
	"github.com/abhisek/synapse/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent lesson passes and quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryActivity(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query activity: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No activity recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-19s  %-12s  %s\n", "Timestamp", "Kind", "Detail")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, ev := range events {
			var detail string
			switch ev.Kind {
			case store.ActivityLessonPass:
				detail = fmt.Sprintf("%s lesson %d", ev.UnitKey, ev.LessonIndex+1)
				if ev.Forced {
					detail += " (forced)"
				}
			case store.ActivityQuizResult:
				detail = fmt.Sprintf("%d/%d (%d%%) %s", ev.Score, ev.Total, ev.Percent, quiz.BandFor(ev.Percent).Title())
			}
			fmt.Fprintf(out, "%-19s  %-12s  %s\n",
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.Kind, detail)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}
