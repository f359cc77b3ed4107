package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/synapse/internal/challenge"
	"github.com/abhisek/synapse/internal/curriculum"
	"github.com/abhisek/synapse/internal/lesson"
	"github.com/abhisek/synapse/internal/progress"
	"github.com/abhisek/synapse/internal/timer"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <unit>",
	Short: "Erase the stored progress of a unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		if !yes {
			fmt.Fprintf(out, "This permanently erases all progress for %q. Continue? [y/N] ", key)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		ctrl := lesson.NewController(e.repo, e.progress, challenge.New(e.log), timer.NewManual(), lesson.Options{Log: e.log})
		err = ctrl.ResetUnit(ctx, key)
		switch {
		case errors.Is(err, curriculum.ErrNotFound):
			removed, err := clearStale(ctx, e.progress, key)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(out, "No unit %q and no stored progress for it; nothing to reset.\n", key)
				return nil
			}
			fmt.Fprintf(out, "Removed stored progress for unknown unit %q.\n", key)
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "Progress for %s reset.\n", key)
		}
		return nil
	},
}

// clearStale removes the record of a unit the curriculum no longer has.
// It reports false when no record was stored.
func clearStale(ctx context.Context, ps *progress.Store, key string) (bool, error) {
	units, err := ps.StoredUnits(ctx)
	if err != nil {
		return false, err
	}
	if !slices.Contains(units, key) {
		return false, nil
	}
	return true, ps.Clear(ctx, key)
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
