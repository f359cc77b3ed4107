package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/abhisek/synapse/internal/artifact"
	"github.com/abhisek/synapse/internal/challenge"
	"github.com/spf13/cobra"
)

// errNotPassed makes the process exit non-zero for a failed check.
var errNotPassed = errors.New("challenge not passed")

var checkCmd = &cobra.Command{
	Use:   "check <unit> <lesson>",
	Short: "Validate an answer for a lesson challenge",
	Long: `Run a lesson's challenge validator against an answer read from --file or stdin.

Lessons are numbered from 1. Progress is not changed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid lesson number %q", args[1])
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		unit, err := e.repo.GetUnit(args[0])
		if err != nil {
			return err
		}
		l, err := e.repo.Lesson(unit.Key, n-1)
		if err != nil {
			return err
		}

		input, err := readAnswer(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s lesson %d: %s\n", unit.Key, n, l.Title)
		res := challenge.New(e.log).Check(l, unit.Artifact, input)
		if res.Outcome == challenge.Pass {
			fmt.Fprintln(out, "Pass")
			return nil
		}
		fmt.Fprintln(out, "Fail")
		if res.ShowHint {
			fmt.Fprintln(out, "Hint:", res.Hint)
		}
		return errNotPassed
	},
}

func readAnswer(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open answer: %w", err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(io.LimitReader(r, artifact.MaxInputBytes+1))
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return string(b), nil
}

func init() {
	checkCmd.Flags().StringP("file", "f", "", "Read the answer from this file instead of stdin")
}
