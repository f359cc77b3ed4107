package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/synapse/internal/llm"
	"github.com/abhisek/synapse/internal/store"
	"github.com/abhisek/synapse/internal/tutor"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the AI tutor's explanation requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent explanation requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		topic, _ := cmd.Flags().GetString("topic")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:   limit,
			Purpose: tutor.Purpose,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		kept := events[:0]
		for _, ev := range events {
			if topic != "" && !strings.EqualFold(ev.Topic, topic) {
				continue
			}
			if failedOnly && ev.Success {
				continue
			}
			kept = append(kept, ev)
		}
		printLLMEvents(cmd.OutOrStdout(), kept)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and response of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), ev)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Explanations per quiz topic and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		repo := e.store.EventRepo()
		ctx := cmd.Context()

		topics, err := repo.LLMUsageByTopic(ctx, tutor.Purpose)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(topics) == 0 {
			fmt.Fprintln(out, "還沒有請 AI 解說過任何題目。")
			return nil
		}
		printTopicUsage(out, topics)

		models, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		fmt.Fprintln(out)
		printModelCost(out, models)
		return nil
	},
}

func printLLMEvents(w io.Writer, events []store.LLMEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "沒有符合的解說紀錄。")
		return
	}
	fmt.Fprintf(w, "%-5s  %-16s  %-6s  %-28s  %-11s  %-6s  %s\n",
		"ID", "Time", "Topic", "Model", "Tokens", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 86))
	for _, ev := range events {
		ok := "✓"
		if !ev.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-16s  %-6s  %-28s  %-11s  %-6d  %s\n",
			ev.ID,
			ev.Timestamp.Local().Format("2006-01-02 15:04"),
			topicLabel(ev.Topic),
			truncate(ev.Model, 28),
			fmt.Sprintf("%d/%d", ev.InputTokens, ev.OutputTokens),
			ev.LatencyMs,
			ok,
		)
	}
}

func printLLMEvent(w io.Writer, ev *store.LLMEvent) {
	fmt.Fprintf(w, "ID:        %d\n", ev.ID)
	fmt.Fprintf(w, "Time:      %s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Topic:     %s\n", topicLabel(ev.Topic))
	fmt.Fprintf(w, "Model:     %s (%s)\n", ev.Model, ev.Provider)
	fmt.Fprintf(w, "Tokens:    %d in / %d out, %dms\n", ev.InputTokens, ev.OutputTokens, ev.LatencyMs)
	if ev.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", ev.ErrorMessage)
	}
	section(w, "PROMPT", ev.RequestBody)
	section(w, "RESPONSE", ev.ResponseBody)
}

func section(w io.Writer, title, body string) {
	sep := strings.Repeat("─", 60)
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", sep, title, sep)
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, strings.TrimRight(body, "\n"))
}

func printTopicUsage(w io.Writer, usage []store.LLMUsage) {
	fmt.Fprintln(w, "Explanations by Topic")
	fmt.Fprintln(w, strings.Repeat("─", 64))
	fmt.Fprintf(w, "%-8s  %8s  %6s  %10s  %10s  %8s\n",
		"Topic", "Requests", "Failed", "Input", "Output", "Avg Ms")
	fmt.Fprintln(w, strings.Repeat("─", 64))

	var calls, failed, in, out int
	for _, u := range usage {
		fmt.Fprintf(w, "%-8s  %8d  %6d  %10d  %10d  %8d\n",
			topicLabel(u.Topic), u.Calls, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		failed += u.Failures
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintln(w, strings.Repeat("─", 64))
	fmt.Fprintf(w, "%-8s  %8d  %6d  %10d  %10d\n", "TOTAL", calls, failed, in, out)
}

// printModelCost estimates spend from the pricing table; models without a
// price are listed but left out of the total.
func printModelCost(w io.Writer, usage []store.LLMUsage) {
	fmt.Fprintln(w, "Estimated Cost (USD)")
	fmt.Fprintln(w, strings.Repeat("─", 64))

	var total float64
	var unknown []string
	for _, u := range usage {
		price := "?"
		if cost := llm.LookupCost(u.Model); cost != nil {
			c := cost.Cost(u.InputTokens, u.OutputTokens)
			total += c
			price = formatCost(c)
		} else {
			unknown = append(unknown, u.Model)
		}
		fmt.Fprintf(w, "%-32s  %6d calls  %10s\n", truncate(u.Model, 32), u.Calls, price)
	}

	fmt.Fprintln(w, strings.Repeat("─", 64))
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %12s  %10s\n", label, "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

func topicLabel(topic string) string {
	if topic == "" {
		return "-"
	}
	return topic
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("topic", "t", "", "Only show one quiz topic (HTML or CSS)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
