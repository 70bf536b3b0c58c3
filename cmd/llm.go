package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Anwar-Qureshi/SkillBridge/internal/llm"
	"github.com/Anwar-Qureshi/SkillBridge/internal/store"
	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/components"
	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/theme"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect generative backend requests and usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generative backend calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No generative backend requests recorded.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			status := "ok"
			if !e.Success {
				status = "failed"
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(timeLayout),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				status,
			})
		}
		fmt.Fprintln(out, components.Table(
			[]string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "Status"},
			rows, 0, 4, 5, 6))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of one recorded call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		out := cmd.OutOrStdout()
		field := func(name, value string) {
			fmt.Fprintf(out, "%s %s\n", theme.Label.Render(fmt.Sprintf("%-9s", name+":")), value)
		}
		field("ID", strconv.Itoa(e.ID))
		field("Time", e.Timestamp.Local().Format(timeLayout))
		field("Provider", e.Provider)
		field("Model", e.Model)
		field("Purpose", e.Purpose)
		field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
		field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
		field("Success", strconv.FormatBool(e.Success))
		if e.ErrorMessage != "" {
			field("Error", e.ErrorMessage)
		}

		for _, part := range []struct{ title, body string }{
			{"Request", e.RequestBody},
			{"Response", e.ResponseBody},
		} {
			body := part.body
			if body == "" {
				body = theme.Hint.Render("(not captured)")
			}
			fmt.Fprintf(out, "\n%s\n%s\n", theme.Title.Render(part.title), body)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost by purpose and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No generative backend usage recorded yet.")
			return nil
		}

		var calls, in, outTokens int
		rows := make([][]string, 0, len(byPurpose)+1)
		for _, u := range byPurpose {
			rows = append(rows, []string{
				u.Purpose,
				strconv.Itoa(u.Calls),
				strconv.Itoa(u.InputTokens),
				strconv.Itoa(u.OutputTokens),
				strconv.FormatInt(u.AvgLatencyMs, 10),
			})
			calls += u.Calls
			in += u.InputTokens
			outTokens += u.OutputTokens
		}
		rows = append(rows, []string{"total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(outTokens), ""})

		fmt.Fprintln(out, theme.Title.Render("Usage by purpose"))
		fmt.Fprintln(out, components.Table([]string{"Purpose", "Calls", "Input", "Output", "Avg ms"}, rows, 1, 2, 3, 4))

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		var total float64
		var unpriced []string
		rows = rows[:0]
		for _, u := range byModel {
			cost := "?"
			if c := llm.LookupCost(u.Model); c != nil {
				usd := c.Cost(u.InputTokens, u.OutputTokens)
				total += usd
				cost = formatCost(usd)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			rows = append(rows, []string{
				truncate(u.Model, 32),
				strconv.Itoa(u.Calls),
				strconv.Itoa(u.InputTokens),
				strconv.Itoa(u.OutputTokens),
				cost,
			})
		}
		label := "total"
		if len(unpriced) > 0 {
			label = "total (partial)"
		}
		rows = append(rows, []string{label, "", "", "", formatCost(total)})

		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Estimated cost (USD)"))
		fmt.Fprintln(out, components.Table([]string{"Model", "Calls", "Input", "Output", "Cost"}, rows, 1, 2, 3, 4))
		if len(unpriced) > 0 {
			fmt.Fprintln(out, theme.Hint.Render("Pricing unavailable for: "+strings.Join(unpriced, ", ")))
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls with this purpose (score or coaching)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
