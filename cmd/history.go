package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
	"github.com/Anwar-Qureshi/SkillBridge/internal/store"
	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/components"
)

// openStore opens the database named by the flags and config.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List stored sessions, or the turns of one session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		if len(args) == 1 {
			return printTurns(cmd, s.TurnRepo(), args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		sessions, err := s.TurnRepo().ListSessions(ctx, limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(sessions))
		for _, rec := range sessions {
			rows = append(rows, []string{
				rec.ID,
				truncate(rec.User, 16),
				rec.StartedAt.Local().Format(timeLayout),
				strconv.Itoa(rec.Turns),
				strconv.FormatFloat(rec.AverageTotal, 'f', 2, 64),
			})
		}
		fmt.Fprintln(out, components.Table([]string{"Session", "User", "Started", "Turns", "Avg"}, rows, 3, 4))
		return nil
	},
}

func printTurns(cmd *cobra.Command, repo *store.TurnLog, sessionID string) error {
	turns, err := repo.ListTurns(context.Background(), sessionID)
	if err != nil {
		return fmt.Errorf("list turns: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(turns) == 0 {
		return fmt.Errorf("session %s has no turns", sessionID)
	}

	rows := make([][]string, 0, len(turns))
	for i, t := range turns {
		clarified := ""
		if t.Clarified {
			clarified = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			t.CreatedAt.Local().Format(timeLayout),
			truncate(t.QuestionText, 40),
			strconv.Itoa(t.Clarity),
			strconv.Itoa(t.Structure),
			strconv.Itoa(t.Relevance),
			strconv.FormatFloat(t.Total, 'f', 2, 64),
			clarified,
		})
	}
	fmt.Fprintln(out, components.Table(
		[]string{"#", "Time", "Question", "Clarity", "Structure", "Relevance", "Total", "Clarified"},
		rows, 0, 3, 4, 5, 6))
	return nil
}

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Print the report for a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		turns, err := s.TurnRepo().ListTurns(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("list turns: %w", err)
		}
		totals := make([]float64, len(turns))
		for i, t := range turns {
			totals[i] = t.Total
		}
		summary := session.Summarize(totals)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), summary)
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.SummaryView(summary, termWidth))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 = all)")
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}
