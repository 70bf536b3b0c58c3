package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Anwar-Qureshi/SkillBridge/internal/dataset"
	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/components"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one answer and print the evaluation as JSON",
	Example: `  skillbridge score --question "Tell me about a conflict." --answer "I led..."
  echo "I led..." | skillbridge score --question-id 3 --answer -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEngine(cmd.Context(), cmd, engineOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		q, answer, err := questionAndAnswer(cmd, e)
		if err != nil {
			return err
		}

		eval := e.scorer.Score(cmd.Context(), q.Text, answer)
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			fmt.Fprintln(cmd.OutOrStdout(), components.ScoreCard(eval, termWidth))
			return nil
		}
		return writeJSON(cmd.OutOrStdout(), eval)
	},
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Score one answer and print the evaluation and coaching as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := buildEngine(cmd.Context(), cmd, engineOptions{persist: true})
		if err != nil {
			return err
		}
		defer e.Close()

		q, answer, err := questionAndAnswer(cmd, e)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		eval := e.scorer.Score(ctx, q.Text, answer)
		fb := e.coach.GenerateFeedback(ctx, q, answer, eval)

		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, components.ScoreCard(eval, termWidth))
			fmt.Fprintln(out, components.FeedbackView(fb, termWidth))
			return nil
		}
		return writeJSON(cmd.OutOrStdout(), struct {
			Evaluation any `json:"evaluation"`
			Feedback   any `json:"feedback"`
		}{eval, fb})
	},
}

// questionAndAnswer resolves --question-id or --question, and --answer.
func questionAndAnswer(cmd *cobra.Command, e *engine) (dataset.Question, string, error) {
	var q dataset.Question
	if id, _ := cmd.Flags().GetString("question-id"); id != "" {
		found, ok := e.bank.Lookup(id)
		if !ok {
			return q, "", fmt.Errorf("question %q not found in %s", id, e.cfg.Data.Questions)
		}
		q = found
	} else {
		text, err := readText(cmd, "question")
		if err != nil {
			return q, "", err
		}
		q.Text = text
	}
	if strings.TrimSpace(q.Text) == "" {
		return q, "", fmt.Errorf("one of --question or --question-id is required")
	}

	answer, err := readText(cmd, "answer")
	if err != nil {
		return q, "", err
	}
	return q, answer, nil
}

func init() {
	for _, c := range []*cobra.Command{scoreCmd, feedbackCmd} {
		c.Flags().StringP("question", "q", "", "Question text")
		c.Flags().String("question-id", "", "Id of a question in the dataset")
		c.Flags().StringP("answer", "a", "", `Answer text ("-" reads stdin)`)
		c.Flags().Bool("pretty", false, "Render for the terminal instead of JSON")
	}
}
