package coach

import (
	"fmt"
	"strings"

	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
)

const (
	coachingMarker = "COACHING:"
	idealMarker    = "IDEAL_ANSWER:"
)

// buildCoachingPrompt asks for both coaching sections in one call.
func buildCoachingPrompt(question, answer string, eval evaluator.Result) string {
	var b strings.Builder

	b.WriteString("You are an expert interview coach. Provide TWO outputs:\n\n")
	b.WriteString("1. PERSONALIZED COACHING: Provide feedback in this format:\n")
	b.WriteString(`   "You answered by [summarize]. However, [main weakness]. Next time when facing [type], ` +
		`try answering like this: [specific guidance]. This is good interview practice because [why]."` + "\n\n")
	b.WriteString("2. IDEAL STAR ANSWER: Generate a perfect STAR-format answer for this question.\n\n")

	b.WriteString("---\n")
	fmt.Fprintf(&b, "QUESTION: %s\n\n", question)
	fmt.Fprintf(&b, "CANDIDATE'S ANSWER: %s\n\n", answer)
	fmt.Fprintf(&b, "SCORES: Clarity=%d/100, STAR=%d/100, Relevance=%d/100\n",
		eval.Clarity, eval.Structure, eval.Relevance)
	fmt.Fprintf(&b, "ISSUES: Clarity: %s. Structure: %s. Relevance: %s\n\n",
		orNA(eval.Diagnostics.Clarity), orNA(eval.Diagnostics.Structure), orNA(eval.Diagnostics.Relevance))

	b.WriteString("---\n")
	b.WriteString("RESPOND WITH:\n")
	b.WriteString(coachingMarker + "\n[your personalized coaching here]\n\n")
	b.WriteString(idealMarker + "\n[your ideal STAR answer here]\n")

	return b.String()
}

// splitSections separates generated text into its coaching and ideal
// answer sections. It reports ok=false unless the text holds exactly one
// ideal-answer marker; either section may still come back empty.
func splitSections(text string) (coaching, ideal string, ok bool) {
	parts := strings.Split(text, idealMarker)
	if len(parts) != 2 {
		return "", "", false
	}
	coaching = strings.TrimSpace(strings.ReplaceAll(parts[0], coachingMarker, ""))
	ideal = strings.TrimSpace(parts[1])
	return coaching, ideal, true
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
