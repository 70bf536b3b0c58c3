package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/theme"
)

// ContentWidth clamps a terminal width to the width cards are drawn at.
func ContentWidth(termWidth int) int {
	w := termWidth - 4
	if w > 76 {
		w = 76
	}
	if w < 40 {
		w = 40
	}
	return w
}

// BandBadge renders a total score colored by its band.
func BandBadge(total float64) string {
	text := fmt.Sprintf("%s (%s)", formatScore(total), bandLabel(session.BandFor(total)))
	return bandStyle(session.BandFor(total)).Render(text)
}

func bandStyle(b session.Band) lipgloss.Style {
	switch b {
	case session.BandExcellent:
		return theme.Excellent
	case session.BandGood:
		return theme.Good
	default:
		return theme.NeedsWork
	}
}

func bandLabel(b session.Band) string {
	switch b {
	case session.BandExcellent:
		return "excellent"
	case session.BandGood:
		return "good"
	default:
		return "needs work"
	}
}

// ScoreCard renders the three axis scores, the total and the diagnostics.
func ScoreCard(r evaluator.Result, width int) string {
	cw := ContentWidth(width)
	inner := cw - 4

	var b strings.Builder
	b.WriteString(theme.Title.Render("Score") + "  " + BandBadge(r.Total) + "\n\n")

	rows := []struct {
		label string
		score int
		diag  string
	}{
		{"Clarity", r.Clarity, r.Diagnostics.Clarity},
		{"Structure", r.Structure, r.Diagnostics.Structure},
		{"Relevance", r.Relevance, r.Diagnostics.Relevance},
	}
	for _, row := range rows {
		bar := ScoreBar{Label: row.label, LabelWidth: 9, Score: float64(row.score), Width: inner}
		b.WriteString(bar.View() + "\n")
		if row.diag != "" {
			b.WriteString(theme.Hint.Width(inner).Render("  "+row.diag) + "\n")
		}
	}
	if r.ClarificationNeeded {
		b.WriteString("\n" + theme.Good.Render("More detail needed before this answer is final."))
	}
	return theme.Card.Width(cw).Render(strings.TrimRight(b.String(), "\n"))
}

// FeedbackView renders the coaching sections. Built-in text is marked so
// the reader can tell it apart from generated coaching.
func FeedbackView(fb coach.Feedback, width int) string {
	cw := ContentWidth(width)
	inner := cw - 4

	section := func(title, body string, generated bool) string {
		head := theme.Label.Render(title)
		if !generated {
			head += " " + theme.Hint.Render("(template)")
		}
		return head + "\n" + theme.Body.Width(inner).Render(body)
	}

	parts := []string{
		section("Improve", fb.ImprovementBullet, true),
		section("Practice", fb.PracticePrompt, true),
		section("Coaching", fb.PersonalizedCoaching, fb.CoachingGenerated),
		section("Example answer", fb.IdealAnswer, fb.IdealGenerated),
		section("Model answer outline", fb.ModelAnswer, true),
	}
	return theme.Card.Width(cw).Render(strings.Join(parts, "\n\n"))
}

// SummaryView renders the end-of-session report.
func SummaryView(s session.Summary, width int) string {
	cw := ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Session report") + "\n\n")
	if s.Attempted == 0 {
		b.WriteString(theme.Hint.Render("No questions answered."))
		return theme.Card.Width(cw).Render(b.String())
	}

	fmt.Fprintf(&b, "%s %d\n", theme.Label.Render("Answered:"), s.Attempted)
	fmt.Fprintf(&b, "%s %s\n", theme.Label.Render("Average: "), BandBadge(s.AverageTotal))
	fmt.Fprintf(&b, "%s %d\n", theme.Label.Render("Excellent:"), s.Excellent)
	fmt.Fprintf(&b, "%s %s\n", theme.Label.Render("Latest:  "), BandBadge(s.Latest))
	if s.Attempted >= 2 {
		sign := "+"
		if s.Improvement < 0 {
			sign = ""
		}
		fmt.Fprintf(&b, "%s %s%s\n", theme.Label.Render("Progress:"), sign, formatScore(s.Improvement))
	}

	bands := make([]string, len(s.Bands))
	for i, band := range s.Bands {
		bands[i] = bandStyle(band).Render(fmt.Sprintf("#%d %s", i+1, bandLabel(band)))
	}
	b.WriteString("\n" + strings.Join(bands, "  "))
	return theme.Card.Width(cw).Render(b.String())
}
