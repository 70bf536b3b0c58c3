package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/Anwar-Qureshi/SkillBridge/internal/coach"
	"github.com/Anwar-Qureshi/SkillBridge/internal/evaluator"
	"github.com/Anwar-Qureshi/SkillBridge/internal/session"
)

func plain(s string) string {
	return ansi.Strip(s)
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 40, ContentWidth(10))
	assert.Equal(t, 56, ContentWidth(60))
	assert.Equal(t, 76, ContentWidth(200))
}

func TestScoreBar(t *testing.T) {
	bar := NewScoreBar("Clarity", 50, 30).View()
	assert.Equal(t, 30, ansi.StringWidth(bar))
	assert.True(t, strings.HasSuffix(plain(bar), "  50"))

	assert.Contains(t, plain(NewScoreBar("", 61.9, 20).View()), "61.90")

	// Out-of-range scores never overflow the bar.
	assert.Equal(t, 20, ansi.StringWidth(NewScoreBar("", 250, 20).View()))
	assert.Equal(t, 20, ansi.StringWidth(NewScoreBar("", -5, 20).View()))
}

func TestBandBadge(t *testing.T) {
	assert.Equal(t, "80 (excellent)", plain(BandBadge(80)))
	assert.Equal(t, "61.90 (good)", plain(BandBadge(61.9)))
	assert.Equal(t, "26.50 (needs work)", plain(BandBadge(26.5)))
}

func TestScoreCard(t *testing.T) {
	r := evaluator.Result{
		Clarity: 76, Structure: 90, Relevance: 0, Total: 61.9,
		ClarificationNeeded: true,
		Diagnostics: evaluator.Diagnostics{
			Clarity:   "Clear and concise.",
			Structure: "Good STAR structure.",
			Relevance: "Answer may be off-topic.",
		},
	}
	out := plain(ScoreCard(r, 80))

	for _, want := range []string{"Clarity", "Structure", "Relevance", "61.90 (good)", "Clear and concise.", "More detail needed"} {
		assert.Contains(t, out, want)
	}
}

func TestFeedbackView_MarksTemplates(t *testing.T) {
	fb := coach.Feedback{
		ImprovementBullet:    "Add a result.",
		PracticePrompt:       "Retell it.",
		ModelAnswer:          "S: ... T: ...",
		PersonalizedCoaching: "Generated coaching.",
		IdealAnswer:          "Built-in example.",
		CoachingGenerated:    true,
	}
	out := plain(FeedbackView(fb, 80))

	assert.Contains(t, out, "Generated coaching.")
	assert.Contains(t, out, "Example answer (template)")
	assert.NotContains(t, out, "Coaching (template)")
}

func TestSummaryView(t *testing.T) {
	out := plain(SummaryView(session.Summarize([]float64{40.5, 60, 75}), 80))
	assert.Contains(t, out, "Answered: 3")
	assert.Contains(t, out, "58.50 (good)")
	assert.Contains(t, out, "+34.50")
	assert.Contains(t, out, "#3 excellent")

	empty := plain(SummaryView(session.Summary{}, 80))
	assert.Contains(t, empty, "No questions answered.")
}

func TestTable(t *testing.T) {
	out := plain(Table(
		[]string{"Purpose", "Calls"},
		[][]string{{"coaching", "2"}, {"score", "10"}},
		1))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Purpose")
	assert.Contains(t, lines[2], "coaching")
	assert.True(t, strings.HasSuffix(strings.TrimRight(lines[2], " "), " 2"))
	assert.Contains(t, lines[3], "10")
}
