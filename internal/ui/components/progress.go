package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/theme"
)

// ScoreBar displays a 0-100 score as a horizontal bar.
type ScoreBar struct {
	Label      string
	LabelWidth int
	Score      float64
	Width      int
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, score float64, width int) ScoreBar {
	return ScoreBar{Label: label, Score: score, Width: width}
}

// View renders the bar.
func (p ScoreBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += theme.Body.Render(label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	const scoreWidth = 8 // "  100.00"

	barWidth := p.Width - labelWidth - scoreWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Score / 100)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", empty))
	result += theme.Hint.Render(fmt.Sprintf("%*s", scoreWidth, formatScore(p.Score)))
	return result
}

// formatScore prints whole scores without decimals.
func formatScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
