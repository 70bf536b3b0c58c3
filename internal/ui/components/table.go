package components

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/Anwar-Qureshi/SkillBridge/internal/ui/theme"
)

// Table renders rows under a styled header. Columns listed in numeric are
// right-aligned.
func Table(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if right[col] {
				s = s.Align(lipgloss.Right)
			}
			if row == table.HeaderRow {
				return s.Inherit(theme.Label)
			}
			return s.Inherit(theme.Body)
		}).
		String()
}
