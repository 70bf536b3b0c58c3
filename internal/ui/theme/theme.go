// Package theme defines the colors and styles of terminal output.
package theme

import "charm.land/lipgloss/v2"

var (
	Primary   = lipgloss.Color("#2563EB")
	Secondary = lipgloss.Color("#0EA5E9")
	Accent    = lipgloss.Color("#EAB308")
	Success   = lipgloss.Color("#16A34A")
	Error     = lipgloss.Color("#DC2626")
	Text      = lipgloss.Color("#E5E7EB")
	TextDim   = lipgloss.Color("#9CA3AF")
	Border    = lipgloss.Color("#4B5563")
)

var (
	Title     = lipgloss.NewStyle().Bold(true).Foreground(Primary)
	Subtitle  = lipgloss.NewStyle().Foreground(TextDim)
	Label     = lipgloss.NewStyle().Bold(true).Foreground(Secondary)
	Body      = lipgloss.NewStyle().Foreground(Text)
	Hint      = lipgloss.NewStyle().Italic(true).Foreground(TextDim)
	Card      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1)
	Excellent = lipgloss.NewStyle().Bold(true).Foreground(Success)
	Good      = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	NeedsWork = lipgloss.NewStyle().Bold(true).Foreground(Error)

	// Score bar segments.
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)
)
