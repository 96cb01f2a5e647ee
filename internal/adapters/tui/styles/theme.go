package styles

import (
	"github.com/charmbracelet/lipgloss"

	"tourtags/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Node colors
	CategoryColor = lipgloss.Color("#8B5CF6") // Violet
	TagColor      = lipgloss.Color("#60A5FA") // Blue
	YearColor     = lipgloss.Color("#F97316") // Orange
	MonthColor    = lipgloss.Color("#EC4899") // Pink

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeCategory = lipgloss.NewStyle().
			Foreground(CategoryColor).
			Bold(true)

	NodeTag = lipgloss.NewStyle().
		Foreground(TagColor)

	NodeYear = lipgloss.NewStyle().
			Foreground(YearColor)

	NodeMonth = lipgloss.NewStyle().
			Foreground(MonthColor)

	NodeTour = lipgloss.NewStyle()

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	NodeStats = lipgloss.NewStyle().
			Foreground(Muted)

	// Tree indicators
	TreeBranch = lipgloss.NewStyle().Foreground(Muted)

	// Details panel
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1).
		MarginLeft(2)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(Warning)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// NodeStyle returns the style of a node by its key variant
func NodeStyle(v domain.Variant) lipgloss.Style {
	switch v {
	case domain.VariantCategory:
		return NodeCategory
	case domain.VariantTag:
		return NodeTag
	case domain.VariantYear:
		return NodeYear
	case domain.VariantMonth:
		return NodeMonth
	default:
		return NodeTour
	}
}
