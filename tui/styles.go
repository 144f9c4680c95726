package tui

import (
	"github.com/Nahnamehran/study-planner/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	primaryColor   = lipgloss.Color("#5FAFAF")
	secondaryColor = lipgloss.Color("#666666")
	warnColor      = lipgloss.Color("#D7AF5F")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	CursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	DoneStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Strikethrough(true)

	DayStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	ReminderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warnColor).
			Foreground(warnColor).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AF5F5F"))
)

// categoryColors covers both variants; anything else is drawn as lifestyle.
var categoryColors = map[models.Category]lipgloss.Color{
	models.CategoryStudy:     lipgloss.Color("#5F87D7"),
	models.CategoryTopic:     lipgloss.Color("#5F87D7"),
	models.CategoryRevision:  lipgloss.Color("#AF87D7"),
	models.CategoryBreak:     lipgloss.Color("#87AF87"),
	models.CategoryFood:      lipgloss.Color("#D7875F"),
	models.CategorySleep:     lipgloss.Color("#5F5F87"),
	models.CategoryLifestyle: lipgloss.Color("#AFAF87"),
}

// CategoryStyle returns the style for a block category within a plan variant.
func CategoryStyle(c models.Category, v models.Variant) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(categoryColors[c.RenderAs(v)])
}
