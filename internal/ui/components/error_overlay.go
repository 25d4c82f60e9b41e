package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// ErrorOverlay is a centered box describing a failed operation
type ErrorOverlay struct {
	Title   string
	Message string
	Width   int
	Theme   theme.Theme
}

// NewErrorOverlay creates an error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{Width: 60, Theme: th}
}

// SetError replaces the displayed error
func (e *ErrorOverlay) SetError(title, message string) {
	e.Title = title
	e.Message = message
}

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(e.Theme.Error)
	bodyStyle := lipgloss.NewStyle().Foreground(e.Theme.Foreground).Width(e.Width - 4)
	helpStyle := lipgloss.NewStyle().Foreground(e.Theme.Metadata).Italic(true)

	title := e.Title
	if title == "" {
		title = "Error"
	}

	content := strings.Join([]string{
		titleStyle.Render("✗ " + title),
		"",
		bodyStyle.Render(e.Message),
		"",
		helpStyle.Render("Esc/Enter: dismiss"),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(e.Width).
		Render(content)
}
