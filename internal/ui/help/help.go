package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"Tab", "Cycle focus: collections, filters, table"},
		{"c", "Open connection dialog"},
		{"r, F5", "Reload current page"},
	}
}

// GetNavigationKeys returns collection navigator key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k ↓/j", "Move"},
		{"→/l", "Expand database"},
		{"←/h", "Collapse or go to database"},
		{"Enter", "Open collection"},
	}
}

// GetFilterKeys returns filter panel key bindings
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"f", "Focus filter panel"},
		{"Enter", "Edit value"},
		{"o / O", "Next / previous operator"},
		{"c", "Cycle connector"},
		{"a", "Add condition row"},
		{"n", "Add filter on a column"},
		{"x", "Delete row or filter"},
		{"Ctrl+R", "Clear filters, search and sort"},
		{"[EMPTY]", "Value matching missing, null or NaN"},
	}
}

// GetDataViewKeys returns table key bindings
func GetDataViewKeys() []KeyBinding {
	return []KeyBinding{
		{"/", "Search"},
		{"s / click", "Sort by leftmost visible column / clicked header"},
		{"←/h →/l", "Scroll columns"},
		{"n / b", "Next / previous page"},
		{"g / G", "First / last page"},
		{"+ / -", "Bigger / smaller pages"},
		{"a", "Group by"},
		{"p", "Show compiled query"},
		{"K / J", "Scroll compiled query"},
		{"y", "Copy compiled query"},
		{"e", "Export table"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Collections", GetNavigationKeys()},
		{"Filters", GetFilterKeys()},
		{"Table", GetDataViewKeys()},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(16)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder
	b.WriteString(titleStyle.Render("lazymongo - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, s := range Sections() {
		b.WriteString(sectionStyle.Render(s.Title))
		b.WriteString("\n")
		for _, kb := range s.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		MaxHeight(height)

	return boxStyle.Render(b.String())
}
