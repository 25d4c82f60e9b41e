package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	// Background colors
	Background lipgloss.Color
	Foreground lipgloss.Color

	// UI elements
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color
	Cursor        lipgloss.Color
	Metadata      lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader      lipgloss.Color
	TableHeaderBg    lipgloss.Color
	TableRowSelected lipgloss.Color
	SortIndicator    lipgloss.Color

	// Filter panel colors
	Operator       lipgloss.Color
	Connector      lipgloss.Color
	ActiveFilter   lipgloss.Color
	InactiveFilter lipgloss.Color

	// Navigator colors
	DatabaseActive   lipgloss.Color
	DatabaseInactive lipgloss.Color
	CollectionIcon   lipgloss.Color

	// ChromaStyle names the chroma style used for query previews
	ChromaStyle string
}

// Names lists the available themes
var Names = []string{"default", "catppuccin-mocha"}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
