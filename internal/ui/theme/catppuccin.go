package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#a6e3a1"), // Green
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater
		Metadata:      lipgloss.Color("#6c7086"), // Overlay0

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Table colors
		TableHeader:      lipgloss.Color("#89b4fa"), // Blue
		TableHeaderBg:    lipgloss.Color("#181825"), // Mantle
		TableRowSelected: lipgloss.Color("#45475a"), // Surface1
		SortIndicator:    lipgloss.Color("#f9e2af"), // Yellow

		// Filter panel colors
		Operator:       lipgloss.Color("#89b4fa"), // Blue
		Connector:      lipgloss.Color("#cba6f7"), // Mauve
		ActiveFilter:   lipgloss.Color("#a6e3a1"), // Green
		InactiveFilter: lipgloss.Color("#6c7086"), // Overlay0

		// Navigator colors
		DatabaseActive:   lipgloss.Color("#a6e3a1"), // Green
		DatabaseInactive: lipgloss.Color("#6c7086"), // Overlay0
		CollectionIcon:   lipgloss.Color("#94e2d5"), // Teal

		ChromaStyle: "catppuccin-mocha",
	}
}
