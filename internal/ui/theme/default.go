package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("35"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),
		Metadata:      lipgloss.Color("244"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Table colors
		TableHeader:      lipgloss.Color("114"),
		TableHeaderBg:    lipgloss.Color("236"),
		TableRowSelected: lipgloss.Color("25"),
		SortIndicator:    lipgloss.Color("220"),

		// Filter panel colors
		Operator:       lipgloss.Color("75"),
		Connector:      lipgloss.Color("176"),
		ActiveFilter:   lipgloss.Color("42"),
		InactiveFilter: lipgloss.Color("244"),

		// Navigator colors
		DatabaseActive:   lipgloss.Color("42"),
		DatabaseInactive: lipgloss.Color("244"),
		CollectionIcon:   lipgloss.Color("114"),

		ChromaStyle: "monokai",
	}
}
