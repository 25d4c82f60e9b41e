package models

import "time"

// AppState holds the application state
type AppState struct {
	Width          int
	Height         int
	LeftPanelWidth int
	FocusedPanel   PanelType
	ViewMode       ViewMode

	// Connection state
	ActiveConnection *Connection
	Database         string
	Collection       string
}

// PanelType identifies which panel is focused
type PanelType int

const (
	LeftPanel PanelType = iota
	FilterPanel
	RightPanel
	SearchPanel
	AggregationPanel
)

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	PreviewMode
)

// NewAppState creates a new AppState with defaults
func NewAppState() AppState {
	return AppState{
		Width:          80,
		Height:         24,
		LeftPanelWidth: 35,
		FocusedPanel:   LeftPanel,
		ViewMode:       NormalMode,
	}
}

// Schema describes the columns found by sampling the collection.
// It seeds the pickers and search fallbacks; the compiler never validates against it.
type Schema struct {
	Columns      []string
	TypeHints    map[string]string
	SampleValues map[string][]string
}

// TableData represents one page of documents or aggregation groups
type TableData struct {
	Columns   []string
	Rows      [][]string
	TotalRows int64 // documents matching the filter
	TotalAll  int64 // documents in the collection
	Duration  time.Duration
}
