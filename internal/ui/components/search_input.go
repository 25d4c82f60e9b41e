package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// SearchChangedMsg is sent whenever the search text changes
type SearchChangedMsg struct {
	Text string
}

// SearchSubmitMsg is sent when Enter is pressed; the app skips the debounce
type SearchSubmitMsg struct {
	Text string
}

// CloseSearchMsg is sent when search should lose focus
type CloseSearchMsg struct{}

// SearchInput is the free-text search box above the table
type SearchInput struct {
	Input   textinput.Model
	Theme   theme.Theme
	Width   int
	Focused bool
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = `text, number or "column op value"`
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = ""

	return &SearchInput{
		Input: ti,
		Theme: th,
	}
}

// Focus gives the input keyboard focus
func (s *SearchInput) Focus() tea.Cmd {
	s.Focused = true
	return s.Input.Focus()
}

// Blur removes keyboard focus, keeping the text
func (s *SearchInput) Blur() {
	s.Focused = false
	s.Input.Blur()
}

// Value returns the current search text
func (s *SearchInput) Value() string {
	return s.Input.Value()
}

// Reset clears the search input without emitting a change
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			text := s.Input.Value()
			return s, func() tea.Msg { return SearchSubmitMsg{Text: text} }
		case "esc":
			return s, func() tea.Msg { return CloseSearchMsg{} }
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if after := s.Input.Value(); after != before {
		return s, tea.Batch(cmd, func() tea.Msg { return SearchChangedMsg{Text: after} })
	}
	return s, cmd
}

// View renders the search line
func (s *SearchInput) View() string {
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(s.Theme.Metadata)
	if s.Focused {
		labelStyle = labelStyle.Foreground(s.Theme.BorderFocused)
	}

	inputWidth := s.Width - 12
	if inputWidth < 10 {
		inputWidth = 10
	}
	s.Input.Width = inputWidth

	line := labelStyle.Render("Search") + " / " + s.Input.View()
	return lipgloss.NewStyle().MaxWidth(s.Width).Render(line)
}
