package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/session"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// SessionEventMsg carries a session event produced by a panel
type SessionEventMsg struct {
	Event session.Event
}

// CloseFilterPanelMsg is sent when the filter panel should lose focus
type CloseFilterPanelMsg struct{}

type filterMode int

const (
	filterNavigate filterMode = iota
	filterEditValue
	filterPickColumn
)

// filterLine is one selectable line: a filter header (row -1) or a condition row
type filterLine struct {
	filter int
	row    int
}

// FilterPanel edits the per-column filters. It never changes the filters
// itself; every edit is sent as a session event and the app hands back the
// resulting filters through SetFilters.
type FilterPanel struct {
	Width  int
	Height int
	Theme  theme.Theme

	// AllowNor offers the NOR connector between filters
	AllowNor bool

	filters []models.ColumnFilter
	columns []string

	cursor int
	scroll int
	mode   filterMode

	input       textinput.Model
	editOrigin  string
	columnIndex int
}

// NewFilterPanel creates an empty filter panel
func NewFilterPanel(th theme.Theme) *FilterPanel {
	ti := textinput.New()
	ti.Placeholder = "value"
	ti.CharLimit = 512
	ti.Prompt = ""

	return &FilterPanel{
		Width:  60,
		Height: 20,
		Theme:  th,
		input:  ti,
	}
}

// SetFilters replaces the displayed filters, keeping the cursor in range
func (fp *FilterPanel) SetFilters(filters []models.ColumnFilter) {
	fp.filters = filters
	if n := len(fp.lines()); fp.cursor >= n {
		fp.cursor = n - 1
	}
	if fp.cursor < 0 {
		fp.cursor = 0
	}
}

// SetColumns sets the columns offered when adding a filter
func (fp *FilterPanel) SetColumns(columns []string) {
	fp.columns = columns
	fp.columnIndex = 0
}

// Editing reports whether a value is being typed
func (fp *FilterPanel) Editing() bool {
	return fp.mode != filterNavigate
}

func (fp *FilterPanel) lines() []filterLine {
	var out []filterLine
	for fi, f := range fp.filters {
		out = append(out, filterLine{filter: fi, row: -1})
		for ri := range f.Conditions {
			out = append(out, filterLine{filter: fi, row: ri})
		}
	}
	return out
}

// Current returns the filter and row under the cursor; row is -1 on a header
func (fp *FilterPanel) Current() (int, int, bool) {
	lines := fp.lines()
	if fp.cursor < 0 || fp.cursor >= len(lines) {
		return 0, 0, false
	}
	l := lines[fp.cursor]
	return l.filter, l.row, true
}

func emit(ev session.Event) tea.Cmd {
	return func() tea.Msg { return SessionEventMsg{Event: ev} }
}

// Update handles keyboard input
func (fp *FilterPanel) Update(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	switch fp.mode {
	case filterEditValue:
		return fp.handleValueMode(msg)
	case filterPickColumn:
		return fp.handleColumnMode(msg)
	}
	return fp.handleNavigationMode(msg)
}

func (fp *FilterPanel) handleNavigationMode(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	fi, ri, ok := fp.Current()

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < len(fp.lines())-1 {
			fp.cursor++
		}
	case "esc":
		return fp, func() tea.Msg { return CloseFilterPanelMsg{} }
	case "enter", "e", "i":
		if !ok {
			return fp, nil
		}
		if ri < 0 {
			ri = 0
			fp.cursor++
		}
		value := fp.filters[fi].Conditions[ri].Value
		fp.editOrigin = value
		fp.input.SetValue(value)
		fp.input.CursorEnd()
		fp.input.Focus()
		fp.mode = filterEditValue
	case "o", "right", "l":
		if ok && ri >= 0 {
			return fp, emit(session.SetOperator{Filter: fi, Row: ri, Operator: cycleOperator(fp.filters[fi].Conditions[ri].Operator, 1)})
		}
	case "O", "left", "h":
		if ok && ri >= 0 {
			return fp, emit(session.SetOperator{Filter: fi, Row: ri, Operator: cycleOperator(fp.filters[fi].Conditions[ri].Operator, -1)})
		}
	case "c":
		if !ok {
			return fp, nil
		}
		if ri > 0 {
			next := cycleConnector(models.ConditionConnectors, fp.filters[fi].Conditions[ri].Connector)
			return fp, emit(session.SetConnector{Filter: fi, Row: ri, Connector: next})
		}
		if ri < 0 && fi > 0 {
			choices := models.FilterConnectors
			if !fp.AllowNor {
				choices = models.ConditionConnectors
			}
			return fp, emit(session.SetFilterConnector{Filter: fi, Connector: cycleConnector(choices, fp.filters[fi].Connector)})
		}
	case "a":
		if ok {
			return fp, emit(session.AddCondition{Filter: fi})
		}
	case "x", "d":
		if !ok {
			return fp, nil
		}
		if ri < 0 {
			return fp, emit(session.RemoveFilter{Filter: fi})
		}
		return fp, emit(session.RemoveCondition{Filter: fi, Row: ri})
	case "n":
		if len(fp.columns) > 0 {
			fp.mode = filterPickColumn
		}
	case "ctrl+r":
		return fp, emit(session.ClearAll{})
	}
	return fp, nil
}

func (fp *FilterPanel) handleValueMode(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	fi, ri, _ := fp.Current()

	switch msg.String() {
	case "enter":
		fp.stopEditing()
		return fp, nil
	case "esc":
		fp.stopEditing()
		if fp.filters[fi].Conditions[ri].Value != fp.editOrigin {
			return fp, emit(session.SetValue{Filter: fi, Row: ri, Value: fp.editOrigin})
		}
		return fp, nil
	}

	before := fp.input.Value()
	var cmd tea.Cmd
	fp.input, cmd = fp.input.Update(msg)
	if after := fp.input.Value(); after != before {
		return fp, tea.Batch(cmd, emit(session.SetValue{Filter: fi, Row: ri, Value: after}))
	}
	return fp, cmd
}

func (fp *FilterPanel) handleColumnMode(msg tea.KeyMsg) (*FilterPanel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.mode = filterNavigate
	case "up", "k", "left", "h":
		if fp.columnIndex > 0 {
			fp.columnIndex--
		}
	case "down", "j", "right", "l":
		if fp.columnIndex < len(fp.columns)-1 {
			fp.columnIndex++
		}
	case "enter":
		fp.mode = filterNavigate
		column := fp.columns[fp.columnIndex]
		// land on the new filter's first row once the app hands it back
		fp.cursor = len(fp.lines()) + 1
		return fp, emit(session.AddFilter{Column: column})
	}
	return fp, nil
}

func (fp *FilterPanel) stopEditing() {
	fp.mode = filterNavigate
	fp.input.Blur()
	fp.editOrigin = ""
}

func cycleOperator(op models.Operator, delta int) models.Operator {
	n := len(models.Operators)
	for i, o := range models.Operators {
		if o == op {
			return models.Operators[((i+delta)%n+n)%n]
		}
	}
	return models.OpEqual
}

func cycleConnector(choices []models.Connector, c models.Connector) models.Connector {
	for i, x := range choices {
		if x == c {
			return choices[(i+1)%len(choices)]
		}
	}
	return choices[0]
}

// View renders the filter panel
func (fp *FilterPanel) View() string {
	var sections []string

	instructionStyle := lipgloss.NewStyle().Foreground(fp.Theme.Metadata)
	var instructions string
	switch fp.mode {
	case filterEditValue:
		instructions = "Type value │ Enter: done │ Esc: revert"
	case filterPickColumn:
		instructions = "←→ Select column │ Enter: add filter │ Esc: cancel"
	default:
		instructions = "Enter: edit │ o/O: operator │ c: connector │ a: add row │ n: new filter │ x: delete │ Ctrl+R: clear"
	}
	sections = append(sections, instructionStyle.Render(runewidth.Truncate(instructions, fp.Width, "…")))

	if fp.mode == filterPickColumn {
		sections = append(sections, fp.renderColumnPicker())
	}

	lines := fp.lines()
	if len(lines) == 0 {
		sections = append(sections, instructionStyle.Render("No columns to filter"))
		return strings.Join(sections, "\n")
	}

	visible := fp.Height - len(sections)
	if visible < 1 {
		visible = 1
	}
	if fp.cursor < fp.scroll {
		fp.scroll = fp.cursor
	}
	if fp.cursor >= fp.scroll+visible {
		fp.scroll = fp.cursor - visible + 1
	}
	end := fp.scroll + visible
	if end > len(lines) {
		end = len(lines)
	}

	for i := fp.scroll; i < end; i++ {
		var line string
		if lines[i].row < 0 {
			line = fp.renderHeader(lines[i].filter)
		} else {
			line = fp.renderCondition(lines[i].filter, lines[i].row)
		}
		style := lipgloss.NewStyle().MaxWidth(fp.Width)
		if i == fp.cursor {
			style = style.Width(fp.Width).Background(fp.Theme.Selection)
		}
		sections = append(sections, style.Render(line))
	}
	return strings.Join(sections, "\n")
}

func (fp *FilterPanel) renderHeader(fi int) string {
	f := fp.filters[fi]
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(fp.Theme.InactiveFilter)
	marker := "○"
	if f.Active() {
		nameStyle = nameStyle.Foreground(fp.Theme.ActiveFilter)
		marker = "●"
	}
	header := marker + " " + nameStyle.Render(f.Column)
	if fi > 0 {
		conn := f.Connector
		if conn == models.ConnNone {
			conn = models.ConnAnd
		}
		header = lipgloss.NewStyle().Foreground(fp.Theme.Connector).Render(fmt.Sprintf("%-3s", conn)) + " " + header
	} else {
		header = "    " + header
	}
	return header
}

func (fp *FilterPanel) renderCondition(fi, ri int) string {
	c := fp.filters[fi].Conditions[ri]

	conn := "   "
	if ri > 0 {
		label := c.Connector
		if label == models.ConnNone {
			label = models.ConnAnd
		}
		conn = fmt.Sprintf("%-3s", label)
	}
	connStyle := lipgloss.NewStyle().Foreground(fp.Theme.Connector)
	opStyle := lipgloss.NewStyle().Foreground(fp.Theme.Operator)

	value := c.Value
	if fp.mode == filterEditValue && fp.isCurrent(fi, ri) {
		value = fp.input.View()
	} else if value == "" {
		value = lipgloss.NewStyle().Foreground(fp.Theme.Metadata).Render("·")
	}

	return fmt.Sprintf("      %s %s %s",
		connStyle.Render(conn),
		opStyle.Render(fmt.Sprintf("%-16s", c.Operator.Label())),
		value,
	)
}

func (fp *FilterPanel) renderColumnPicker() string {
	var parts []string
	for i, col := range fp.columns {
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fp.columnIndex {
			style = style.Background(fp.Theme.Selection).Bold(true)
		}
		parts = append(parts, style.Render(col))
	}
	return lipgloss.NewStyle().MaxWidth(fp.Width).Render("Column: " + strings.Join(parts, ""))
}

func (fp *FilterPanel) isCurrent(fi, ri int) bool {
	f, r, ok := fp.Current()
	return ok && f == fi && r == ri
}
