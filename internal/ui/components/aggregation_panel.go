package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/session"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

// CloseAggregationPanelMsg is sent when the aggregation panel should close
type CloseAggregationPanelMsg struct{}

const (
	aggFieldGroupBy = iota
	aggFieldFunc
	aggFieldTarget
)

// AggregationPanel picks the group-by column, the function and its target
type AggregationPanel struct {
	Width  int
	Height int
	Theme  theme.Theme

	columns   []string
	typeHints map[string]string

	field    int
	groupBy  int
	function int
	target   int

	validationError string
}

// NewAggregationPanel creates an aggregation panel
func NewAggregationPanel(th theme.Theme) *AggregationPanel {
	return &AggregationPanel{
		Width:  50,
		Height: 14,
		Theme:  th,
	}
}

// SetSchema sets the columns offered by the pickers
func (ap *AggregationPanel) SetSchema(schema models.Schema) {
	ap.columns = schema.Columns
	ap.typeHints = schema.TypeHints
	ap.groupBy, ap.target, ap.field = 0, 0, aggFieldGroupBy
	ap.validationError = ""
}

// Spec returns the aggregation currently selected
func (ap *AggregationPanel) Spec() models.AggregationSpec {
	spec := models.AggregationSpec{Func: models.AggFuncs[ap.function]}
	if len(ap.columns) > 0 {
		spec.GroupBy = ap.columns[ap.groupBy]
		if spec.Func != models.AggCount {
			spec.Target = ap.columns[ap.target]
		}
	}
	return spec
}

func (ap *AggregationPanel) fieldCount() int {
	if models.AggFuncs[ap.function] == models.AggCount {
		return 2
	}
	return 3
}

// Update handles keyboard input
func (ap *AggregationPanel) Update(msg tea.KeyMsg) (*AggregationPanel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return ap, func() tea.Msg { return CloseAggregationPanelMsg{} }
	case "up", "k", "shift+tab":
		if ap.field > 0 {
			ap.field--
		}
	case "down", "j", "tab":
		if ap.field < ap.fieldCount()-1 {
			ap.field++
		}
	case "right", "l":
		ap.cycle(1)
	case "left", "h":
		ap.cycle(-1)
	case "enter":
		spec := ap.Spec()
		if err := spec.Validate(); err != nil {
			ap.validationError = err.Error()
			return ap, nil
		}
		ap.validationError = ""
		return ap, emit(session.ApplyAggregation{Spec: spec})
	case "r":
		ap.validationError = ""
		return ap, emit(session.ResetAggregation{})
	}
	return ap, nil
}

func (ap *AggregationPanel) cycle(delta int) {
	wrap := func(i, n int) int {
		if n == 0 {
			return 0
		}
		return ((i+delta)%n + n) % n
	}
	switch ap.field {
	case aggFieldGroupBy:
		ap.groupBy = wrap(ap.groupBy, len(ap.columns))
	case aggFieldFunc:
		ap.function = wrap(ap.function, len(models.AggFuncs))
		if ap.field >= ap.fieldCount() {
			ap.field = ap.fieldCount() - 1
		}
	case aggFieldTarget:
		ap.target = wrap(ap.target, len(ap.columns))
	}
}

// View renders the aggregation panel
func (ap *AggregationPanel) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(ap.Theme.Background).
		Background(ap.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render("Group By"))

	instructionStyle := lipgloss.NewStyle().Foreground(ap.Theme.Metadata)
	sections = append(sections, instructionStyle.Render("↑↓ Field │ ←→ Change │ Enter: run │ r: reset │ Esc: close"))
	sections = append(sections, "")

	if len(ap.columns) == 0 {
		sections = append(sections, instructionStyle.Render("No columns detected"))
	} else {
		spec := ap.Spec()
		sections = append(sections, ap.renderField(aggFieldGroupBy, "Group by", spec.GroupBy, ap.typeHints[spec.GroupBy]))
		sections = append(sections, ap.renderField(aggFieldFunc, "Function", string(spec.Func), ""))
		if spec.Func != models.AggCount {
			sections = append(sections, ap.renderField(aggFieldTarget, "Target", spec.Target, ap.typeHints[spec.Target]))
		}
		sections = append(sections, "")
		sections = append(sections, instructionStyle.Render("Result column: "+spec.ResultColumn()))
	}

	if ap.validationError != "" {
		errorStyle := lipgloss.NewStyle().Foreground(ap.Theme.Error).Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+ap.validationError))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ap.Theme.BorderFocused).
		Width(ap.Width).
		Padding(0, 1).
		Render(strings.Join(sections, "\n"))
}

func (ap *AggregationPanel) renderField(field int, label, value, hint string) string {
	style := lipgloss.NewStyle()
	prefix := "  "
	if field == ap.field {
		style = style.Background(ap.Theme.Selection).Bold(true)
		prefix = "> "
	}
	line := fmt.Sprintf("%s%-9s ‹ %s ›", prefix, label, value)
	if hint != "" {
		line += lipgloss.NewStyle().Foreground(ap.Theme.Metadata).Render(" " + hint)
	}
	return style.Render(line)
}
