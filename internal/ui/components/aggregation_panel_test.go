package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/session"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

func TestAggregationPanel_DefaultsToCount(t *testing.T) {
	ap := NewAggregationPanel(theme.DefaultTheme())
	ap.SetSchema(models.Schema{Columns: []string{"city", "price"}})

	spec := ap.Spec()
	if spec.GroupBy != "city" || spec.Func != models.AggCount || spec.Target != "" {
		t.Errorf("Unexpected spec %+v", spec)
	}

	_, cmd := ap.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ev := eventOf(t, cmd).(session.ApplyAggregation)
	if ev.Spec != spec {
		t.Errorf("Expected %+v, got %+v", spec, ev.Spec)
	}
}

func TestAggregationPanel_PicksFunctionAndTarget(t *testing.T) {
	ap := NewAggregationPanel(theme.DefaultTheme())
	ap.SetSchema(models.Schema{Columns: []string{"city", "price"}})

	ap, _ = ap.Update(tea.KeyMsg{Type: tea.KeyDown})
	ap, _ = ap.Update(tea.KeyMsg{Type: tea.KeyRight})
	ap, _ = ap.Update(tea.KeyMsg{Type: tea.KeyDown})
	ap, _ = ap.Update(tea.KeyMsg{Type: tea.KeyRight})

	spec := ap.Spec()
	want := models.AggregationSpec{GroupBy: "city", Func: models.AggSum, Target: "price"}
	if spec != want {
		t.Errorf("Expected %+v, got %+v", want, spec)
	}
}

func TestAggregationPanel_RefusesWithoutColumns(t *testing.T) {
	ap := NewAggregationPanel(theme.DefaultTheme())
	ap.SetSchema(models.Schema{})

	ap, cmd := ap.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Expected no event for an invalid aggregation")
	}
	if ap.validationError == "" {
		t.Error("Expected a validation error")
	}
}

func TestAggregationPanel_ResetAndClose(t *testing.T) {
	ap := NewAggregationPanel(theme.DefaultTheme())

	_, cmd := ap.Update(runes("r"))
	if _, ok := eventOf(t, cmd).(session.ResetAggregation); !ok {
		t.Error("Expected ResetAggregation")
	}

	_, cmd = ap.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(CloseAggregationPanelMsg); !ok {
		t.Error("Expected CloseAggregationPanelMsg")
	}
}
