package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazymongo/internal/models"
	"github.com/rebeliceyang/lazymongo/internal/session"
	"github.com/rebeliceyang/lazymongo/internal/ui/theme"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// eventOf runs cmd and unwraps the session event it carries
func eventOf(t *testing.T, cmd tea.Cmd) session.Event {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	msg, ok := cmd().(SessionEventMsg)
	if !ok {
		t.Fatalf("Expected SessionEventMsg, got %T", cmd())
	}
	return msg.Event
}

func newTestFilterPanel() *FilterPanel {
	fp := NewFilterPanel(theme.DefaultTheme())
	name := models.NewColumnFilter("name")
	name.Conditions = append(name.Conditions, models.ColumnCondition{Operator: models.OpEqual, Connector: models.ConnAnd})
	fp.SetFilters([]models.ColumnFilter{name, models.NewColumnFilter("age")})
	fp.SetColumns([]string{"name", "age", "city"})
	return fp
}

func TestFilterPanel_Current(t *testing.T) {
	fp := newTestFilterPanel()

	// lines: name header, name row 0, name row 1, age header, age row 0
	want := [][2]int{{0, -1}, {0, 0}, {0, 1}, {1, -1}, {1, 0}}
	for i, w := range want {
		fi, ri, ok := fp.Current()
		if !ok || fi != w[0] || ri != w[1] {
			t.Errorf("line %d: got (%d, %d, %v), want (%d, %d)", i, fi, ri, ok, w[0], w[1])
		}
		fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
}

func TestFilterPanel_OperatorCycle(t *testing.T) {
	fp := newTestFilterPanel()
	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := fp.Update(runes("o"))
	ev, ok := eventOf(t, cmd).(session.SetOperator)
	if !ok {
		t.Fatal("Expected SetOperator")
	}
	if ev.Filter != 0 || ev.Row != 0 || ev.Operator != models.OpNotEqual {
		t.Errorf("Unexpected event %+v", ev)
	}

	_, cmd = fp.Update(runes("O"))
	ev = eventOf(t, cmd).(session.SetOperator)
	if ev.Operator != models.Operators[len(models.Operators)-1] {
		t.Errorf("Expected backwards cycle to wrap, got %s", ev.Operator)
	}
}

func TestFilterPanel_Connectors(t *testing.T) {
	fp := newTestFilterPanel()

	// the first row has no connector
	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	if _, cmd := fp.Update(runes("c")); cmd != nil {
		t.Error("Expected no connector change on the first row")
	}

	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := fp.Update(runes("c"))
	if ev := eventOf(t, cmd).(session.SetConnector); ev.Row != 1 || ev.Connector != models.ConnOr {
		t.Errorf("Unexpected event %+v", ev)
	}

	// on the second filter's header the filter connector cycles
	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = fp.Update(runes("c"))
	if ev := eventOf(t, cmd).(session.SetFilterConnector); ev.Filter != 1 || ev.Connector != models.ConnOr {
		t.Errorf("Unexpected event %+v", ev)
	}
}

func TestFilterPanel_NorOnlyWhenAllowed(t *testing.T) {
	fp := newTestFilterPanel()
	fp.filters[1].Connector = models.ConnNot
	for i := 0; i < 3; i++ {
		fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	_, cmd := fp.Update(runes("c"))
	if ev := eventOf(t, cmd).(session.SetFilterConnector); ev.Connector != models.ConnAnd {
		t.Errorf("Expected NOT to wrap to AND, got %s", ev.Connector)
	}

	fp.AllowNor = true
	_, cmd = fp.Update(runes("c"))
	if ev := eventOf(t, cmd).(session.SetFilterConnector); ev.Connector != models.ConnNor {
		t.Errorf("Expected NOR, got %s", ev.Connector)
	}
}

func TestFilterPanel_RemoveAndAdd(t *testing.T) {
	fp := newTestFilterPanel()

	_, cmd := fp.Update(runes("a"))
	if ev := eventOf(t, cmd).(session.AddCondition); ev.Filter != 0 {
		t.Errorf("Unexpected event %+v", ev)
	}

	for i := 0; i < 2; i++ {
		fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	_, cmd = fp.Update(runes("x"))
	if ev := eventOf(t, cmd).(session.RemoveCondition); ev.Filter != 0 || ev.Row != 1 {
		t.Errorf("Unexpected event %+v", ev)
	}

	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = fp.Update(runes("x"))
	if ev := eventOf(t, cmd).(session.RemoveFilter); ev.Filter != 1 {
		t.Errorf("Unexpected event %+v", ev)
	}
}

func TestFilterPanel_AddFilter(t *testing.T) {
	fp := newTestFilterPanel()

	fp, _ = fp.Update(runes("n"))
	if !fp.Editing() {
		t.Fatal("Expected the column picker to open")
	}
	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyRight})
	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyRight})
	fp, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if ev := eventOf(t, cmd).(session.AddFilter); ev.Column != "city" {
		t.Errorf("Expected city, got %q", ev.Column)
	}
	if fp.Editing() {
		t.Error("Expected the picker to close")
	}
}

func TestFilterPanel_EditValue(t *testing.T) {
	fp := newTestFilterPanel()

	// editing from a header moves to its first row
	fp, _ = fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !fp.Editing() {
		t.Fatal("Expected value editing")
	}
	if _, ri, _ := fp.Current(); ri != 0 {
		t.Errorf("Expected the cursor on row 0, got %d", ri)
	}

	fp, cmd := fp.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected a command for the typed value")
	}
	fp.filters[0].Conditions[0].Value = "q"

	// esc restores the value the edit started from
	fp, cmd = fp.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if ev := eventOf(t, cmd).(session.SetValue); ev.Value != "" || ev.Filter != 0 || ev.Row != 0 {
		t.Errorf("Unexpected event %+v", ev)
	}
	if fp.Editing() {
		t.Error("Expected editing to stop")
	}
}

func TestFilterPanel_Close(t *testing.T) {
	fp := newTestFilterPanel()
	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	if _, ok := cmd().(CloseFilterPanelMsg); !ok {
		t.Error("Expected CloseFilterPanelMsg")
	}
}
