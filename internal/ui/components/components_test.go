package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "a", Disabled: true},
		{Label: "b"},
		{Label: "c", Disabled: true},
		{Label: "d"},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if m.Selected != 3 {
		t.Errorf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down at end moved to %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up = %d, want 1", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected action to run")
	}
}

func TestMenuViewMarksSelection(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Lessons", Detail: "3/10"}, {Label: "Quit"}})
	view := m.View()
	if !strings.Contains(view, "▸ Lessons") {
		t.Errorf("selected item not marked:\n%s", view)
	}
	if !strings.Contains(view, "3/10") {
		t.Error("detail not rendered")
	}
}

func TestProgressBarClamps(t *testing.T) {
	for _, pct := range []float64{-0.5, 0, 0.42, 1, 3} {
		out := NewProgressBar("", pct, true, 40).View()
		if out == "" {
			t.Errorf("empty bar for %v", pct)
		}
	}
	if out := NewProgressBar("Done", 0.425, true, 40).View(); !strings.Contains(out, "42.5%") {
		t.Errorf("percent label missing: %q", out)
	}
}

func TestEditorExpandsTabs(t *testing.T) {
	e := NewEditor("func main() {\n\tprintln(1)\n}")
	if strings.Contains(e.Value(), "\t") {
		t.Error("tabs should be expanded")
	}
	if !strings.Contains(e.Value(), "    println(1)") {
		t.Errorf("unexpected value %q", e.Value())
	}

	e.SetValue("x := 1")
	if e.Value() != "x := 1" {
		t.Errorf("SetValue: got %q", e.Value())
	}
}
