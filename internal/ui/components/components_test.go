package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

type pickedMsg string

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Study", Action: func() tea.Cmd { return func() tea.Msg { return pickedMsg("study") } }},
		{Label: "Live", Disabled: true},
		{Label: "Progress", Action: func() tea.Cmd { return func() tea.Msg { return pickedMsg("progress") } }},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Fatalf("expected selection to skip disabled item, got %d", m.Selected)
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected enter to run the action")
	}
	if got := cmd(); got != pickedMsg("progress") {
		t.Errorf("expected progress action, got %v", got)
	}
}

func TestMenuFirstEnabledSelected(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "a", Disabled: true}, {Label: "b"}})
	if m.Selected != 1 {
		t.Errorf("expected first enabled item selected, got %d", m.Selected)
	}
}

func TestProgressBarShowsCounts(t *testing.T) {
	v := NewProgressBar("Iqro 1", 1, 3, 33, 40).View()
	if !strings.Contains(v, "33%") || !strings.Contains(v, "1/3") {
		t.Errorf("unexpected bar: %q", v)
	}
}

func TestProgressBarEmptyLevel(t *testing.T) {
	v := NewProgressBar("", 0, 0, 0, 20).View()
	if !strings.Contains(v, "0%") {
		t.Errorf("unexpected bar: %q", v)
	}
}
