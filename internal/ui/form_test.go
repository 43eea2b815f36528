package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormDefaultsAreValid(t *testing.T) {
	m := NewFormModel()

	params, err := m.params()
	if err != nil {
		t.Fatalf("params failed on defaults: %v", err)
	}
	if err := params.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	if params.Observatories != defaultFormObservatories {
		t.Errorf("observatories = %q", params.Observatories)
	}
	if params.System != defaultFormSystem {
		t.Errorf("system = %q", params.System)
	}
	if !params.Start.Before(params.End) {
		t.Error("default window is not ordered")
	}
}

func TestFormSubmitEmitsParams(t *testing.T) {
	m := NewFormModel()

	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("submit produced no command")
	}
	msg := cmd()
	sub, ok := msg.(SubmitMsg)
	if !ok {
		t.Fatalf("got %T, want SubmitMsg", msg)
	}
	if sub.Params.Observatories != defaultFormObservatories {
		t.Errorf("observatories = %q", sub.Params.Observatories)
	}
	if m.errMsg != "" {
		t.Errorf("errMsg = %q, want empty", m.errMsg)
	}
}

func TestFormValidationBlocksSubmit(t *testing.T) {
	m := NewFormModel()
	m.inputs[fieldObservatories].SetValue("")

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("invalid form must not emit a command")
	}
	if m.errMsg == "" {
		t.Error("expected inline validation error")
	}
}

func TestFormBadTimeReported(t *testing.T) {
	m := NewFormModel()
	m.inputs[fieldStart].SetValue("yesterday")

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("bad time must not emit a command")
	}
	if !strings.Contains(m.errMsg, "start time") {
		t.Errorf("errMsg = %q, want start time hint", m.errMsg)
	}
}

func TestFormLoadingBlocksSubmit(t *testing.T) {
	m := NewFormModel().SetLoading(true)

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("submit while loading must not emit a command")
	}
	if m.errMsg == "" {
		t.Error("expected an in-flight message")
	}
}

func TestFormFocusCycles(t *testing.T) {
	m := NewFormModel()
	if m.focus != fieldObservatories {
		t.Fatalf("initial focus = %d", m.focus)
	}

	for want := 1; want < fieldCount; want++ {
		m, _ = m.Update(keyMsg("tab"))
		if m.focus != want {
			t.Fatalf("focus after %d tabs = %d, want %d", want, m.focus, want)
		}
	}
	m, _ = m.Update(keyMsg("tab"))
	if m.focus != fieldObservatories {
		t.Errorf("focus did not wrap, got %d", m.focus)
	}
}

func TestFormEscLeavesEditing(t *testing.T) {
	m := NewFormModel()
	if !m.Editing() {
		t.Fatal("form should start in editing mode")
	}

	m, _ = m.Update(keyMsg("esc"))
	if m.Editing() {
		t.Error("esc should blur the form")
	}

	m, _ = m.Update(keyMsg("a"))
	if !m.Editing() {
		t.Error("typing should re-enter editing mode")
	}
}
