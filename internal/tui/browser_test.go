package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/kview/internal/params"
)

func testList() *params.List {
	l := params.NewList("root")
	l.Set("n", params.Int(3))
	l.Set("tol", params.Double(0.25))
	l.Set("name", params.String("solver"))
	l.Set("tags", params.Array[string]{"a", "b"})
	sub := params.NewList("")
	sub.Set("verbose", params.Bool(false))
	l.Set("output", sub)
	return l
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Browser, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestBrowser_Navigate(t *testing.T) {
	m := NewBrowser(testList(), nil)

	press(m, "down", "down", "down", "down", "down", "down")
	k, e, ok := m.Selected()
	if !ok || k != "output" {
		t.Fatalf("expected cursor on output, got %q", k)
	}
	if _, isList := e.(*params.List); !isList {
		t.Fatalf("expected sublist, got %T", e)
	}

	press(m, "enter")
	if got := m.Path(); got != "root/output" {
		t.Errorf("expected path root/output, got %s", got)
	}
	if k, _, _ := m.Selected(); k != "verbose" {
		t.Errorf("expected verbose selected, got %q", k)
	}

	press(m, "esc")
	if got := m.Path(); got != "root" {
		t.Errorf("expected path root, got %s", got)
	}
	if k, _, _ := m.Selected(); k != "output" {
		t.Errorf("cursor not kept after leaving sublist, got %q", k)
	}

	press(m, "up", "up", "up", "up", "up", "up", "up")
	if k, _, _ := m.Selected(); k != "n" {
		t.Errorf("expected cursor clamped at n, got %q", k)
	}
}

func TestBrowser_Edit(t *testing.T) {
	l := testList()
	m := NewBrowser(l, nil)

	press(m, "enter", "backspace", "4", "2", "enter")
	if got, _ := l.GetInt("n"); got != 42 {
		t.Errorf("expected n=42, got %d", got)
	}
	if !m.Dirty() {
		t.Error("expected dirty after edit")
	}

	press(m, "down", "enter", "esc")
	if got, _ := l.GetDouble("tol"); got != 0.25 {
		t.Errorf("cancelled edit changed tol to %v", got)
	}

	press(m, "down", "enter")
	for range "solver" {
		press(m, "backspace")
	}
	press(m, "x", "enter")
	if got, _ := l.GetString("name"); got != "x" {
		t.Errorf("expected name x, got %q", got)
	}
}

func TestBrowser_EditRejectsBadInput(t *testing.T) {
	l := testList()
	m := NewBrowser(l, nil)

	press(m, "enter", "x", "enter")
	if got, _ := l.GetInt("n"); got != 3 {
		t.Errorf("bad input changed n to %d", got)
	}
	if !strings.Contains(m.Status(), "not an int") {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestBrowser_ArraysReadOnly(t *testing.T) {
	m := NewBrowser(testList(), nil)
	press(m, "down", "down", "down", "enter")
	if !strings.Contains(m.Status(), "read-only") {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestBrowser_Write(t *testing.T) {
	var saved *params.List
	m := NewBrowser(testList(), func(l *params.List) error {
		saved = l
		return nil
	})

	press(m, "enter", "1", "enter", "w")
	if saved == nil {
		t.Fatal("save not called")
	}
	if m.Dirty() || m.Status() != "written" {
		t.Errorf("unexpected state after write: dirty=%v status=%q", m.Dirty(), m.Status())
	}

	m = NewBrowser(testList(), func(*params.List) error { return errors.New("disk full") })
	press(m, "w")
	if !strings.Contains(m.Status(), "disk full") {
		t.Errorf("unexpected status %q", m.Status())
	}

	m = NewBrowser(testList(), nil)
	press(m, "w")
	if m.Status() != "no file to write" {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestBrowser_Quit(t *testing.T) {
	m := NewBrowser(testList(), nil)
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestBrowser_View(t *testing.T) {
	m := NewBrowser(testList(), nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	for _, want := range []string{"root", "tol", "0.25", "ParameterList", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewBrowser(params.NewList("e"), nil)
	if !strings.Contains(empty.View(), "(empty list)") {
		t.Error("expected empty-list marker")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 4); got != "────" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
	out := Sparkline([]float64{0, 1, 2, 3}, 4)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("unexpected sparkline %q", out)
	}
}
