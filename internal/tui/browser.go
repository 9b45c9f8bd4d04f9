package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/kview/internal/params"
)

type state int

const (
	stateBrowse state = iota
	stateEdit
)

// SaveFunc persists the edited root list.
type SaveFunc func(*params.List) error

type frame struct {
	list   *params.List
	cursor int
}

// Browser is a bubbletea model that walks a parameter list, descends into
// sublists and edits scalar entries in place.
type Browser struct {
	state   state
	root    *params.List
	stack   []frame
	editBuf string
	status  string
	dirty   bool
	save    SaveFunc

	width  int
	height int
}

// NewBrowser returns a browser over l. save may be nil, in which case the
// write key is disabled.
func NewBrowser(l *params.List, save SaveFunc) *Browser {
	return &Browser{
		root:   l,
		stack:  []frame{{list: l}},
		save:   save,
		width:  80,
		height: 24,
	}
}

func (m *Browser) top() *frame { return &m.stack[len(m.stack)-1] }

// Path is the slash-joined key path of the list on screen.
func (m *Browser) Path() string {
	names := make([]string, len(m.stack))
	for i, f := range m.stack {
		names[i] = f.list.Name()
	}
	return strings.Join(names, "/")
}

// Selected returns the key and entry under the cursor.
func (m *Browser) Selected() (string, params.Entry, bool) {
	f := m.top()
	keys := f.list.Keys()
	if f.cursor >= len(keys) {
		return "", nil, false
	}
	e, ok := f.list.Get(keys[f.cursor])
	return keys[f.cursor], e, ok
}

func (m *Browser) Status() string { return m.status }

func (m *Browser) Dirty() bool { return m.dirty }

func (m *Browser) Init() tea.Cmd { return nil }

func (m *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateEdit {
			return m, m.editKey(msg)
		}
		return m, m.browseKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *Browser) browseKey(msg tea.KeyMsg) tea.Cmd {
	f := m.top()
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < f.list.Len()-1 {
			f.cursor++
		}
	case "enter", "right", "l":
		key, e, ok := m.Selected()
		if !ok {
			return nil
		}
		if sub, isList := e.(*params.List); isList {
			m.stack = append(m.stack, frame{list: sub})
			m.status = ""
			return nil
		}
		if !editable(e) {
			m.status = fmt.Sprintf("%s: %s entries are read-only here", key, params.TypeName(e))
			return nil
		}
		m.state = stateEdit
		m.editBuf = editText(e)
	case "esc", "left", "h", "backspace":
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
		}
	case "w":
		if m.save == nil {
			m.status = "no file to write"
			return nil
		}
		if err := m.save(m.root); err != nil {
			m.status = "write failed: " + err.Error()
			return nil
		}
		m.dirty = false
		m.status = "written"
	}
	return nil
}

func (m *Browser) editKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		key, e, _ := m.Selected()
		v, err := parseEdit(e, m.editBuf)
		if err != nil {
			m.status = fmt.Sprintf("%s: %v", key, err)
			return nil
		}
		m.top().list.Set(key, v)
		m.dirty = true
		m.status = ""
		m.state = stateBrowse
	case tea.KeyEsc:
		m.state = stateBrowse
		m.editBuf = ""
	case tea.KeyBackspace:
		if len(m.editBuf) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.editBuf)
			m.editBuf = m.editBuf[:len(m.editBuf)-size]
		}
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeySpace:
		m.editBuf += " "
	case tea.KeyRunes:
		m.editBuf += string(msg.Runes)
	}
	return nil
}

func editable(e params.Entry) bool {
	switch e.(type) {
	case params.Int, params.Double, params.String, params.Bool:
		return true
	}
	return false
}

func editText(e params.Entry) string {
	if s, ok := e.(params.String); ok {
		return string(s)
	}
	return params.FormatEntry(e)
}

// parseEdit converts text to an entry of the same type as old.
func parseEdit(old params.Entry, text string) (params.Entry, error) {
	switch old.(type) {
	case params.Int:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("not an int: %q", text)
		}
		return params.Int(n), nil
	case params.Double:
		x, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("not a double: %q", text)
		}
		return params.Double(x), nil
	case params.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("not a bool: %q", text)
		}
		return params.Bool(b), nil
	case params.String:
		return params.String(text), nil
	}
	return nil, fmt.Errorf("%s entries cannot be edited", params.TypeName(old))
}

func (m *Browser) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + Title.Render(m.Path()))
	if m.dirty {
		b.WriteString(" " + yellow.Render("*"))
	}
	b.WriteString("\n  " + Separator(min(m.width-4, 60)) + "\n\n")

	f := m.top()
	keys := f.list.Keys()
	if len(keys) == 0 {
		b.WriteString("    " + dim.Render("(empty list)") + "\n")
	}

	keyWidth := 0
	for _, k := range keys {
		keyWidth = max(keyWidth, len(k))
	}

	rows := max(m.height-8, 1)
	first := max(0, f.cursor-rows+1)
	for i := first; i < len(keys) && i < first+rows; i++ {
		e, _ := f.list.Get(keys[i])
		name := params.TypeName(e)
		val := params.FormatEntry(e)
		if i == f.cursor && m.state == stateEdit {
			val = m.editBuf + "▋"
		}

		line := fmt.Sprintf("%-*s  %s  ", keyWidth, keys[i], typeStyle(name).Render(fmt.Sprintf("%-14s", name)))
		if i == f.cursor {
			b.WriteString("  " + cyan.Render("▸ ") + white.Render(line) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("    " + dim.Render(line) + dimmer.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("  " + red.Render(m.status) + "\n")
	}
	if m.state == stateEdit {
		b.WriteString(KeyHint.Render("  enter commit   esc cancel") + "\n")
	} else {
		b.WriteString(KeyHint.Render("  ↑↓ select   enter open/edit   esc up   w write   q quit") + "\n")
	}

	return b.String()
}

// Run opens the browser on the terminal's alternate screen.
func Run(l *params.List, save SaveFunc) error {
	p := tea.NewProgram(NewBrowser(l, save), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
