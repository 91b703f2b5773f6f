package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/AquaPie/art/linker"
	"github.com/AquaPie/art/mirror"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectClass modelState = iota
	stateShowDump
	stateLookup
)

type loadedMsg struct {
	linker  *linker.Linker
	classes []*mirror.Class
}

type errMsg struct{ err error }

type interactiveModel struct {
	state   modelState
	linker  *linker.Linker
	classes []*mirror.Class
	cursor  int
	dump    string
	query   textinput.Model
	result  string
	err     error
}

func newInteractiveModel() interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "field name:type  or  method name:signature"
	ti.Width = 48
	return interactiveModel{query: ti}
}

func (m interactiveModel) Init() tea.Cmd {
	return loadUniverse
}

func loadUniverse() tea.Msg {
	l, _, err := buildUniverse()
	if err != nil {
		return errMsg{err}
	}
	classes := l.Classes()
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Descriptor() < classes[j].Descriptor()
	})
	return loadedMsg{linker: l, classes: classes}
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.linker = msg.linker
		m.classes = msg.classes
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateSelectClass {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectClass && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == stateSelectClass && m.cursor < len(m.classes)-1 {
				m.cursor++
			}

		case "enter":
			switch m.state {
			case stateSelectClass:
				if len(m.classes) == 0 {
					return m, nil
				}
				var b strings.Builder
				m.classes[m.cursor].DumpClass(&b, mirror.DumpClassFullDetail)
				m.dump = b.String()
				m.state = stateShowDump
				return m, nil
			case stateLookup:
				m.result = m.resolve(m.query.Value())
				return m, nil
			}

		case "l":
			if m.state == stateSelectClass && len(m.classes) > 0 {
				m.state = stateLookup
				m.result = ""
				m.query.SetValue("")
				m.query.Focus()
				return m, textinput.Blink
			}

		case "esc":
			if m.state != stateSelectClass {
				m.state = stateSelectClass
				m.query.Blur()
				return m, nil
			}
		}
	}

	if m.state == stateLookup {
		var cmd tea.Cmd
		m.query, cmd = m.query.Update(msg)
		return m, cmd
	}
	return m, nil
}

// resolve runs one lookup query against the currently selected class.
func (m interactiveModel) resolve(query string) string {
	c := m.classes[m.cursor]
	kind, rest, ok := strings.Cut(strings.TrimSpace(query), " ")
	if !ok {
		return errorStyle.Render("want 'field name:type' or 'method name:signature'")
	}
	name, detail, _ := strings.Cut(rest, ":")

	switch kind {
	case "field":
		if f := mirror.FindField(c, name, detail); f != nil {
			return resultStyle.Render(fmt.Sprintf("%s → %s", f.PrettyField(), f.DeclaringClass().PrettyDescriptor()))
		}
		return errorStyle.Render(fmt.Sprintf("no field %s:%s on %s", name, detail, c.PrettyDescriptor()))
	case "method":
		meth := c.FindVirtualMethod(name, detail)
		if meth == nil {
			meth = c.FindDirectMethod(name, detail)
		}
		if meth == nil {
			meth = c.FindInterfaceMethod(name, detail)
		}
		if meth != nil {
			return resultStyle.Render(fmt.Sprintf("%s → %s", meth.PrettyMethod(), meth.DeclaringClass().PrettyDescriptor()))
		}
		return errorStyle.Render(fmt.Sprintf("no method %s%s on %s", name, detail, c.PrettyDescriptor()))
	default:
		return errorStyle.Render(fmt.Sprintf("unknown kind %q", kind))
	}
}

func (m interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Class Dump"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	if m.linker == nil {
		b.WriteString(statusStyle.Render("Loading classes..."))
		return b.String()
	}

	switch m.state {
	case stateSelectClass:
		b.WriteString(fmt.Sprintf("Loaded classes (%d):\n\n", len(m.classes)))
		for i, c := range m.classes {
			line := fmt.Sprintf("%s  %s", classStyle.Render(c.PrettyDescriptor()), statusStyle.Render(c.Status().String()))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter dump • l lookup • q quit"))

	case stateShowDump:
		b.WriteString(m.dump)
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back • ctrl+c quit"))

	case stateLookup:
		b.WriteString(fmt.Sprintf("Lookup on %s:\n\n", classStyle.Render(m.classes[m.cursor].PrettyDescriptor())))
		b.WriteString(m.query.View())
		b.WriteString("\n\n")
		if m.result != "" {
			b.WriteString(m.result)
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("enter resolve • esc back • ctrl+c quit"))
	}

	return b.String()
}

func runInteractive() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
