package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/graphwire/boltbind"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2B6CB0")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
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
	stateEditProfile modelState = iota
	stateShowResult
)

// fieldSpec maps a text input onto a profile field.
type fieldSpec struct {
	label string
	get   func(*profile) string
	set   func(*profile, string)
}

var fieldSpecs = []fieldSpec{
	{"host", func(p *profile) string { return p.Host }, func(p *profile, v string) { p.Host = v }},
	{"port", func(p *profile) string { return p.Port }, func(p *profile, v string) { p.Port = v }},
	{"username", func(p *profile) string { return p.Username }, func(p *profile, v string) { p.Username = v }},
	{"password", func(p *profile) string { return p.Password }, func(p *profile, v string) { p.Password = v }},
	{"realm", func(p *profile) string { return p.Realm }, func(p *profile, v string) { p.Realm = v }},
	{"scheme", func(p *profile) string { return p.Scheme }, func(p *profile, v string) { p.Scheme = v }},
	{"transport", func(p *profile) string { return p.Transport }, func(p *profile, v string) { p.Transport = v }},
	{"user_agent", func(p *profile) string { return p.UserAgent }, func(p *profile, v string) { p.UserAgent = v }},
}

type interactiveModel struct {
	err      error
	bolt     *boltbind.Bolt
	current  *probe
	prof     profile
	result   string
	inputs   []textinput.Model
	focusIdx int
	state    modelState
}

func newInteractiveModel(bolt *boltbind.Bolt, prof profile) *interactiveModel {
	m := &interactiveModel{
		bolt:  bolt,
		prof:  prof,
		state: stateEditProfile,
	}

	m.inputs = make([]textinput.Model, len(fieldSpecs))
	for i, spec := range fieldSpecs {
		ti := textinput.New()
		ti.Prompt = spec.label + ": "
		ti.SetValue(spec.get(&prof))
		ti.Width = 40
		if spec.label == "password" {
			ti.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	return m
}

type builtMsg struct {
	err     error
	probe   *probe
	summary string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) build() tea.Msg {
	for i, spec := range fieldSpecs {
		spec.set(&m.prof, m.inputs[i].Value())
	}

	p, err := buildHandles(m.bolt, m.prof)
	if err != nil {
		return builtMsg{err: err}
	}
	return builtMsg{probe: p, summary: summarize(p)}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.teardown()
			return m, tea.Quit

		case "q":
			if m.state == stateShowResult {
				m.teardown()
				return m, tea.Quit
			}

		case "enter":
			if m.state == stateEditProfile {
				return m, m.build
			}
			m.state = stateEditProfile
			m.result = ""
			m.err = nil

		case "tab", "down":
			if m.state == stateEditProfile {
				m.focusField((m.focusIdx + 1) % len(m.inputs))
			}

		case "shift+tab", "up":
			if m.state == stateEditProfile {
				m.focusField((m.focusIdx + len(m.inputs) - 1) % len(m.inputs))
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateEditProfile
				m.result = ""
				m.err = nil
			}
		}

	case builtMsg:
		// Each rebuild replaces the previous handle chain.
		if m.current != nil {
			m.current.Close()
			m.current = nil
		}
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.current = msg.probe
			m.result = msg.summary
		}
		m.state = stateShowResult
	}

	if m.state == stateEditProfile {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) focusField(idx int) {
	m.inputs[m.focusIdx].Blur()
	m.focusIdx = idx
	m.inputs[m.focusIdx].Focus()
}

func (m *interactiveModel) teardown() {
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
	m.bolt.Close()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("boltprobe"))
	b.WriteString(" engine ")
	b.WriteString(labelStyle.Render(boltbind.EngineVersion().String()))
	b.WriteString("\n\n")

	switch m.state {
	case stateEditProfile:
		b.WriteString("Connection profile:\n\n")
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter build • ctrl+c quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit • q quit"))
	}

	return b.String()
}

func runInteractive(prof profile) error {
	bolt, ok := boltbind.Init()
	if !ok {
		return fmt.Errorf("engine already initialized in this process")
	}

	p := tea.NewProgram(newInteractiveModel(bolt, prof), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
