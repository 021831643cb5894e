package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/sides/config"
	"github.com/wippyai/sides/consumer"
	"github.com/wippyai/sides/provider"
	"github.com/wippyai/sides/thing"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	variantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type variant struct {
	name        string
	description string
	needsValue  bool
}

var variants = []variant{
	{name: "constant", description: "every object reports the value you enter", needsValue: true},
	{name: "counting", description: "objects report how many have been created"},
	{name: "missing number", description: "vtable without a number slot"},
}

type modelState int

const (
	stateSelectVariant modelState = iota
	stateInputValue
	stateShowResult
)

type interactiveModel struct {
	err      error
	ctx      context.Context
	session  *session
	counter  *instances
	reported *atomic.Int64
	cfg      config.Config
	log      *zap.Logger
	result   string
	input    textinput.Model
	runs     int
	selected int
	state    modelState
	useGuest bool
}

type loadedMsg struct {
	err     error
	session *session
}

type runResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(ctx context.Context, cfg config.Config, log *zap.Logger, useGuest bool) *interactiveModel {
	return &interactiveModel{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		useGuest: useGuest,
		counter:  newInstances(),
		reported: new(atomic.Int64),
		state:    stateSelectVariant,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	reported := m.reported
	s, err := newSession(m.ctx, m.cfg, m.log, sessionOptions{
		reporter: consumer.ReporterFunc(func(_ context.Context, v int32) {
			reported.Store(int64(v))
		}),
		useGuest: m.useGuest,
	})
	return loadedMsg{session: s, err: err}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateInputValue && msg.String() == "q" {
				break
			}
			if m.session != nil {
				_ = m.session.Close(m.ctx)
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectVariant && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectVariant && m.selected < len(variants)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectVariant:
				if m.session == nil {
					return m, nil
				}
				if variants[m.selected].needsValue {
					m.prepareInput()
					m.state = stateInputValue
					return m, textinput.Blink
				}
				return m, m.runVariant

			case stateInputValue:
				return m, m.runVariant

			case stateShowResult:
				m.state = stateSelectVariant
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputValue, stateShowResult:
				m.state = stateSelectVariant
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session

	case runResultMsg:
		m.runs++
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputValue {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = "i32"
	ti.Prompt = "number: "
	ti.Width = 20
	ti.Focus()
	m.input = ti
}

// constructor builds the provider.Constructor for the selected variant.
func (m *interactiveModel) constructor() (provider.Constructor, error) {
	switch variants[m.selected].name {
	case "constant":
		v, err := strconv.ParseInt(strings.TrimSpace(m.input.Value()), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("not an i32: %q", m.input.Value())
		}
		n := thing.Const(v)
		return func() thing.Thing { return n }, nil
	case "counting":
		return m.counter.New, nil
	default:
		vt := &thing.Vtable{Destroy: func(*thing.Instance) {}}
		return func() thing.Thing { return thing.New(vt, nil) }, nil
	}
}

func (m *interactiveModel) runVariant() tea.Msg {
	ctor, err := m.constructor()
	if err != nil {
		return runResultMsg{err: err}
	}
	if err := m.session.runOnce(m.ctx, ctor); err != nil {
		return runResultMsg{err: err}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d", m.cfg.Label, m.reported.Load())
	if r, ok := m.session.lastGuestReport(); ok {
		fmt.Fprintf(&b, "\nother side saw %d through handle %d", r.Value, r.Handle)
	}
	if variants[m.selected].name == "counting" {
		fmt.Fprintf(&b, "\nlive counting objects: %d", m.counter.Live())
	}
	return runResultMsg{result: b.String()}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.session == nil {
		return "Starting the other side..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("sides"))
	fmt.Fprintf(&b, " runs: %d\n\n", m.runs)

	switch m.state {
	case stateSelectVariant:
		b.WriteString("Choose a constructor to register:\n\n")
		for i, v := range variants {
			line := variantStyle.Render(v.name) + "  " + v.description
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + v.name + "  " + v.description))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case stateInputValue:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		v := variants[m.selected]
		fmt.Fprintf(&b, "Result of %s:\n\n", variantStyle.Render(v.name))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(ctx context.Context, cfg config.Config, log *zap.Logger, useGuest bool) error {
	p := tea.NewProgram(newInteractiveModel(ctx, cfg, log, useGuest), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
