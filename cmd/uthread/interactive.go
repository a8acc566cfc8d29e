package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zuoan7/uthread/sched"
)

const logLines = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	stateStyles = map[sched.State]lipgloss.Style{
		sched.StateFree:      lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		sched.StateRunnable:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		sched.StateRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")).Bold(true),
		sched.StateSuspended: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
	}
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Resume  key.Binding
	Round   key.Binding
	Counter key.Binding
	Ticker  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Resume, k.Round, k.Counter, k.Ticker, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Resume, k.Round},
		{k.Counter, k.Ticker, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Resume:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "resume")),
	Round:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "resume all")),
	Counter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new counter")),
	Ticker:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "new ticker")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type modelState int

const (
	stateBrowse modelState = iota
	stateInputSteps
)

type spawnKind int

const (
	spawnCounter spawnKind = iota
	spawnTicker
)

type interactiveModel struct {
	err      error
	demo     *demo
	opts     options
	log      []string
	input    textinput.Model
	help     help.Model
	selected int
	spawn    spawnKind
	state    modelState
}

func newInteractiveModel(opts options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(opts.steps)
	ti.Prompt = "steps: "
	ti.CharLimit = 6
	ti.Width = 10

	return &interactiveModel{
		opts:  opts,
		input: ti,
		help:  help.New(),
		state: stateBrowse,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// load builds the scheduler before the program starts so every scheduler
// call happens on the Update goroutine or before it exists.
func (m *interactiveModel) load(ctx context.Context) error {
	d, err := newDemo(ctx, m.opts, m.logf)
	if err != nil {
		return err
	}
	for i := 0; i < m.opts.coroutines; i++ {
		if _, err := d.spawnCounter(m.opts.steps); err != nil {
			_ = d.close(ctx)
			return err
		}
	}
	for i := 0; i < m.opts.guests; i++ {
		if _, err := d.spawnTicker(ctx, m.opts.steps); err != nil {
			_ = d.close(ctx)
			return err
		}
	}
	m.demo = d
	return nil
}

func (m *interactiveModel) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if len(m.log) > logLines {
		m.log = m.log[len(m.log)-logLines:]
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) && (m.state == stateBrowse || msg.String() == "ctrl+c") {
			if err := m.demo.close(context.Background()); err != nil {
				m.err = err
			}
			return m, tea.Quit
		}
		if m.state == stateInputSteps {
			return m.updateInput(msg)
		}
		return m, m.updateBrowse(msg)

	default:
		if m.state == stateInputSteps {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *interactiveModel) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	d := m.demo
	switch {
	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Down):
		if m.selected < d.sched.HighWaterMark()-1 {
			m.selected++
		}
	case key.Matches(msg, keys.Resume):
		st, ok := d.sched.Status(m.selected)
		if !ok || (st != sched.StateRunnable && st != sched.StateSuspended) {
			m.logf("slot %d is %s, resume ignored", m.selected, st)
			return nil
		}
		d.sched.Resume(m.selected)
	case key.Matches(msg, keys.Round):
		if n := d.round(); n == 0 {
			m.logf("nothing to resume")
		}
	case key.Matches(msg, keys.Counter):
		m.spawn = spawnCounter
		m.state = stateInputSteps
		m.input.SetValue("")
		return m.input.Focus()
	case key.Matches(msg, keys.Ticker):
		m.spawn = spawnTicker
		m.state = stateInputSteps
		m.input.SetValue("")
		return m.input.Focus()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *interactiveModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		m.state = stateBrowse
		m.input.Blur()
		m.create(m.input.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) create(value string) {
	steps := m.opts.steps
	if value = strings.TrimSpace(value); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			m.logf("invalid step count %q", value)
			return
		}
		steps = n
	}

	var (
		id  int
		err error
	)
	switch m.spawn {
	case spawnTicker:
		id, err = m.demo.spawnTicker(context.Background(), steps)
	default:
		id, err = m.demo.spawnCounter(steps)
	}
	if err != nil {
		m.logf("create failed: %v", err)
		return
	}
	m.selected = id
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	d := m.demo
	var b strings.Builder

	b.WriteString(titleStyle.Render("uthread"))
	b.WriteString(fmt.Sprintf(" backend %s • %d/%d slots live • hwm %d • counter %d\n\n",
		m.backendName(), d.sched.Len(), d.sched.Cap(), d.sched.HighWaterMark(), d.counter))

	if d.sched.HighWaterMark() == 0 {
		b.WriteString("No coroutines yet.\n")
	}
	for id := 0; id < d.sched.HighWaterMark(); id++ {
		st, _ := d.sched.Status(id)
		line := fmt.Sprintf("%4d  %-10s %-8s", id, st, d.kind(id))
		if call, ok := d.calls[id]; ok && d.kind(id) == "ticker" {
			line += fmt.Sprintf(" emitted %v", call.Emitted)
		}
		if id == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + stateStyles[st].Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, l := range m.log {
		b.WriteString(logStyle.Render(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state == stateInputSteps {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.help.Styles.ShortDesc.Render("enter create • esc cancel"))
		return b.String()
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *interactiveModel) backendName() string {
	if m.opts.backend == "" {
		return "pull"
	}
	return m.opts.backend
}

func runInteractive(opts options) error {
	m := newInteractiveModel(opts)
	if err := m.load(context.Background()); err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
