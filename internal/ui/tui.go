// Package ui renders the dashboard in a terminal.
package ui

import (
	"context"
	"errors"
	"fmt"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"idea-dashboard/pkg/data"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
	"io"
	"os"
	"strings"
)

const (
	title          = "Idea Agents Diagnostic Dashboard"
	emptyIdeaHint  = "Please describe your idea."
	chromeLines    = 7
	minPanelBody   = 3
	fallbackHeight = 40
	fallbackWidth  = 100
	// panelGutter is the left border plus its padding.
	panelGutter = 2
)

// Dashboard is what the terminal UI needs from the running dashboard.
type Dashboard interface {
	Roster() models.Roster
	Submit(idea string) error
	Subscribe() (<-chan messages.Event, func())
}

// Run blocks until the user quits or ctx is done.
func Run(ctx context.Context, dash Dashboard) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	events, unsubscribe := dash.Subscribe()
	defer unsubscribe()

	m := newModel(dash.Roster(), dash.Submit, events)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type eventMsg struct {
	event messages.Event
}

type closedMsg struct{}

type model struct {
	roster models.Roster
	submit func(string) error
	events <-chan messages.Event

	snapshot models.Snapshot
	loading  bool
	cycle    uint64
	status   models.Status

	input textinput.Model
	hint  string

	panels []viewport.Model
	focus  int
	width  int
	height int
}

func newModel(roster models.Roster, submit func(string) error, events <-chan messages.Event) *model {
	inp := textinput.New()
	inp.Prompt = "Idea: "
	inp.Placeholder = "describe a product idea and press enter"
	inp.CharLimit = 0
	inp.Focus()

	m := &model{
		roster:  roster,
		submit:  submit,
		events:  events,
		loading: true,
		status:  models.IdleStatus(),
		input:   inp,
		panels:  make([]viewport.Model, len(roster)),
	}
	for i := range m.panels {
		m.panels[i] = viewport.New(0, 0)
	}
	m.resize(fallbackWidth, fallbackHeight)
	for i := range m.roster {
		m.fill(i)
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
	case eventMsg:
		switch ev := msg.event.(type) {
		case messages.SnapshotCommitted:
			m.applySnapshot(ev)
			m.scrollToBottom()
		case messages.LoadingChanged:
			m.loading = ev.Loading
			for i := range m.roster {
				m.fill(i)
			}
		case messages.StatusChanged:
			m.status = ev.Status
		}
		return m, waitForEvent(m.events)
	case closedMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey takes the keys that belong to the dashboard. Everything else
// goes to the idea input.
func (m *model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return true, tea.Quit
	case tea.KeyEnter:
		m.submitIdea()
	case tea.KeyTab:
		if len(m.roster) > 0 {
			m.focus = (m.focus + 1) % len(m.roster)
		}
	case tea.KeyShiftTab:
		if len(m.roster) > 0 {
			m.focus = (m.focus + len(m.roster) - 1) % len(m.roster)
		}
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		m.scroll(msg.Type)
	default:
		return false, nil
	}
	return true, nil
}

func (m *model) submitIdea() {
	err := m.submit(m.input.Value())
	switch {
	case errors.Is(err, models.ErrEmptyIdea):
		m.hint = emptyIdeaHint
	case err != nil:
		m.hint = err.Error()
	default:
		m.hint = ""
	}
}

func (m *model) applySnapshot(ev messages.SnapshotCommitted) {
	m.snapshot = ev.Snapshot
	m.loading = ev.Loading
	m.cycle = ev.Cycle
	for i := range m.roster {
		m.fill(i)
	}
}

// fill sets panel i to the agent's log text, or its placeholder when there
// is none.
func (m *model) fill(i int) {
	a := m.roster[i]
	text := data.SanitizeLog(m.snapshot[a.ID])
	if text == "" {
		text = m.snapshot.Display(a.ID, m.loading)
	}
	m.panels[i].SetContent(text)
}

// scrollToBottom pins every panel to its newest line. It must run after
// applySnapshot so the viewports already hold the new content.
func (m *model) scrollToBottom() {
	for i := range m.panels {
		m.panels[i].GotoBottom()
	}
}

func (m *model) scroll(key tea.KeyType) {
	if len(m.panels) == 0 {
		return
	}
	vp := &m.panels[m.focus]
	switch key {
	case tea.KeyUp:
		vp.LineUp(1)
	case tea.KeyDown:
		vp.LineDown(1)
	case tea.KeyPgUp:
		vp.ViewUp()
	case tea.KeyPgDown:
		vp.ViewDown()
	}
}

func (m *model) resize(width, height int) {
	if width <= 0 {
		width = fallbackWidth
	}
	if height <= 0 {
		height = fallbackHeight
	}
	m.width, m.height = width, height
	m.input.Width = width - lipgloss.Width(m.input.Prompt) - 1

	body := m.panelBody()
	for i := range m.panels {
		atBottom := m.panels[i].AtBottom()
		m.panels[i].Width = width - panelGutter
		m.panels[i].Height = body
		if atBottom {
			m.panels[i].GotoBottom()
		}
	}
}

func (m *model) panelBody() int {
	if len(m.roster) == 0 {
		return minPanelBody
	}
	body := (m.height-chromeLines)/len(m.roster) - 1
	if body < minPanelBody {
		return minPanelBody
	}
	return body
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n\n")
	b.WriteString(m.input.View() + "\n")
	b.WriteString(m.status.Text + "\n")
	if m.hint != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#f35b53")).Render(m.hint))
	}
	b.WriteString("\n\n")

	for i, a := range m.roster {
		b.WriteString(m.renderPanel(i, a))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("enter submit | tab focus | pgup/pgdn scroll | esc quit | cycle %d", m.cycle))
	return b.String()
}

func (m *model) renderPanel(i int, a models.Agent) string {
	label := " " + a.Display
	if i == m.focus {
		label = ">" + a.Display
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#222222")).
		Background(lipgloss.Color(a.Color)).
		Width(m.width).
		Render(label)

	content := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(a.Color)).
		PaddingLeft(1).
		Render(m.panels[i].View())
	return header + "\n" + content
}

func waitForEvent(ch <-chan messages.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
