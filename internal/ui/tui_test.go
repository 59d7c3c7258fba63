package ui

import (
	"fmt"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
	"strings"
	"testing"
)

var roster = models.Roster{
	{ID: "A", Display: "Agent A", Color: "#ffc800"},
	{ID: "B", Display: "Agent B", Color: "#73f7dd"},
}

type recorder struct {
	ideas []string
}

func (r *recorder) submit(idea string) error {
	trimmed, err := models.ValidateIdea(idea)
	if err != nil {
		return err
	}
	r.ideas = append(r.ideas, trimmed)
	return nil
}

func typeText(m *model, s string) {
	for _, r := range s {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func logText(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %02d", i)
	}
	return strings.Join(lines, "\n")
}

func TestModel_PlaceholdersBeforeFirstCommit(t *testing.T) {
	m := newModel(roster, (&recorder{}).submit, nil)
	view := m.View()
	require.Contains(t, view, models.LoadingPlaceholder)
	require.Contains(t, view, "Agent A")
}

func TestModel_CommitScrollsToNewestLine(t *testing.T) {
	m := newModel(roster, (&recorder{}).submit, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 27})
	body := m.panelBody()
	require.Equal(t, 9, body)
	require.Equal(t, body, m.panels[0].Height)

	m.Update(eventMsg{event: messages.SnapshotCommitted{
		Cycle:    1,
		Snapshot: models.Snapshot{"A": logText(50), "B": ""},
	}})
	require.Equal(t, 50-body, m.panels[0].YOffset)
	require.True(t, m.panels[0].AtBottom())
	require.Equal(t, 0, m.panels[1].YOffset)

	view := m.View()
	require.Contains(t, view, "line 49")
	require.NotContains(t, view, "line 00")
	require.Contains(t, view, models.EmptyPlaceholder)

	m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	require.Equal(t, 50-2*body, m.panels[0].YOffset)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 50-2*body+1, m.panels[0].YOffset)

	m.Update(eventMsg{event: messages.SnapshotCommitted{
		Cycle:    2,
		Snapshot: models.Snapshot{"A": logText(60), "B": "x"},
	}})
	require.Equal(t, 60-body, m.panels[0].YOffset)
	require.True(t, m.panels[0].AtBottom())
}

func TestModel_ScrollKeysDoNotReachInput(t *testing.T) {
	m := newModel(roster, (&recorder{}).submit, nil)
	typeText(m, "idea")
	for _, k := range []tea.KeyType{tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyTab} {
		m.Update(tea.KeyMsg{Type: k})
	}
	require.Equal(t, "idea", m.input.Value())
}

func TestModel_LoadingChangedUpdatesPlaceholders(t *testing.T) {
	m := newModel(roster, (&recorder{}).submit, nil)
	require.Contains(t, m.View(), models.LoadingPlaceholder)

	m.Update(eventMsg{event: messages.LoadingChanged{Cycle: 0, Loading: false}})
	view := m.View()
	require.NotContains(t, view, models.LoadingPlaceholder)
	require.Contains(t, view, models.EmptyPlaceholder)
}

func TestModel_StatusEvent(t *testing.T) {
	m := newModel(roster, (&recorder{}).submit, nil)
	m.Update(eventMsg{event: messages.StatusChanged{Status: models.ResponseStatus(1, "ok-123")}})
	require.Contains(t, m.View(), "Response: ok-123")
}

func TestModel_SubmitRequiresText(t *testing.T) {
	rec := &recorder{}
	m := newModel(roster, rec.submit, nil)

	typeText(m, "   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Empty(t, rec.ideas)
	require.Equal(t, emptyIdeaHint, m.hint)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	typeText(m, "a wallet app")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"a wallet ap"}, rec.ideas)
	require.Equal(t, "a wallet ap", m.input.Value())
	require.Empty(t, m.hint)
}

func TestModel_FocusCycles(t *testing.T) {
	m := newModel(roster, (&recorder{}).submit, nil)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 1, m.focus)
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 0, m.focus)
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	require.Equal(t, 1, m.focus)
}

func TestModel_QuitsWhenSubscriptionCloses(t *testing.T) {
	events := make(chan messages.Event)
	close(events)
	m := newModel(roster, (&recorder{}).submit, events)

	msg := waitForEvent(m.events)()
	require.Equal(t, closedMsg{}, msg)
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
}
