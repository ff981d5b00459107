package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/view"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(msg.Width, msg.Height)
		return m, nil
	}

	if m.state == StateNote {
		return m.updateNoteForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.switchTab(1)
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.switchTab(-1)
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Refresh):
		m.clearMessages()
		m.refresh()
		return m, nil
	case key.Matches(keyMsg, m.keys.CheckIn):
		n, _ := strconv.Atoi(keyMsg.String())
		return m.startCheckIn(n - 1)
	case key.Matches(keyMsg, m.keys.Undo):
		m.deleteLastEntry()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(step int) {
	n := len(view.Tabs)
	m.tabIndex = ((m.tabIndex+step)%n + n) % n
	m.clearMessages()
	m.list.ResetSelected()
	m.refresh()
}

func (m *Model) clearMessages() {
	m.status = ""
	m.errMsg = ""
}

// startCheckIn records a check-in with the selected habit's marker at
// index, asking for a note first when the marker wants one.
func (m Model) startCheckIn(index int) (tea.Model, tea.Cmd) {
	m.clearMessages()
	h, ok := m.selectedHabit()
	if !ok {
		return m, nil
	}
	if index < 0 || index >= len(h.CheckInEmojis) {
		m.errMsg = fmt.Sprintf("%s has no marker %d", h.Title, index+1)
		return m, nil
	}

	marker := h.CheckInEmojis[index]
	pending := &pendingCheckIn{
		habitID: h.ID,
		title:   h.Title,
		marker:  marker.Emoji,
		date:    m.entryDate(),
	}
	if !marker.PromptNote {
		m.commitCheckIn(pending, "")
		return m, nil
	}

	m.pending = pending
	m.noteForm = &NoteFormModel{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Note for %s %s", h.Title, marker.Emoji)).
				Placeholder("optional").
				CharLimit(500).
				Value(&m.noteForm.Note),
		),
	)
	m.state = StateNote
	return m, m.form.Init()
}

func (m Model) updateNoteForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.cancelNote()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		pending := m.pending
		note := strings.TrimSpace(m.noteForm.Note)
		m.cancelNote()
		m.commitCheckIn(pending, note)
		return m, nil
	case huh.StateAborted:
		m.cancelNote()
		return m, nil
	}
	return m, cmd
}

func (m *Model) cancelNote() {
	m.state = StateBrowse
	m.form = nil
	m.noteForm = nil
	m.pending = nil
}

// commitCheckIn runs one read-modify-write cycle adding the entry
func (m *Model) commitCheckIn(p *pendingCheckIn, note string) {
	clock := m.ctx.ClockTime()
	h, err := m.ctx.UpdateHabit(p.habitID, func(h models.Habit) (models.Habit, error) {
		return ledger.AddEntry(h, p.date, p.marker, clock, note)
	})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	logger.Info("Recorded check-in", "habit", h.ID, "date", p.date, "marker", p.marker)
	m.status = fmt.Sprintf("Checked in %s %s (%d/%d)", h.Title, p.marker, h.CheckIns[p.date].Count, max(h.Target, 1))
	m.refresh()
}

func (m *Model) deleteLastEntry() {
	m.clearMessages()
	selected, ok := m.selectedHabit()
	if !ok {
		return
	}
	date := m.entryDate()
	entries := ledger.Entries(selected, date)
	if len(entries) == 0 {
		m.errMsg = fmt.Sprintf("%s has no check-ins on %s", selected.Title, date)
		return
	}

	h, err := m.ctx.UpdateHabit(selected.ID, func(h models.Habit) (models.Habit, error) {
		// the stored document may have moved on since the list was built
		return ledger.DeleteEntry(h, date, len(ledger.Entries(h, date))-1)
	})
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	logger.Info("Deleted check-in", "habit", h.ID, "date", date)
	m.status = fmt.Sprintf("Removed last check-in of %s on %s", h.Title, date)
	m.refresh()
}
