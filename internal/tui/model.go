package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/recurrence"
	"github.com/julianstephens/habitledger/internal/view"
)

type SessionState int

const (
	StateBrowse SessionState = iota
	StateNote
)

// NoteFormModel is bound to the note form; it lives behind a pointer so
// the form keeps writing to it across model copies.
type NoteFormModel struct {
	Note string
}

// pendingCheckIn is a check-in waiting for its note
type pendingCheckIn struct {
	habitID string
	title   string
	marker  string
	date    string
}

type Model struct {
	ctx      *cli.Context
	state    SessionState
	tabIndex int
	keys     KeyMap
	help     help.Model
	list     list.Model
	form     *huh.Form
	noteForm *NoteFormModel
	pending  *pendingCheckIn
	status   string
	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(ctx *cli.Context) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("habit", "habits")
	l.DisableQuitKeybindings()

	m := Model{
		ctx:   ctx,
		state: StateBrowse,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		list:  l,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Tab returns the active tab
func (m Model) Tab() view.Tab {
	return view.Tabs[m.tabIndex]
}

// entryDate is the date check-ins and deletions apply to on the active tab
func (m Model) entryDate() string {
	today := m.ctx.Today()
	if m.Tab() == view.TabYesterdayCompleted {
		yesterday, err := recurrence.AddDays(today, -1)
		if err == nil {
			return yesterday
		}
	}
	return today
}

// refresh reloads the document and rebuilds the list for the active tab
func (m *Model) refresh() {
	habits, err := m.ctx.ReadHabits()
	if err != nil {
		m.errMsg = err.Error()
		m.list.SetItems(nil)
		return
	}
	selected, err := view.Select(habits, m.Tab(), m.ctx.Today())
	if err != nil {
		m.errMsg = err.Error()
		m.list.SetItems(nil)
		return
	}

	date := m.entryDate()
	items := make([]list.Item, len(selected))
	for i, h := range selected {
		items[i] = habitItem{habit: h, date: date}
	}
	m.list.SetItems(items)
	if idx := m.list.Index(); idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

func (m Model) selectedHabit() (models.Habit, bool) {
	item, ok := m.list.SelectedItem().(habitItem)
	if !ok {
		return models.Habit{}, false
	}
	return item.habit, true
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	h, v := docStyle.GetFrameSize()
	// tab bar, status line and help
	m.list.SetSize(width-h, max(height-v-4, 1))
	m.help.Width = width
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.CheckIn, m.keys.Undo, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Refresh}
	actions := []key.Binding{m.keys.CheckIn, m.keys.Undo}
	return [][]key.Binding{global, navigation, actions}
}
