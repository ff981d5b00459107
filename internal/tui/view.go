package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitledger/internal/view"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateNote:
		content = docStyle.Render(m.form.View())
	default:
		content = m.viewList()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	tabs := make([]string, len(view.Tabs))
	for i, t := range view.Tabs {
		if i == m.tabIndex {
			tabs[i] = activeTabStyle.Render(t.Title())
		} else {
			tabs[i] = inactiveTabStyle.Render(t.Title())
		}
	}
	date := dateStyle.Render(m.entryDate())
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, date)...)
}

func (m Model) viewList() string {
	if len(m.list.Items()) == 0 {
		return docStyle.Render(emptyStyle.Render(fmt.Sprintf("No habits for %s.", strings.ToLower(m.Tab().Title()))))
	}
	return docStyle.Render(m.list.View())
}

func (m Model) viewStatus() string {
	switch {
	case m.errMsg != "":
		return dangerStyle.Render(m.errMsg)
	case m.status != "":
		return statusStyle.Render(m.status)
	case m.state == StateNote:
		return warningStyle.Render("enter to save, esc to cancel")
	default:
		return ""
	}
}
