package tui

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/completion"
	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/models"
)

// habitItem is one row of the habit list, rendered for a single date
type habitItem struct {
	habit models.Habit
	date  string
}

func (i habitItem) Title() string {
	mark := "○ "
	if completion.IsCompletedOn(i.habit, i.date) {
		mark = "✓ "
	}
	return mark + i.habit.Title
}

func (i habitItem) Description() string {
	entries := ledger.Entries(i.habit, i.date)
	markers := make([]string, len(entries))
	for n, e := range entries {
		markers[n] = e.Marker
	}

	var offered []string
	for n, m := range i.habit.CheckInEmojis {
		if n >= 9 {
			break
		}
		offered = append(offered, fmt.Sprintf("%d:%s", n+1, m.Emoji))
	}

	desc := fmt.Sprintf("%d/%d %s", len(entries), max(i.habit.Target, 1), strings.Join(markers, ""))
	desc += "  " + cli.FormatFrequency(i.habit.Frequency)
	if len(offered) > 0 {
		desc += "  [" + strings.Join(offered, " ") + "]"
	}
	return desc
}

func (i habitItem) FilterValue() string { return i.habit.Title }
