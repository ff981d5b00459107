package view

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitledger/internal/completion"
	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/recurrence"
)

// Tab names one of the habit subsets offered to the user
type Tab string

const (
	TabToday              Tab = "today"
	TabTomorrow           Tab = "tomorrow"
	TabAll                Tab = "all"
	TabTodayCompleted     Tab = "todayCompleted"
	TabYesterdayCompleted Tab = "yesterdayCompleted"
)

// Tabs lists every tab in display order
var Tabs = []Tab{TabToday, TabTomorrow, TabAll, TabTodayCompleted, TabYesterdayCompleted}

// Title returns a human-readable tab label
func (t Tab) Title() string {
	switch t {
	case TabToday:
		return "Today"
	case TabTomorrow:
		return "Tomorrow"
	case TabAll:
		return "All"
	case TabTodayCompleted:
		return "Done today"
	case TabYesterdayCompleted:
		return "Done yesterday"
	default:
		return string(t)
	}
}

// ParseTab accepts a tab name case-insensitively, with or without dashes
func ParseTab(s string) (Tab, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	for _, t := range Tabs {
		if strings.ToLower(string(t)) == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q (expected one of today, tomorrow, all, today-completed, yesterday-completed)", s)
}

// Select returns the habits shown under tab for the given reference date
// (today). The result is in input order; sorting is up to the caller.
func Select(habits []models.Habit, tab Tab, referenceDate string) ([]models.Habit, error) {
	if _, err := recurrence.ParseDate(referenceDate); err != nil {
		return nil, err
	}

	var keep func(models.Habit) (bool, error)
	switch tab {
	case TabAll:
		return append([]models.Habit(nil), habits...), nil
	case TabToday:
		keep = func(h models.Habit) (bool, error) {
			scheduled, err := recurrence.IsScheduledOn(h, referenceDate)
			if err != nil || !scheduled {
				return false, err
			}
			return !completion.IsCompletedOn(h, referenceDate), nil
		}
	case TabTomorrow:
		tomorrow, _ := recurrence.AddDays(referenceDate, 1)
		keep = func(h models.Habit) (bool, error) {
			return recurrence.IsScheduledOn(h, tomorrow)
		}
	case TabTodayCompleted:
		keep = completedOn(referenceDate)
	case TabYesterdayCompleted:
		yesterday, _ := recurrence.AddDays(referenceDate, -1)
		keep = completedOn(yesterday)
	default:
		return nil, fmt.Errorf("unknown tab %q", tab)
	}

	var out []models.Habit
	for _, h := range habits {
		ok, err := keep(h)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, h)
		}
	}
	return out, nil
}

// completedOn ignores the schedule: an off-schedule check-in still counts
func completedOn(date string) func(models.Habit) (bool, error) {
	return func(h models.Habit) (bool, error) {
		return completion.CompletedOn(h, date)
	}
}

// FilterGroups keeps habits belonging to any of groups. An empty selection
// or one containing "all" keeps everything; "none" matches ungrouped habits.
func FilterGroups(habits []models.Habit, groups []string) []models.Habit {
	if len(groups) == 0 {
		return habits
	}
	selected := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g == constants.GroupAll {
			return habits
		}
		selected[g] = true
	}

	var out []models.Habit
	for _, h := range habits {
		group := h.GroupID
		if group == "" {
			group = constants.GroupNone
		}
		if selected[group] {
			out = append(out, h)
		}
	}
	return out
}
