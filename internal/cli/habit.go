package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitledger/internal/completion"
	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/recurrence"
	"github.com/julianstephens/habitledger/internal/validation"
	"github.com/julianstephens/habitledger/internal/view"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits for a tab."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit with its recent check-ins."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	Marker HabitMarkerCmd `cmd:"" help:"Manage a habit's check-in markers."`
}

type HabitAddCmd struct {
	Title     string   `arg:"" help:"Habit title."`
	Target    int      `help:"Check-ins needed for a day to count as completed." default:"1"`
	Freq      string   `help:"Repetition: daily, weekly, monthly, yearly or custom." enum:"daily,weekly,monthly,yearly,custom" default:"daily"`
	Interval  int      `help:"Repeat every N periods, counted from the start date."`
	Weekdays  string   `help:"Comma-separated weekdays (e.g. mon,wed,fri) for weekly or custom habits."`
	MonthDays string   `help:"Comma-separated days of the month (e.g. 1,15) for monthly or custom habits." name:"month-days"`
	Start     string   `help:"Start date in YYYY-MM-DD format (default: today)."`
	End       string   `help:"Optional end date in YYYY-MM-DD format."`
	Marker    []string `help:"Check-in marker as EMOJI=meaning; repeatable (default: ✅ done, ❌ missed, ⭕️ partial)."`
	Priority  string   `help:"Display priority." enum:"high,medium,low,none" default:"none"`
	Group     string   `help:"Group name used by list filters."`
	Reminder  string   `help:"Reminder time in HH:MM format (stored only)."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	habit, err := c.build(ctx)
	if err != nil {
		return err
	}

	result := validation.New().ValidateHabit(habit)
	if err := result.Err(); err != nil {
		return err
	}

	err = ctx.Update(func(doc models.Document) (models.Document, error) {
		if _, err := ResolveHabit(doc, habit.Title); err == nil {
			return nil, fmt.Errorf("habit with title %q already exists", habit.Title)
		}
		doc[habit.ID] = habit
		return doc, nil
	})
	if err != nil {
		return err
	}

	logger.Info("Added habit", "id", habit.ID, "title", habit.Title)
	ctx.Printf("Added habit: %s (%s, ID: %s)\n", habit.Title, FormatFrequency(habit.Frequency), habit.ID)
	return nil
}

func (c *HabitAddCmd) build(ctx *Context) (models.Habit, error) {
	freq := models.Frequency{
		Type:     constants.FrequencyType(c.Freq),
		Interval: c.Interval,
	}
	if c.Weekdays != "" {
		days, err := ParseWeekdays(c.Weekdays)
		if err != nil {
			return models.Habit{}, err
		}
		freq.Weekdays = days
	}
	if c.MonthDays != "" {
		days, err := ParseMonthDays(c.MonthDays)
		if err != nil {
			return models.Habit{}, err
		}
		freq.MonthDays = days
	}
	// the editor stores one or the other
	if len(freq.Weekdays) > 0 && len(freq.MonthDays) > 0 {
		return models.Habit{}, fmt.Errorf("--weekdays and --month-days cannot be combined")
	}
	if freq.Interval > 0 && (len(freq.Weekdays) > 0 || len(freq.MonthDays) > 0) {
		return models.Habit{}, fmt.Errorf("--interval cannot be combined with --weekdays or --month-days")
	}

	var markers []models.CheckInEmoji
	for _, m := range c.Marker {
		marker, err := ParseMarker(m)
		if err != nil {
			return models.Habit{}, err
		}
		markers = append(markers, marker)
	}
	if len(markers) == 0 {
		for _, d := range constants.DefaultMarkers {
			markers = append(markers, models.CheckInEmoji{Emoji: d.Emoji, Meaning: d.Meaning})
		}
	}

	start := c.Start
	if start == "" {
		start = ctx.Today()
	}
	priority := constants.Priority(c.Priority)
	if priority == constants.PriorityNone {
		priority = ""
	}

	now := ctx.Timestamp()
	return models.Habit{
		ID:            uuid.New().String(),
		Title:         strings.TrimSpace(c.Title),
		Target:        c.Target,
		Frequency:     freq,
		StartDate:     start,
		EndDate:       c.End,
		ReminderTime:  c.Reminder,
		GroupID:       c.Group,
		Priority:      priority,
		CheckInEmojis: markers,
		CheckIns:      map[string]models.CheckInRecord{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

type HabitListCmd struct {
	Tab    string   `help:"Tab to list: today, tomorrow, all, today-completed or yesterday-completed." default:"today"`
	Date   string   `help:"Reference date in YYYY-MM-DD format (default: today)."`
	Group  []string `help:"Only show habits in these groups; 'none' selects ungrouped habits."`
	ShowID bool     `help:"Show habit IDs." name:"show-ids"`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	tab, err := view.ParseTab(c.Tab)
	if err != nil {
		return err
	}
	date := c.Date
	if date == "" {
		date = ctx.Today()
	}

	habits, err := ctx.ReadHabits()
	if err != nil {
		return err
	}
	habits = view.FilterGroups(habits, c.Group)
	selected, err := view.Select(habits, tab, date)
	if err != nil {
		return err
	}

	if len(selected) == 0 {
		ctx.Printf("No habits for %s (%s).\n", strings.ToLower(tab.Title()), date)
		return nil
	}

	ctx.Printf("%s (%s):\n", tab.Title(), date)
	for _, h := range selected {
		rec, _ := ledger.NormalizeRecord(h.CheckIns[date])
		status := "[ ]"
		if completion.IsCompletedOn(h, date) {
			status = "[x]"
		}
		idStr := ""
		if c.ShowID {
			idStr = fmt.Sprintf(" (ID: %s)", h.ID)
		}
		ctx.Printf("  %s %s%s - %d/%d %s", status, h.Title, idStr, rec.Count, max(h.Target, 1), strings.Join(rec.Status, ""))
		if h.Priority != "" && h.Priority != constants.PriorityNone {
			ctx.Printf(" [%s]", h.Priority)
		}
		ctx.Println()
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Days  int    `help:"Number of days of history to show." default:"14"`
	Date  string `help:"Last day of the history in YYYY-MM-DD format (default: today)."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		return err
	}
	h, err := ResolveHabit(doc, c.Habit)
	if err != nil {
		return err
	}

	end := c.Date
	if end == "" {
		end = ctx.Today()
	}
	days := c.Days
	if days < 1 {
		days = constants.DefaultLogDays
	}
	start, err := recurrence.AddDays(end, -(days - 1))
	if err != nil {
		return err
	}

	ctx.Printf("%s (ID: %s)\n", h.Title, h.ID)
	ctx.Printf("  Frequency: %s\n", FormatFrequency(h.Frequency))
	ctx.Printf("  Target:    %d per day\n", max(h.Target, 1))
	window := h.StartDate
	if h.EndDate != "" {
		window += " to " + h.EndDate
	} else {
		window += " onward"
	}
	ctx.Printf("  Active:    %s\n", window)
	if h.GroupID != "" {
		ctx.Printf("  Group:     %s\n", h.GroupID)
	}
	if h.Priority != "" {
		ctx.Printf("  Priority:  %s\n", h.Priority)
	}
	if h.ReminderTime != "" {
		ctx.Printf("  Reminder:  %s\n", h.ReminderTime)
	}
	var markers []string
	for _, m := range h.CheckInEmojis {
		label := m.Emoji
		if m.Meaning != "" {
			label += " " + m.Meaning
		}
		if m.PromptNote {
			label += " (note)"
		}
		markers = append(markers, label)
	}
	ctx.Printf("  Markers:   %s\n", strings.Join(markers, ", "))

	ctx.Printf("\nLast %d days:\n", days)
	scheduledDates, err := recurrence.Occurrences(h, start, end)
	if err != nil {
		return err
	}
	scheduled := make(map[string]bool, len(scheduledDates))
	for _, d := range scheduledDates {
		scheduled[d] = true
	}
	for i := 0; i < days; i++ {
		date, _ := recurrence.AddDays(start, i)
		entries := ledger.Entries(h, date)
		if len(entries) == 0 {
			if scheduled[date] {
				ctx.Printf("  %s  .\n", date)
			}
			continue
		}

		mark := " "
		if completion.IsCompletedOn(h, date) {
			mark = "x"
		}
		ctx.Printf("  %s %s", date, mark)
		for idx, e := range entries {
			ctx.Printf(" [%d] %s %s", idx, e.Marker, ledger.TimeOfDay(e))
			if e.Note != "" {
				ctx.Printf(" %q", e.Note)
			}
		}
		ctx.Println()
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	var deleted models.Habit
	err := ctx.Update(func(doc models.Document) (models.Document, error) {
		docKey, h, err := LookupHabit(doc, c.Habit)
		if err != nil {
			return nil, err
		}
		delete(doc, docKey)
		deleted = h
		return doc, nil
	})
	if err != nil {
		return err
	}

	logger.Info("Deleted habit", "id", deleted.ID, "title", deleted.Title)
	ctx.Printf("Deleted habit: %s\n", deleted.Title)
	return nil
}

type HabitMarkerCmd struct {
	Add    HabitMarkerAddCmd    `cmd:"" help:"Add a check-in marker to a habit."`
	Remove HabitMarkerRemoveCmd `cmd:"" help:"Remove a check-in marker from a habit."`
}

type HabitMarkerAddCmd struct {
	Habit      string `arg:"" help:"Habit ID or title."`
	Emoji      string `arg:"" help:"Marker emoji."`
	Meaning    string `help:"What the marker means."`
	PromptNote bool   `help:"Ask for a note when checking in with this marker." name:"prompt-note"`
}

func (c *HabitMarkerAddCmd) Run(ctx *Context) error {
	emoji := strings.TrimSpace(c.Emoji)
	if emoji == "" {
		return fmt.Errorf("marker cannot be empty")
	}

	h, err := ctx.UpdateHabit(c.Habit, func(h models.Habit) (models.Habit, error) {
		markers := append([]models.CheckInEmoji(nil), h.CheckInEmojis...)
		for i, m := range markers {
			if m.Emoji == emoji {
				// re-adding updates meaning and prompt
				markers[i].Meaning = c.Meaning
				markers[i].PromptNote = c.PromptNote
				h.CheckInEmojis = markers
				return h, nil
			}
		}
		h.CheckInEmojis = append(markers, models.CheckInEmoji{
			Emoji:      emoji,
			Meaning:    c.Meaning,
			PromptNote: c.PromptNote,
		})
		return h, nil
	})
	if err != nil {
		return err
	}

	ctx.Printf("Habit %s now offers %d marker(s)\n", h.Title, len(h.CheckInEmojis))
	return nil
}

type HabitMarkerRemoveCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Emoji string `arg:"" help:"Marker emoji."`
}

// Run removes the marker from the offered set. Entries already recorded
// with it keep their marker.
func (c *HabitMarkerRemoveCmd) Run(ctx *Context) error {
	h, err := ctx.UpdateHabit(c.Habit, func(h models.Habit) (models.Habit, error) {
		kept := make([]models.CheckInEmoji, 0, len(h.CheckInEmojis))
		for _, m := range h.CheckInEmojis {
			if m.Emoji != c.Emoji {
				kept = append(kept, m)
			}
		}
		if len(kept) == len(h.CheckInEmojis) {
			return h, fmt.Errorf("habit %s has no marker %s", h.Title, c.Emoji)
		}
		if len(kept) == 0 {
			return h, fmt.Errorf("%w: %s", errors.ErrLastMarker, h.Title)
		}
		h.CheckInEmojis = kept
		return h, nil
	})
	if err != nil {
		return err
	}

	ctx.Printf("Removed marker %s from %s\n", c.Emoji, h.Title)
	return nil
}
