package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/storage"
)

type Context struct {
	Store storage.Provider
	// Out receives command output; nil means stdout
	Out io.Writer
	// Now is the clock used for "today" and record timestamps; nil means time.Now
	Now func() time.Time
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the local calendar date in YYYY-MM-DD form
func (c *Context) Today() string {
	return c.now().Format(constants.DateFormat)
}

// ClockTime returns the local time of day in HH:MM form
func (c *Context) ClockTime() string {
	return c.now().Format(constants.TimeFormat)
}

// Timestamp returns the value stored in createdAt/updatedAt fields
func (c *Context) Timestamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

// Update runs one read-modify-write cycle against the store. fn receives
// the current document and returns the document to persist.
func (c *Context) Update(fn func(models.Document) (models.Document, error)) error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	doc, err := c.Store.ReadDocument()
	if err != nil {
		return err
	}
	doc, err = fn(doc)
	if err != nil {
		return err
	}
	return c.Store.WriteDocument(doc)
}

// UpdateHabit applies fn to the habit named by key and stamps updatedAt
func (c *Context) UpdateHabit(key string, fn func(models.Habit) (models.Habit, error)) (models.Habit, error) {
	var updated models.Habit
	err := c.Update(func(doc models.Document) (models.Document, error) {
		docKey, h, err := LookupHabit(doc, key)
		if err != nil {
			return nil, err
		}
		h, err = fn(h)
		if err != nil {
			return nil, err
		}
		h.UpdatedAt = c.Timestamp()
		doc[docKey] = h
		updated = h
		return doc, nil
	})
	return updated, err
}

// ReadHabits loads the document and returns its habits in display order
func (c *Context) ReadHabits() ([]models.Habit, error) {
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	doc, err := c.Store.ReadDocument()
	if err != nil {
		return nil, err
	}
	habits := doc.Habits()
	SortForDisplay(habits)
	return habits, nil
}

// ResolveHabit finds a habit by document key or ID, then by exact title
func ResolveHabit(doc models.Document, key string) (models.Habit, error) {
	_, h, err := LookupHabit(doc, key)
	return h, err
}

// LookupHabit is ResolveHabit that also returns the document key the habit
// is stored under. Mutations must write back under that key, which can
// differ from h.ID in hand-edited documents.
func LookupHabit(doc models.Document, key string) (string, models.Habit, error) {
	if h, ok := doc[key]; ok {
		return key, h, nil
	}
	for k, h := range doc {
		if h.ID == key {
			return k, h, nil
		}
	}

	var matches []string
	for k, h := range doc {
		if h.Title == key {
			matches = append(matches, k)
		}
	}
	sort.Strings(matches)
	switch len(matches) {
	case 0:
		return "", models.Habit{}, fmt.Errorf("%w: %q", errors.ErrHabitNotFound, key)
	case 1:
		return matches[0], doc[matches[0]], nil
	default:
		return "", models.Habit{}, fmt.Errorf("title %q matches several habits (IDs: %s), use an ID", key, strings.Join(matches, ", "))
	}
}

var priorityRank = map[constants.Priority]int{
	constants.PriorityHigh:   0,
	constants.PriorityMedium: 1,
	constants.PriorityLow:    2,
	constants.PriorityNone:   3,
	"":                       3,
}

// SortForDisplay orders habits by priority (high first), then title, then ID
func SortForDisplay(habits []models.Habit) {
	sort.SliceStable(habits, func(i, j int) bool {
		pi, pj := rank(habits[i].Priority), rank(habits[j].Priority)
		if pi != pj {
			return pi < pj
		}
		ti, tj := strings.ToLower(habits[i].Title), strings.ToLower(habits[j].Title)
		if ti != tj {
			return ti < tj
		}
		return habits[i].ID < habits[j].ID
	})
}

func rank(p constants.Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// ParseWeekdays parses a comma-separated list of weekdays into 0 (Sunday)
// through 6 (Saturday). Names, three-letter abbreviations and numbers work.
func ParseWeekdays(s string) ([]int, error) {
	dayMap := map[string]int{
		"sun": 0, "sunday": 0,
		"mon": 1, "monday": 1,
		"tue": 2, "tuesday": 2,
		"wed": 3, "wednesday": 3,
		"thu": 4, "thursday": 4,
		"fri": 5, "friday": 5,
		"sat": 6, "saturday": 6,
	}

	var weekdays []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, num)
	}
	return weekdays, nil
}

// ParseMonthDays parses a comma-separated list of days of the month (1-31)
func ParseMonthDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 1 || num > 31 {
			return nil, fmt.Errorf("invalid day of month: %s", part)
		}
		days = append(days, num)
	}
	return days, nil
}

// ParseMarker parses "EMOJI=meaning" (meaning optional)
func ParseMarker(s string) (models.CheckInEmoji, error) {
	emoji, meaning, _ := strings.Cut(s, "=")
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return models.CheckInEmoji{}, fmt.Errorf("invalid marker %q: expected EMOJI=meaning", s)
	}
	return models.CheckInEmoji{Emoji: emoji, Meaning: strings.TrimSpace(meaning)}, nil
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FormatFrequency formats a frequency into a human-readable string
func FormatFrequency(freq models.Frequency) string {
	every := func(unit string) string {
		if freq.Interval > 1 {
			return fmt.Sprintf("every %d %ss", freq.Interval, unit)
		}
		return string(freq.Type)
	}

	switch freq.Type {
	case "", constants.FrequencyDaily:
		if freq.Interval > 1 {
			return fmt.Sprintf("every %d days", freq.Interval)
		}
		return "daily"
	case constants.FrequencyWeekly:
		if len(freq.Weekdays) > 0 {
			return "weekly on " + formatWeekdays(freq.Weekdays)
		}
		return every("week")
	case constants.FrequencyMonthly:
		if len(freq.MonthDays) > 0 {
			return "monthly on day " + formatInts(freq.MonthDays)
		}
		return every("month")
	case constants.FrequencyYearly:
		return every("year")
	case constants.FrequencyCustom:
		switch {
		case len(freq.Weekdays) > 0:
			return "custom: " + formatWeekdays(freq.Weekdays)
		case len(freq.MonthDays) > 0:
			return "custom: day " + formatInts(freq.MonthDays)
		default:
			return "custom: any day"
		}
	default:
		return "unknown"
	}
}

func formatWeekdays(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(weekdayNames) {
			names = append(names, weekdayNames[d])
		}
	}
	return strings.Join(names, ",")
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
