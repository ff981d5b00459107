package ledger

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/models"
)

// EntryChanges describes an edit to an entry. Nil fields are left unchanged;
// a non-nil empty Note removes the note.
type EntryChanges struct {
	Marker    *string
	TimeOfDay *string // HH:MM format
	Note      *string
}

// Entries returns the normalized entries recorded on date, or nil
func Entries(h models.Habit, date string) []models.Entry {
	rec, ok := NormalizeRecord(h.CheckIns[date])
	if !ok {
		return nil
	}
	return rec.Entries
}

// AddEntry appends a check-in to date, creating the record if needed, and
// increments TotalCheckIns. An empty note means the entry has none.
func AddEntry(h models.Habit, date, marker, timeOfDay, note string) (models.Habit, error) {
	timestamp, err := entryTimestamp(date, timeOfDay)
	if err != nil {
		return h, err
	}

	out := clone(h)
	entries := Entries(out, date)
	entries = append(entries, models.Entry{Marker: marker, Timestamp: timestamp, Note: note})
	out.CheckIns[date] = recordFrom(entries, timestamp)
	out.TotalCheckIns++
	return out, nil
}

// EditEntry applies changes to the entry at index on date
func EditEntry(h models.Habit, date string, index int, changes EntryChanges) (models.Habit, error) {
	if err := validateDate(date); err != nil {
		return h, err
	}
	entries := Entries(h, date)
	if index < 0 || index >= len(entries) {
		return h, entryNotFound(date, index, len(entries))
	}

	entry := entries[index]
	if changes.Marker != nil {
		entry.Marker = *changes.Marker
	}
	if changes.TimeOfDay != nil {
		timestamp, err := entryTimestamp(date, *changes.TimeOfDay)
		if err != nil {
			return h, err
		}
		entry.Timestamp = timestamp
	}
	if changes.Note != nil {
		entry.Note = *changes.Note
	}
	entries[index] = entry

	out := clone(h)
	out.CheckIns[date] = recordFrom(entries, h.CheckIns[date].Timestamp)
	return out, nil
}

// DeleteEntry removes the entry at index on date and decrements
// TotalCheckIns. Removing the last entry removes the date altogether.
func DeleteEntry(h models.Habit, date string, index int) (models.Habit, error) {
	if err := validateDate(date); err != nil {
		return h, err
	}
	entries := Entries(h, date)
	if index < 0 || index >= len(entries) {
		return h, entryNotFound(date, index, len(entries))
	}

	entries = append(entries[:index], entries[index+1:]...)

	out := clone(h)
	if len(entries) == 0 {
		delete(out.CheckIns, date)
	} else {
		out.CheckIns[date] = recordFrom(entries, h.CheckIns[date].Timestamp)
	}
	out.TotalCheckIns--
	return out, nil
}

// MeaningOf looks up the meaning of a marker among the habit's configured
// markers. Unknown markers have no meaning.
func MeaningOf(h models.Habit, marker string) string {
	for _, e := range h.CheckInEmojis {
		if e.Emoji == marker {
			return e.Meaning
		}
	}
	return ""
}

// TimeOfDay extracts HH:MM from an entry timestamp, or "" if it has none
func TimeOfDay(e models.Entry) string {
	t, err := time.Parse(constants.DateTimeFormat, e.Timestamp)
	if err != nil {
		return ""
	}
	return t.Format(constants.TimeFormat)
}

// clone copies the check-in map so mutations never reach the caller's habit.
// Entry slices are copied by NormalizeRecord on read.
func clone(h models.Habit) models.Habit {
	out := h
	out.CheckIns = make(map[string]models.CheckInRecord, len(h.CheckIns)+1)
	for date, rec := range h.CheckIns {
		out.CheckIns[date] = rec
	}
	return out
}

func validateDate(date string) error {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("%w: %q (expected YYYY-MM-DD)", errors.ErrInvalidDate, date)
	}
	return nil
}

func entryTimestamp(date, timeOfDay string) (string, error) {
	if err := validateDate(date); err != nil {
		return "", err
	}
	t, err := time.Parse(constants.TimeFormat, timeOfDay)
	if err != nil {
		return "", fmt.Errorf("%w: time of day %q (expected HH:MM)", errors.ErrInvalidDate, timeOfDay)
	}
	return date + " " + t.Format(constants.TimeFormat), nil
}

func entryNotFound(date string, index, count int) error {
	return fmt.Errorf("%w: index %d on %s (%d entries)", errors.ErrEntryNotFound, index, date, count)
}
