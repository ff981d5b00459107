package recurrence

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/models"
)

// IsScheduledOn determines whether date (YYYY-MM-DD) is an occurrence of the
// habit's frequency. Dates outside [StartDate, EndDate] are never scheduled.
func IsScheduledOn(habit models.Habit, date string) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	start, err := ParseDate(habit.StartDate)
	if err != nil {
		return false, fmt.Errorf("habit %s start date: %w", habit.ID, err)
	}

	if day.Before(start) {
		return false, nil
	}
	if habit.EndDate != "" {
		end, err := ParseDate(habit.EndDate)
		if err != nil {
			return false, fmt.Errorf("habit %s end date: %w", habit.ID, err)
		}
		if day.After(end) {
			return false, nil
		}
	}

	rule, err := Compile(habit.Frequency)
	if err != nil {
		return false, fmt.Errorf("habit %s: %w", habit.ID, err)
	}
	return rule.Matches(day, start), nil
}

// Occurrences lists the scheduled dates in [from, to], inclusive
func Occurrences(habit models.Habit, from, to string) ([]string, error) {
	first, err := ParseDate(from)
	if err != nil {
		return nil, err
	}
	last, err := ParseDate(to)
	if err != nil {
		return nil, err
	}

	var dates []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(constants.DateFormat)
		ok, err := IsScheduledOn(habit, date)
		if err != nil {
			return nil, err
		}
		if ok {
			dates = append(dates, date)
		}
	}
	return dates, nil
}

// ParseDate parses a YYYY-MM-DD calendar date as a UTC midnight
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", errors.ErrInvalidDate, date)
	}
	return t, nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}
