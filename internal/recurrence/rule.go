package recurrence

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/models"
)

// Rule is a compiled repetition rule. Each implementation covers exactly one
// way of scheduling, so a rule built from a day set carries no interval and
// an interval rule carries no day set.
type Rule interface {
	// Matches reports whether date is an occurrence for a habit starting on start.
	// Both arguments are UTC midnights and date is never before start.
	Matches(date, start time.Time) bool
}

type dailyRule struct {
	interval int
}

func (r dailyRule) Matches(date, start time.Time) bool {
	if r.interval <= 1 {
		return true
	}
	return floorMod(daysBetween(start, date), r.interval) == 0
}

type weekdaySetRule struct {
	days [7]bool
}

func (r weekdaySetRule) Matches(date, _ time.Time) bool {
	return r.days[date.Weekday()]
}

type weeklyAnchorRule struct {
	interval int
}

func (r weeklyAnchorRule) Matches(date, start time.Time) bool {
	if date.Weekday() != start.Weekday() {
		return false
	}
	if r.interval <= 1 {
		return true
	}
	weeks := floorDiv(daysBetween(start, date), 7)
	return floorMod(weeks, r.interval) == 0
}

type monthDaySetRule struct {
	days [32]bool
}

func (r monthDaySetRule) Matches(date, _ time.Time) bool {
	return r.days[date.Day()]
}

type monthlyAnchorRule struct {
	interval int
}

func (r monthlyAnchorRule) Matches(date, start time.Time) bool {
	if date.Day() != start.Day() {
		return false
	}
	if r.interval <= 1 {
		return true
	}
	months := (date.Year()*12 + int(date.Month())) - (start.Year()*12 + int(start.Month()))
	return floorMod(months, r.interval) == 0
}

type yearlyAnchorRule struct {
	interval int
}

func (r yearlyAnchorRule) Matches(date, start time.Time) bool {
	if date.Month() != start.Month() || date.Day() != start.Day() {
		return false
	}
	if r.interval <= 1 {
		return true
	}
	return floorMod(date.Year()-start.Year(), r.interval) == 0
}

// anyDayRule is a custom frequency with nothing configured
type anyDayRule struct{}

func (anyDayRule) Matches(_, _ time.Time) bool { return true }

// Compile turns a stored frequency into a Rule.
//
// A missing type compiles as plain daily so records written before
// frequencies existed keep working. Any other unknown type, a negative
// interval, or a day outside its range is rejected with
// ErrInvalidRecurrenceRule.
func Compile(freq models.Frequency) (Rule, error) {
	if freq.Interval < 0 {
		return nil, fmt.Errorf("%w: negative interval %d", errors.ErrInvalidRecurrenceRule, freq.Interval)
	}

	switch freq.Type {
	case "", constants.FrequencyDaily:
		return dailyRule{interval: freq.Interval}, nil
	case constants.FrequencyWeekly:
		if len(freq.Weekdays) > 0 {
			warnIgnoredInterval(freq)
			return newWeekdaySet(freq.Weekdays)
		}
		return weeklyAnchorRule{interval: freq.Interval}, nil
	case constants.FrequencyMonthly:
		if len(freq.MonthDays) > 0 {
			warnIgnoredInterval(freq)
			return newMonthDaySet(freq.MonthDays)
		}
		return monthlyAnchorRule{interval: freq.Interval}, nil
	case constants.FrequencyYearly:
		return yearlyAnchorRule{interval: freq.Interval}, nil
	case constants.FrequencyCustom:
		if len(freq.Weekdays) > 0 {
			return newWeekdaySet(freq.Weekdays)
		}
		if len(freq.MonthDays) > 0 {
			return newMonthDaySet(freq.MonthDays)
		}
		return anyDayRule{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown frequency type %q", errors.ErrInvalidRecurrenceRule, freq.Type)
	}
}

func newWeekdaySet(weekdays []int) (Rule, error) {
	var r weekdaySetRule
	for _, wd := range weekdays {
		if wd < 0 || wd > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range 0-6", errors.ErrInvalidRecurrenceRule, wd)
		}
		r.days[wd] = true
	}
	return r, nil
}

func newMonthDaySet(monthDays []int) (Rule, error) {
	var r monthDaySetRule
	for _, d := range monthDays {
		if d < 1 || d > 31 {
			return nil, fmt.Errorf("%w: month day %d out of range 1-31", errors.ErrInvalidRecurrenceRule, d)
		}
		r.days[d] = true
	}
	return r, nil
}

// The editor never stores both, but older documents might.
func warnIgnoredInterval(freq models.Frequency) {
	if freq.Interval > 1 {
		logger.Component("recurrence").Warn("day set overrides interval",
			"type", freq.Type, "interval", freq.Interval)
	}
}

// daysBetween counts calendar days between two UTC midnights. It works on
// Unix seconds because time.Duration overflows past about 292 years.
func daysBetween(from, to time.Time) int {
	const secondsPerDay = 24 * 60 * 60
	return int(to.Unix()/secondsPerDay - from.Unix()/secondsPerDay)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return ((a % b) + b) % b
}
