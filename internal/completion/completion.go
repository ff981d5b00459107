package completion

import (
	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/recurrence"
)

// IsCompletedOn reports whether the habit has at least Target entries on
// date. A date without a record is never completed. A malformed date has
// no record either, so callers taking dates from input validate them first
// or use CompletedOn.
func IsCompletedOn(h models.Habit, date string) bool {
	rec, ok := ledger.NormalizeRecord(h.CheckIns[date])
	if !ok {
		return false
	}
	return rec.Count >= target(h)
}

// CompletedOn is IsCompletedOn that rejects a malformed date with
// errors.ErrInvalidDate
func CompletedOn(h models.Habit, date string) (bool, error) {
	if _, err := recurrence.ParseDate(date); err != nil {
		return false, err
	}
	return IsCompletedOn(h, date), nil
}

// CurrentStreak counts consecutive days with a check-in record, walking
// backward from asOf. Any record counts, whether or not it reached the
// target; a day without a record ends the walk.
func CurrentStreak(h models.Habit, asOf string) (int, error) {
	day, err := recurrence.ParseDate(asOf)
	if err != nil {
		return 0, err
	}

	streak := 0
	// a streak can never be longer than the number of recorded dates
	for streak < len(h.CheckIns) {
		date := day.AddDate(0, 0, -streak).Format(dateFormat)
		if !hasRecord(h, date) {
			break
		}
		streak++
	}
	return streak, nil
}

func hasRecord(h models.Habit, date string) bool {
	_, ok := ledger.NormalizeRecord(h.CheckIns[date])
	return ok
}

func target(h models.Habit) int {
	if h.Target < 1 {
		return 1
	}
	return h.Target
}
