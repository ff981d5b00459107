package recurrence

import (
	"errors"
	"reflect"
	"testing"

	"github.com/julianstephens/habitledger/internal/constants"
	herrors "github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/models"
)

func habitWith(freq models.Frequency, start, end string) models.Habit {
	return models.Habit{
		ID:        "h1",
		Title:     "Test habit",
		Target:    1,
		Frequency: freq,
		StartDate: start,
		EndDate:   end,
	}
}

func mustScheduled(t *testing.T, h models.Habit, date string) bool {
	t.Helper()
	ok, err := IsScheduledOn(h, date)
	if err != nil {
		t.Fatalf("IsScheduledOn(%s) returned error: %v", date, err)
	}
	return ok
}

func TestIsScheduledOn_DailyEveryDayInWindow(t *testing.T) {
	h := habitWith(models.Frequency{Type: constants.FrequencyDaily}, "2024-01-01", "2024-03-31")

	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-02-29", "2024-03-31"} {
		if !mustScheduled(t, h, date) {
			t.Errorf("expected daily habit to be scheduled on %s", date)
		}
	}
	if mustScheduled(t, h, "2023-12-31") {
		t.Error("expected no occurrence before the start date")
	}
	if mustScheduled(t, h, "2024-04-01") {
		t.Error("expected no occurrence after the end date")
	}
}

func TestIsScheduledOn_DailyWithoutEndDate(t *testing.T) {
	h := habitWith(models.Frequency{Type: constants.FrequencyDaily}, "2024-01-01", "")
	dates, err := Occurrences(h, "2024-01-01", "2025-12-31")
	if err != nil {
		t.Fatalf("Occurrences() failed: %v", err)
	}
	if len(dates) != 366+365 {
		t.Errorf("expected every day to be scheduled, got %d occurrences", len(dates))
	}
}

func TestIsScheduledOn_DailyInterval(t *testing.T) {
	h := habitWith(models.Frequency{Type: constants.FrequencyDaily, Interval: 3}, "2024-01-01", "")

	tests := map[string]bool{
		"2024-01-01": true,
		"2024-01-02": false,
		"2024-01-03": false,
		"2024-01-04": true,
		"2024-01-07": true,
		"2024-03-01": true, // 60 days after start
	}
	for date, want := range tests {
		if got := mustScheduled(t, h, date); got != want {
			t.Errorf("IsScheduledOn(%s) = %v, want %v", date, got, want)
		}
	}
}

func TestIsScheduledOn_IntervalOverCenturies(t *testing.T) {
	// more than 292 years of days, beyond what time.Duration can hold
	daily := habitWith(models.Frequency{Type: constants.FrequencyDaily, Interval: 2}, "1700-01-01", "")
	weekly := habitWith(models.Frequency{Type: constants.FrequencyWeekly, Interval: 2}, "1700-01-07", "")

	tests := []struct {
		habit models.Habit
		date  string
		want  bool
	}{
		{daily, "2024-01-01", true},
		{daily, "2024-01-02", false},
		{weekly, "2024-01-04", false},
		{weekly, "2024-01-11", true},
		{weekly, "2024-01-18", false},
	}
	for _, tt := range tests {
		if got := mustScheduled(t, tt.habit, tt.date); got != tt.want {
			t.Errorf("IsScheduledOn(%s from %s) = %v, want %v", tt.date, tt.habit.StartDate, got, tt.want)
		}
	}
}

func TestIsScheduledOn_Weekly(t *testing.T) {
	tests := []struct {
		name  string
		freq  models.Frequency
		dates map[string]bool
	}{
		{
			name: "weekday set ignores distance from start",
			freq: models.Frequency{Type: constants.FrequencyWeekly, Weekdays: []int{1, 3, 5}},
			dates: map[string]bool{
				"2024-06-03": true,  // Monday
				"2024-06-05": true,  // Wednesday
				"2024-06-06": false, // Thursday
				"2024-06-07": true,  // Friday
				"2024-06-09": false, // Sunday
			},
		},
		{
			name: "same weekday as start",
			freq: models.Frequency{Type: constants.FrequencyWeekly},
			dates: map[string]bool{
				"2024-01-08": true,
				"2024-01-09": false,
				"2024-01-15": true,
			},
		},
		{
			name: "every second week",
			freq: models.Frequency{Type: constants.FrequencyWeekly, Interval: 2},
			dates: map[string]bool{
				"2024-01-01": true,
				"2024-01-08": false,
				"2024-01-15": true,
				"2024-01-16": false,
				"2024-01-29": true,
			},
		},
		{
			name: "weekday set wins over interval",
			freq: models.Frequency{Type: constants.FrequencyWeekly, Weekdays: []int{1}, Interval: 2},
			dates: map[string]bool{
				"2024-01-08": true,
				"2024-01-15": true,
				"2024-01-10": false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := habitWith(tt.freq, "2024-01-01", "") // a Monday
			for date, want := range tt.dates {
				if got := mustScheduled(t, h, date); got != want {
					t.Errorf("IsScheduledOn(%s) = %v, want %v", date, got, want)
				}
			}
		})
	}
}

func TestIsScheduledOn_Monthly(t *testing.T) {
	tests := []struct {
		name  string
		freq  models.Frequency
		start string
		dates map[string]bool
	}{
		{
			name:  "month day set",
			freq:  models.Frequency{Type: constants.FrequencyMonthly, MonthDays: []int{1, 15}},
			start: "2024-01-20",
			dates: map[string]bool{
				"2024-02-01": true,
				"2024-02-14": false,
				"2024-02-15": true,
			},
		},
		{
			name:  "same day of month skips short months",
			freq:  models.Frequency{Type: constants.FrequencyMonthly},
			start: "2024-01-31",
			dates: map[string]bool{
				"2024-02-29": false,
				"2024-03-31": true,
				"2024-04-30": false,
			},
		},
		{
			name:  "every third month",
			freq:  models.Frequency{Type: constants.FrequencyMonthly, Interval: 3},
			start: "2024-01-10",
			dates: map[string]bool{
				"2024-02-10": false,
				"2024-04-10": true,
				"2024-04-11": false,
				"2025-01-10": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := habitWith(tt.freq, tt.start, "")
			for date, want := range tt.dates {
				if got := mustScheduled(t, h, date); got != want {
					t.Errorf("IsScheduledOn(%s) = %v, want %v", date, got, want)
				}
			}
		})
	}
}

func TestIsScheduledOn_Yearly(t *testing.T) {
	leap := habitWith(models.Frequency{Type: constants.FrequencyYearly}, "2024-02-29", "")
	if mustScheduled(t, leap, "2025-02-28") {
		t.Error("expected Feb 29 habit to skip non-leap years")
	}
	if !mustScheduled(t, leap, "2028-02-29") {
		t.Error("expected Feb 29 habit to occur in 2028")
	}

	biennial := habitWith(models.Frequency{Type: constants.FrequencyYearly, Interval: 2}, "2024-05-05", "")
	if mustScheduled(t, biennial, "2025-05-05") {
		t.Error("expected no occurrence in odd year")
	}
	if !mustScheduled(t, biennial, "2026-05-05") {
		t.Error("expected occurrence two years after start")
	}
	if mustScheduled(t, biennial, "2026-05-06") {
		t.Error("expected no occurrence on a different day")
	}
}

func TestIsScheduledOn_Custom(t *testing.T) {
	weekend := habitWith(models.Frequency{Type: constants.FrequencyCustom, Weekdays: []int{0, 6}}, "2024-01-01", "")
	if !mustScheduled(t, weekend, "2024-01-06") {
		t.Error("expected Saturday to be scheduled")
	}
	if mustScheduled(t, weekend, "2024-01-08") {
		t.Error("expected Monday not to be scheduled")
	}

	tenth := habitWith(models.Frequency{Type: constants.FrequencyCustom, MonthDays: []int{10}}, "2024-01-01", "")
	if !mustScheduled(t, tenth, "2024-03-10") {
		t.Error("expected the 10th to be scheduled")
	}
	if mustScheduled(t, tenth, "2024-03-11") {
		t.Error("expected the 11th not to be scheduled")
	}

	unconstrained := habitWith(models.Frequency{Type: constants.FrequencyCustom}, "2024-01-01", "")
	if !mustScheduled(t, unconstrained, "2024-07-19") {
		t.Error("expected custom frequency without constraints to always be scheduled")
	}
}

func TestIsScheduledOn_MissingTypeDefaultsToDaily(t *testing.T) {
	h := habitWith(models.Frequency{}, "2024-01-01", "")
	if !mustScheduled(t, h, "2024-01-02") {
		t.Error("expected legacy habit without frequency type to behave as daily")
	}
}

func TestIsScheduledOn_Errors(t *testing.T) {
	tests := []struct {
		name    string
		habit   models.Habit
		date    string
		wantErr error
	}{
		{
			name:    "unknown frequency type",
			habit:   habitWith(models.Frequency{Type: "hourly"}, "2024-01-01", ""),
			date:    "2024-01-02",
			wantErr: herrors.ErrInvalidRecurrenceRule,
		},
		{
			name:    "weekday out of range",
			habit:   habitWith(models.Frequency{Type: constants.FrequencyWeekly, Weekdays: []int{7}}, "2024-01-01", ""),
			date:    "2024-01-02",
			wantErr: herrors.ErrInvalidRecurrenceRule,
		},
		{
			name:    "month day out of range",
			habit:   habitWith(models.Frequency{Type: constants.FrequencyMonthly, MonthDays: []int{0}}, "2024-01-01", ""),
			date:    "2024-01-02",
			wantErr: herrors.ErrInvalidRecurrenceRule,
		},
		{
			name:    "malformed date",
			habit:   habitWith(models.Frequency{Type: constants.FrequencyDaily}, "2024-01-01", ""),
			date:    "03/01/2024",
			wantErr: herrors.ErrInvalidDate,
		},
		{
			name:    "impossible date",
			habit:   habitWith(models.Frequency{Type: constants.FrequencyDaily}, "2024-01-01", ""),
			date:    "2024-02-30",
			wantErr: herrors.ErrInvalidDate,
		},
		{
			name:    "malformed start date",
			habit:   habitWith(models.Frequency{Type: constants.FrequencyDaily}, "someday", ""),
			date:    "2024-01-02",
			wantErr: herrors.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IsScheduledOn(tt.habit, tt.date)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestOccurrences(t *testing.T) {
	h := habitWith(models.Frequency{Type: constants.FrequencyDaily, Interval: 3}, "2024-01-01", "")
	got, err := Occurrences(h, "2024-01-01", "2024-01-10")
	if err != nil {
		t.Fatalf("Occurrences() failed: %v", err)
	}
	want := []string{"2024-01-01", "2024-01-04", "2024-01-07", "2024-01-10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Occurrences() = %v, want %v", got, want)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-02-28", 2)
	if err != nil {
		t.Fatalf("AddDays() failed: %v", err)
	}
	if got != "2024-03-01" {
		t.Errorf("AddDays() = %s, want 2024-03-01", got)
	}
	if _, err := AddDays("bad", 1); !errors.Is(err, herrors.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
