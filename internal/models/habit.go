package models

import "github.com/julianstephens/habitledger/internal/constants"

// Frequency is the stored repetition rule of a habit. Interval, Weekdays and
// MonthDays are optional and only meaningful for some types; the recurrence
// package compiles this shape into an exclusive rule before evaluating it.
type Frequency struct {
	Type      constants.FrequencyType `json:"type,omitempty"`
	Interval  int                     `json:"interval,omitempty"`
	Weekdays  []int                   `json:"weekdays,omitempty"`  // 0=Sunday .. 6=Saturday
	MonthDays []int                   `json:"monthDays,omitempty"` // 1..31
}

// CheckInEmoji is a status marker a habit offers for tagging check-ins
type CheckInEmoji struct {
	Emoji      string `json:"emoji"`
	Meaning    string `json:"meaning"`
	PromptNote bool   `json:"promptNote,omitempty"`
}

type Habit struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Target        int                      `json:"target"`
	Frequency     Frequency                `json:"frequency"`
	StartDate     string                   `json:"startDate"`         // YYYY-MM-DD format
	EndDate       string                   `json:"endDate,omitempty"` // YYYY-MM-DD format
	ReminderTime  string                   `json:"reminderTime,omitempty"`
	GroupID       string                   `json:"groupId,omitempty"`
	Priority      constants.Priority       `json:"priority,omitempty"`
	CheckInEmojis []CheckInEmoji           `json:"checkInEmojis"`
	CheckIns      map[string]CheckInRecord `json:"checkIns"` // date (YYYY-MM-DD) -> record
	TotalCheckIns int                      `json:"totalCheckIns"`
	CreatedAt     string                   `json:"createdAt"`
	UpdatedAt     string                   `json:"updatedAt"`
}

// Document is the persisted habit collection keyed by habit ID
type Document map[string]Habit

// Habits returns the document's habits in no particular order
func (d Document) Habits() []Habit {
	habits := make([]Habit, 0, len(d))
	for _, h := range d {
		habits = append(habits, h)
	}
	return habits
}
