package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/models"
)

func validHabit() models.Habit {
	return models.Habit{
		ID:        "h1",
		Title:     "Read",
		Target:    1,
		Frequency: models.Frequency{Type: constants.FrequencyWeekly, Weekdays: []int{1, 3}},
		StartDate: "2024-01-01",
		CheckInEmojis: []models.CheckInEmoji{
			{Emoji: "✅", Meaning: "done"},
			{Emoji: "❌", Meaning: "missed"},
		},
	}
}

func hasType(result ValidationResult, t ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == t {
			return true
		}
	}
	return false
}

func TestValidateHabit_Valid(t *testing.T) {
	result := New().ValidateHabit(validHabit())
	if result.HasConflicts() {
		t.Errorf("Expected no conflicts, got: %s", result.FormatReport())
	}
	if err := result.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestValidateHabit_Conflicts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Habit)
		want   ConflictType
	}{
		{"empty title", func(h *models.Habit) { h.Title = "  " }, ConflictMissingTitle},
		{"zero target", func(h *models.Habit) { h.Target = 0 }, ConflictInvalidTarget},
		{"no markers", func(h *models.Habit) { h.CheckInEmojis = nil }, ConflictMissingMarkers},
		{"blank marker", func(h *models.Habit) { h.CheckInEmojis[1].Emoji = "" }, ConflictMissingMarkers},
		{"duplicate marker", func(h *models.Habit) { h.CheckInEmojis[1].Emoji = "✅" }, ConflictDuplicateMarker},
		{"bad start", func(h *models.Habit) { h.StartDate = "2024-1-1" }, ConflictInvalidDateTime},
		{"bad end", func(h *models.Habit) { h.EndDate = "soon" }, ConflictInvalidDateTime},
		{"end before start", func(h *models.Habit) { h.EndDate = "2023-12-31" }, ConflictInvalidDateTime},
		{"bad reminder", func(h *models.Habit) { h.ReminderTime = "25:00" }, ConflictInvalidDateTime},
		{"unknown frequency", func(h *models.Habit) { h.Frequency.Type = "hourly" }, ConflictInvalidRecurrence},
		{"weekday out of range", func(h *models.Habit) { h.Frequency.Weekdays = []int{7} }, ConflictInvalidRecurrence},
		{"unknown priority", func(h *models.Habit) { h.Priority = "urgent" }, ConflictInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHabit()
			tt.mutate(&h)
			result := New().ValidateHabit(h)
			if !hasType(result, tt.want) {
				t.Errorf("Expected %s conflict, got: %s", tt.want, result.FormatReport())
			}
			if result.Err() == nil {
				t.Error("Err() should be non-nil when conflicts exist")
			}
		})
	}
}

func TestValidateHabit_EndOnStartIsValid(t *testing.T) {
	h := validHabit()
	h.EndDate = h.StartDate
	if result := New().ValidateHabit(h); result.HasConflicts() {
		t.Errorf("Expected single-day window to be valid, got: %s", result.FormatReport())
	}
}

func TestValidateDocument(t *testing.T) {
	a := validHabit()
	b := validHabit()
	b.ID = "h2"
	c := validHabit()
	c.ID = "h3"
	c.Title = "Walk"

	doc := models.Document{"h1": a, "h2": b, "wrong-key": c}
	result := New().ValidateDocument(doc)

	if !hasType(result, ConflictDuplicateTitle) {
		t.Errorf("Expected duplicate title conflict, got: %s", result.FormatReport())
	}
	if !hasType(result, ConflictMismatchedID) {
		t.Errorf("Expected mismatched ID conflict, got: %s", result.FormatReport())
	}
	if len(result.Conflicts) != 2 {
		t.Errorf("Expected 2 conflicts, got %d: %s", len(result.Conflicts), result.FormatReport())
	}

	err := result.Err()
	if err == nil || !strings.HasPrefix(err.Error(), "2 problems") {
		t.Errorf("Err() = %v, want a combined error", err)
	}
}

func TestFormatReport_NoConflicts(t *testing.T) {
	result := ValidationResult{}
	if got := result.FormatReport(); got != "No problems detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}
