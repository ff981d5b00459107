package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/recurrence"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictMissingTitle      ConflictType = "missing_title"
	ConflictDuplicateTitle    ConflictType = "duplicate_title"
	ConflictInvalidTarget     ConflictType = "invalid_target"
	ConflictMissingMarkers    ConflictType = "missing_markers"
	ConflictDuplicateMarker   ConflictType = "duplicate_marker"
	ConflictInvalidDateTime   ConflictType = "invalid_datetime"
	ConflictInvalidRecurrence ConflictType = "invalid_recurrence"
	ConflictInvalidPriority   ConflictType = "invalid_priority"
	ConflictMismatchedID      ConflictType = "mismatched_id"
)

// Conflict represents a problem found in a habit definition
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string
	Title       string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Err folds the conflicts into a single error, or nil when there are none
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	if len(vr.Conflicts) == 1 {
		return fmt.Errorf("%s", vr.Conflicts[0].Description)
	}
	descs := make([]string, len(vr.Conflicts))
	for i, c := range vr.Conflicts {
		descs[i] = c.Description
	}
	return fmt.Errorf("%d problems: %s", len(descs), strings.Join(descs, "; "))
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks habit definitions before they are stored
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabit checks a single habit definition. Check-in history is not
// inspected; the ledger package owns those invariants.
func (v *Validator) ValidateHabit(h models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	add := func(t ConflictType, format string, args ...interface{}) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        t,
			Description: fmt.Sprintf(format, args...),
			HabitID:     h.ID,
			Title:       h.Title,
		})
	}

	name := h.Title
	if strings.TrimSpace(h.Title) == "" {
		add(ConflictMissingTitle, "Habit %s has no title", h.ID)
		name = h.ID
	}

	if h.Target < 1 {
		add(ConflictInvalidTarget, "Habit \"%s\" has target %d, must be at least 1", name, h.Target)
	}

	if len(h.CheckInEmojis) == 0 {
		add(ConflictMissingMarkers, "Habit \"%s\" has no check-in markers", name)
	}
	seen := make(map[string]bool, len(h.CheckInEmojis))
	for _, m := range h.CheckInEmojis {
		if strings.TrimSpace(m.Emoji) == "" {
			add(ConflictMissingMarkers, "Habit \"%s\" has an empty check-in marker", name)
			continue
		}
		if seen[m.Emoji] {
			add(ConflictDuplicateMarker, "Habit \"%s\" lists marker %s more than once", name, m.Emoji)
		}
		seen[m.Emoji] = true
	}

	start, startErr := recurrence.ParseDate(h.StartDate)
	if startErr != nil {
		add(ConflictInvalidDateTime, "Habit \"%s\" has invalid start date: %q", name, h.StartDate)
	}
	if h.EndDate != "" {
		end, err := recurrence.ParseDate(h.EndDate)
		switch {
		case err != nil:
			add(ConflictInvalidDateTime, "Habit \"%s\" has invalid end date: %q", name, h.EndDate)
		case startErr == nil && end.Before(start):
			add(ConflictInvalidDateTime, "Habit \"%s\" ends (%s) before it starts (%s)", name, h.EndDate, h.StartDate)
		}
	}

	if h.ReminderTime != "" && !isValidTimeFormat(h.ReminderTime) {
		add(ConflictInvalidDateTime, "Habit \"%s\" has invalid reminder time: %s", name, h.ReminderTime)
	}

	if _, err := recurrence.Compile(h.Frequency); err != nil {
		add(ConflictInvalidRecurrence, "Habit \"%s\": %v", name, err)
	}

	switch h.Priority {
	case "", constants.PriorityHigh, constants.PriorityMedium, constants.PriorityLow, constants.PriorityNone:
	default:
		add(ConflictInvalidPriority, "Habit \"%s\" has unknown priority %q", name, h.Priority)
	}

	return result
}

// ValidateDocument checks every habit plus cross-habit rules: document keys
// must match habit IDs and titles must be unique, since commands resolve
// habits by title.
func (v *Validator) ValidateDocument(doc models.Document) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	ids := make([]string, 0, len(doc))
	for id := range doc {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	titles := make(map[string][]string)
	for _, id := range ids {
		h := doc[id]
		if h.ID != id {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMismatchedID,
				Description: fmt.Sprintf("Habit stored under %s carries ID %q", id, h.ID),
				HabitID:     id,
				Title:       h.Title,
			})
		}
		habitResult := v.ValidateHabit(h)
		result.Conflicts = append(result.Conflicts, habitResult.Conflicts...)
		if h.Title != "" {
			titles[h.Title] = append(titles[h.Title], id)
		}
	}

	dupes := make([]string, 0)
	for title, owners := range titles {
		if len(owners) > 1 {
			dupes = append(dupes, title)
		}
	}
	sort.Strings(dupes)
	for _, title := range dupes {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateTitle,
			Description: fmt.Sprintf("Duplicate habit title: \"%s\" (IDs: %v)", title, titles[title]),
			Title:       title,
		})
	}

	return result
}

func isValidTimeFormat(value string) bool {
	_, err := time.Parse(constants.TimeFormat, value)
	return err == nil
}
