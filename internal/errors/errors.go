package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitledger/internal/logger"
)

var (
	// ErrInvalidRecurrenceRule is returned for a frequency the evaluator cannot interpret
	ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")
	// ErrEntryNotFound is returned when an entry index is out of range for a date
	ErrEntryNotFound = errors.New("check-in entry not found")
	// ErrInvalidDate is returned for malformed date or time-of-day strings
	ErrInvalidDate = errors.New("invalid date")
	// ErrHabitNotFound is returned when no habit matches an ID or title
	ErrHabitNotFound = errors.New("habit not found")
	// ErrLastMarker is returned when an edit would leave a habit without markers
	ErrLastMarker = errors.New("habit must keep at least one check-in marker")
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
