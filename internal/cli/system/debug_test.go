package system

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	herrors "github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/models"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, out, path := setupJSONContext(t, nil)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("db-path failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got["path"] != path {
		t.Errorf("path = %q, want %q", got["path"], path)
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx, out, _ := setupJSONContext(t, legacyDocument())

	if err := (&DebugDumpHabitCmd{Habit: "Stretch"}).Run(ctx); err != nil {
		t.Fatalf("dump-habit failed: %v", err)
	}
	var h models.Habit
	if err := json.Unmarshal(out.Bytes(), &h); err != nil {
		t.Fatalf("output is not a habit: %v", err)
	}
	if h.ID != "h1" || len(h.CheckIns) != 3 {
		t.Errorf("unexpected habit dump: %+v", h)
	}

	if err := (&DebugDumpHabitCmd{Habit: "Nope"}).Run(ctx); !errors.Is(err, herrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestDebugDumpRecordCmd(t *testing.T) {
	ctx, out, _ := setupJSONContext(t, legacyDocument())

	if err := (&DebugDumpRecordCmd{Habit: "h1", Date: "2024-03-03"}).Run(ctx); err != nil {
		t.Fatalf("dump-record failed: %v", err)
	}
	if !strings.Contains(out.String(), `"entries"`) {
		t.Errorf("expected entries in dump:\n%s", out.String())
	}

	if err := (&DebugDumpRecordCmd{Habit: "h1", Date: "03/03/2024"}).Run(ctx); !errors.Is(err, herrors.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	// the test clock is 2024-03-06, which has no record
	if err := (&DebugDumpRecordCmd{Habit: "h1", Date: "today"}).Run(ctx); err == nil {
		t.Error("expected error for a day without a record")
	}
}
