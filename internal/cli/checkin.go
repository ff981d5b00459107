package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/models"
)

// notePrompt asks for an optional note; ok is false when no prompt is possible
var notePrompt = promptNoteInteractive

func promptNoteInteractive(title string) (note string, ok bool, err error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", false, nil
	}
	err = huh.NewInput().
		Title(title).
		Placeholder("optional").
		CharLimit(500).
		Value(&note).
		Run()
	if stderrors.Is(err, huh.ErrUserAborted) {
		return "", true, nil
	}
	return strings.TrimSpace(note), true, err
}

type CheckInCmd struct {
	Add    CheckInAddCmd    `cmd:"" help:"Record a check-in."`
	Edit   CheckInEditCmd   `cmd:"" help:"Change a recorded check-in."`
	Delete CheckInDeleteCmd `cmd:"" help:"Delete a recorded check-in."`
}

type CheckInAddCmd struct {
	Habit  string `arg:"" help:"Habit ID or title."`
	Marker string `help:"Marker emoji (default: the habit's first marker)."`
	Date   string `help:"Date in YYYY-MM-DD format (default: today)."`
	Time   string `help:"Time of day in HH:MM format (default: now)."`
	Note   string `help:"Optional note for this entry."`
}

func (c *CheckInAddCmd) Run(ctx *Context) error {
	date := c.Date
	if date == "" {
		date = ctx.Today()
	}
	clock := c.Time
	if clock == "" {
		clock = ctx.ClockTime()
	}

	// marker and note are settled before the read-modify-write cycle so a
	// prompt waiting on the user never holds a stale document
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		return err
	}
	docKey, current, err := LookupHabit(doc, c.Habit)
	if err != nil {
		return err
	}
	marker, err := pickMarker(current, c.Marker)
	if err != nil {
		return err
	}
	note := c.Note
	if note == "" && marker.PromptNote {
		prompted, ok, err := notePrompt(fmt.Sprintf("Note for %s %s", current.Title, marker.Emoji))
		if err != nil {
			return err
		}
		if ok {
			note = prompted
		}
	}

	h, err := ctx.UpdateHabit(docKey, func(h models.Habit) (models.Habit, error) {
		return ledger.AddEntry(h, date, marker.Emoji, clock, note)
	})
	if err != nil {
		return err
	}

	rec := h.CheckIns[date]
	logger.Info("Recorded check-in", "habit", h.ID, "date", date, "marker", marker.Emoji)
	ctx.Printf("Checked in %s %s on %s (%d/%d)\n", h.Title, marker.Emoji, date, rec.Count, max(h.Target, 1))
	return nil
}

// pickMarker returns the habit's marker for emoji, or its first marker when
// emoji is empty. Markers outside the offered set are accepted so entries
// can still be recorded after a marker was removed.
func pickMarker(h models.Habit, emoji string) (models.CheckInEmoji, error) {
	if emoji == "" {
		if len(h.CheckInEmojis) == 0 {
			return models.CheckInEmoji{}, fmt.Errorf("habit %s has no check-in markers; add one with 'habitledger habit marker add'", h.Title)
		}
		return h.CheckInEmojis[0], nil
	}
	for _, m := range h.CheckInEmojis {
		if m.Emoji == emoji {
			return m, nil
		}
	}
	logger.Warn("Marker is not offered by habit", "habit", h.ID, "marker", emoji)
	return models.CheckInEmoji{Emoji: emoji}, nil
}

type CheckInEditCmd struct {
	Habit     string `arg:"" help:"Habit ID or title."`
	Date      string `help:"Date of the entry in YYYY-MM-DD format." required:""`
	Index     int    `help:"Zero-based entry index within the day (see 'habit show')." required:""`
	Marker    string `help:"New marker emoji."`
	Time      string `help:"New time of day in HH:MM format."`
	Note      string `help:"New note."`
	ClearNote bool   `help:"Remove the entry's note." name:"clear-note"`
}

func (c *CheckInEditCmd) Run(ctx *Context) error {
	var changes ledger.EntryChanges
	if c.Marker != "" {
		changes.Marker = &c.Marker
	}
	if c.Time != "" {
		changes.TimeOfDay = &c.Time
	}
	switch {
	case c.ClearNote && c.Note != "":
		return fmt.Errorf("--note and --clear-note cannot be combined")
	case c.ClearNote:
		empty := ""
		changes.Note = &empty
	case c.Note != "":
		changes.Note = &c.Note
	}
	if changes.Marker == nil && changes.TimeOfDay == nil && changes.Note == nil {
		return fmt.Errorf("nothing to change: pass --marker, --time, --note or --clear-note")
	}

	h, err := ctx.UpdateHabit(c.Habit, func(h models.Habit) (models.Habit, error) {
		return ledger.EditEntry(h, c.Date, c.Index, changes)
	})
	if err != nil {
		return err
	}

	ctx.Printf("Updated entry %d of %s on %s\n", c.Index, h.Title, c.Date)
	return nil
}

type CheckInDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Date  string `help:"Date of the entry in YYYY-MM-DD format." required:""`
	Index int    `help:"Zero-based entry index within the day (see 'habit show')." required:""`
}

func (c *CheckInDeleteCmd) Run(ctx *Context) error {
	h, err := ctx.UpdateHabit(c.Habit, func(h models.Habit) (models.Habit, error) {
		return ledger.DeleteEntry(h, c.Date, c.Index)
	})
	if err != nil {
		return err
	}

	remaining := len(ledger.Entries(h, c.Date))
	logger.Info("Deleted check-in", "habit", h.ID, "date", c.Date, "index", c.Index)
	ctx.Printf("Deleted entry %d of %s on %s (%d left that day)\n", c.Index, h.Title, c.Date, remaining)
	return nil
}
