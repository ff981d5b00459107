package system

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/errors"
)

type DebugCmd struct {
	DBPath     *DebugDBPathCmd     `cmd:"" name:"db-path" help:"Show storage path."`
	DumpHabit  *DebugDumpHabitCmd  `cmd:"" help:"Dump habit data as JSON."`
	DumpRecord *DebugDumpRecordCmd `cmd:"" help:"Dump one day's check-in record as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}
	h, err := cli.ResolveHabit(doc, cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

type DebugDumpRecordCmd struct {
	Habit string `arg:"" help:"Habit ID or title."`
	Date  string `arg:"" help:"Date of the record (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpRecordCmd) Run(ctx *cli.Context) error {
	date := cmd.Date
	if date == "today" {
		date = ctx.Today()
	}
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("%w: %s (expected YYYY-MM-DD or 'today')", errors.ErrInvalidDate, date)
	}

	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}
	h, err := cli.ResolveHabit(doc, cmd.Habit)
	if err != nil {
		return err
	}
	rec, ok := h.CheckIns[date]
	if !ok {
		return fmt.Errorf("no check-in record for %q on %s", h.Title, date)
	}
	return printJSON(ctx, rec)
}

func printJSON(ctx *cli.Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
