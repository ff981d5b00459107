package system

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/storage"
	"github.com/julianstephens/habitledger/internal/validation"
)

var (
	processesFunc = ps.Processes
	nowFunc       = time.Now
)

type DoctorCmd struct{}

type checkStatus int

const (
	checkOK checkStatus = iota
	checkFail
	checkWarn
	checkSkipped
)

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, status checkStatus, detail string) {
		switch status {
		case checkOK:
			ctx.Printf("✓ %s: OK\n", name)
		case checkFail:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %s\n", detail)
			hasError = true
		case checkWarn:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %s\n", detail)
		case checkSkipped:
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, detail)
		}
	}
	run := func(name string, err error) {
		if err != nil {
			report(name, checkFail, err.Error())
			return
		}
		report(name, checkOK, "")
	}

	// Check 1: storage reachable
	doc, err := readDocument(ctx)
	reachable := err == nil
	run("Storage reachable", err)

	// Check 2 and 3: schema version and migrations, SQL stores only
	m, isSQL := ctx.Store.(storage.Migrator)
	switch {
	case !reachable:
		report("Schema version", checkSkipped, "storage not reachable")
		report("Migrations complete", checkSkipped, "storage not reachable")
	case !isSQL:
		report("Schema version", checkSkipped, "file storage has no schema")
		report("Migrations complete", checkSkipped, "file storage has no schema")
	default:
		run("Schema version", checkSchemaVersion(m))
		run("Migrations complete", checkMigrationsComplete(m))
	}

	// Check 4: habit validation
	if reachable {
		run("Habit validation", checkValidation(doc))
	} else {
		report("Habit validation", checkSkipped, "storage not reachable")
	}

	// Check 5: legacy records (warning only)
	if reachable {
		if n := countLegacyRecords(doc); n > 0 {
			report("Check-in format", checkWarn, fmt.Sprintf("%d legacy record(s) without entries; run 'habitledger migrate' to convert them", n))
		} else {
			report("Check-in format", checkOK, "")
		}
	} else {
		report("Check-in format", checkSkipped, "storage not reachable")
	}

	// Check 6: check-in totals (warning only)
	if reachable {
		if err := checkTotals(doc); err != nil {
			report("Check-in totals", checkWarn, err.Error())
		} else {
			report("Check-in totals", checkOK, "")
		}
	} else {
		report("Check-in totals", checkSkipped, "storage not reachable")
	}

	// Check 7: clock sanity
	run("Clock/timezone", checkClockTimezone())

	// Check 8: single writer (warning only)
	if err := checkSingleWriter(); err != nil {
		report("Single writer", checkWarn, err.Error())
	} else {
		report("Single writer", checkOK, "")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func readDocument(ctx *cli.Context) (models.Document, error) {
	if err := ctx.Store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load storage: %w", err)
	}
	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return doc, nil
}

func checkSchemaVersion(m storage.Migrator) error {
	runner, err := m.SchemaRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func checkMigrationsComplete(m storage.Migrator) error {
	runner, err := m.SchemaRunner()
	if err != nil {
		return err
	}
	pending, err := runner.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return fmt.Errorf("%d migration(s) pending, run 'habitledger migrate'", len(pending))
	}
	return nil
}

func checkValidation(doc models.Document) error {
	result := validation.New().ValidateDocument(doc)
	if !result.HasConflicts() {
		return nil
	}
	return fmt.Errorf("%s", strings.TrimPrefix(result.FormatReport(), "Problems detected:\n"))
}

func countLegacyRecords(doc models.Document) int {
	n := 0
	for _, h := range doc {
		for _, rec := range h.CheckIns {
			if rec.IsLegacy() && len(rec.Status) > 0 {
				n++
			}
		}
	}
	return n
}

// checkTotals compares each habit's running total with the entries on file
func checkTotals(doc models.Document) error {
	var drifted []string
	for _, h := range doc {
		sum := 0
		for date := range h.CheckIns {
			sum += len(ledger.Entries(h, date))
		}
		if sum != h.TotalCheckIns {
			drifted = append(drifted, fmt.Sprintf("%s (total %d, entries %d)", h.Title, h.TotalCheckIns, sum))
		}
	}
	if len(drifted) == 0 {
		return nil
	}
	return fmt.Errorf("total check-ins differ from recorded entries: %s", strings.Join(drifted, ", "))
}

func checkClockTimezone() error {
	now := nowFunc()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// checkSingleWriter reports other running habitledger processes. Two
// read-modify-write cycles against the same store can lose updates.
func checkSingleWriter() error {
	procs, err := processesFunc()
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}

	self := os.Getpid()
	var others []string
	for _, p := range procs {
		if p == nil || p.Pid() == self {
			continue
		}
		if strings.TrimSuffix(p.Executable(), ".exe") == constants.AppName {
			others = append(others, fmt.Sprintf("%d", p.Pid()))
		}
	}
	if len(others) > 0 {
		return fmt.Errorf("another habitledger process is running (PID %s); concurrent writes may be lost", strings.Join(others, ", "))
	}
	return nil
}
