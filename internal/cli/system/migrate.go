package system

import (
	"fmt"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/ledger"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/storage"
)

// MigrateCmd brings storage up to date: pending schema migrations first
// (SQL stores only), then conversion of legacy check-in records to entries.
type MigrateCmd struct {
	DryRun bool `help:"Report what would change without writing anything." name:"dry-run"`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	if m, ok := ctx.Store.(storage.Migrator); ok {
		if err := c.migrateSchema(ctx, m); err != nil {
			return err
		}
	}

	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		return err
	}
	doc, report := ledger.NormalizeDocument(doc)

	ctx.Printf("\nCheck-in records: %d habit(s), %d record(s)\n", report.Habits, report.Records)
	if !report.Changed() {
		ctx.Println("No legacy records to convert. Document is up to date.")
		return nil
	}

	verb := "Converted"
	if c.DryRun {
		verb = "Would convert"
	}
	ctx.Printf("  %s %d legacy record(s) to entries\n", verb, report.LegacyMigrated)
	if report.EmptyDropped > 0 {
		verb = "Dropped"
		if c.DryRun {
			verb = "Would drop"
		}
		ctx.Printf("  %s %d empty record(s)\n", verb, report.EmptyDropped)
	}
	if c.DryRun {
		return nil
	}

	if err := ctx.Store.WriteDocument(doc); err != nil {
		return fmt.Errorf("failed to write migrated document: %w", err)
	}
	logger.Info("Migrated legacy check-in records",
		"legacy", report.LegacyMigrated, "dropped", report.EmptyDropped)
	return nil
}

func (c *MigrateCmd) migrateSchema(ctx *cli.Context, m storage.Migrator) error {
	runner, err := m.SchemaRunner()
	if err != nil {
		return err
	}

	if c.DryRun {
		pending, err := runner.PendingMigrations()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			ctx.Println("No migrations to apply. Database schema is up to date.")
			return nil
		}
		for _, mig := range pending {
			ctx.Printf("Would apply migration %d: %s\n", mig.Version, mig.Name)
		}
		return nil
	}

	count, err := runner.ApplyMigrations(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count > 0 {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
