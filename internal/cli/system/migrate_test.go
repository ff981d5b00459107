package system

import (
	"strings"
	"testing"
)

func TestMigrateCmd_ConvertsLegacyRecords(t *testing.T) {
	ctx, out, _ := setupJSONContext(t, legacyDocument())

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Converted 1 legacy record(s)") || !strings.Contains(text, "Dropped 1 empty record(s)") {
		t.Errorf("unexpected output:\n%s", text)
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatal(err)
	}
	doc, err := ctx.Store.ReadDocument()
	if err != nil {
		t.Fatal(err)
	}
	h := doc["h1"]
	if len(h.CheckIns) != 2 {
		t.Errorf("expected 2 records after migration, got %d", len(h.CheckIns))
	}
	rec := h.CheckIns["2024-03-01"]
	if len(rec.Entries) != 2 || rec.Entries[1].Timestamp != "2024-03-01 07:00" {
		t.Errorf("legacy record not converted: %+v", rec)
	}

	// second run has nothing left to do
	out.Reset()
	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "No legacy records to convert") {
		t.Errorf("expected no-op output, got:\n%s", out.String())
	}
}

func TestMigrateCmd_DryRun(t *testing.T) {
	ctx, out, _ := setupJSONContext(t, legacyDocument())

	if err := (&MigrateCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("migrate --dry-run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Would convert 1 legacy record(s)") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	if err := ctx.Store.Load(); err != nil {
		t.Fatal(err)
	}
	doc, _ := ctx.Store.ReadDocument()
	if !doc["h1"].CheckIns["2024-03-01"].IsLegacy() {
		t.Error("dry run must not write the document")
	}
}

func TestMigrateCmd_SQLiteSchema(t *testing.T) {
	ctx, out, store := setupSQLiteContext(t)

	if err := (&MigrateCmd{}).Run(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !strings.Contains(out.String(), "Database schema is up to date") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	// roll the version back so the first migration is pending again
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	setSchemaVersion(t, store, 0)
	out.Reset()
	if err := (&MigrateCmd{DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("migrate --dry-run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Would apply migration 1: init") {
		t.Errorf("expected pending migration in output:\n%s", out.String())
	}
}
