package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/models"
	"github.com/julianstephens/habitledger/internal/storage"
	"github.com/julianstephens/habitledger/internal/storage/sqlite"
)

func newContext(store storage.Provider) (*cli.Context, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &cli.Context{
		Store: store,
		Out:   out,
		Now:   func() time.Time { return time.Date(2024, 3, 6, 9, 0, 0, 0, time.Local) },
	}, out
}

func setupJSONContext(t *testing.T, doc models.Document) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habits.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if doc != nil {
		if err := store.WriteDocument(doc); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}
	}
	ctx, out := newContext(store)
	return ctx, out, path
}

func setupSQLiteContext(t *testing.T) (*cli.Context, *bytes.Buffer, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitledger.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	ctx, out := newContext(store)
	return ctx, out, store
}

func setSchemaVersion(t *testing.T, store *sqlite.Store, version int) {
	t.Helper()
	runner, err := store.SchemaRunner()
	if err != nil {
		t.Fatal(err)
	}
	if err := runner.SetVersion(version); err != nil {
		t.Fatal(err)
	}
}

// legacyDocument has one legacy record, one empty record and one entry-based record
func legacyDocument() models.Document {
	return models.Document{
		"h1": {
			ID:            "h1",
			Title:         "Stretch",
			Target:        1,
			StartDate:     "2024-03-01",
			CheckInEmojis: []models.CheckInEmoji{{Emoji: "✅", Meaning: "done"}},
			CheckIns: map[string]models.CheckInRecord{
				"2024-03-01": {Count: 2, Status: []string{"✅", "✅"}, Timestamp: "2024-03-01 07:00"},
				"2024-03-02": {Count: 0, Status: []string{}, Timestamp: "2024-03-02 07:00"},
				"2024-03-03": {
					Count: 1, Status: []string{"✅"}, Timestamp: "2024-03-03 08:00",
					Entries: []models.Entry{{Marker: "✅", Timestamp: "2024-03-03 08:00"}},
				},
			},
			TotalCheckIns: 3,
		},
	}
}
