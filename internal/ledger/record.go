package ledger

import "github.com/julianstephens/habitledger/internal/models"

// NormalizeRecord returns the canonical form of a stored record.
//
// Non-empty Entries are the source of truth. A legacy record without entries
// gets one entry per Status marker, in order, each stamped with the record's
// single Timestamp and no note. Status, Count and Timestamp are then derived
// from the entries. The second result is false when the record has neither
// entries nor status markers, which callers treat as no record at all.
//
// Normalizing a normalized record returns an equal record.
func NormalizeRecord(raw models.CheckInRecord) (models.CheckInRecord, bool) {
	var entries []models.Entry
	switch {
	case len(raw.Entries) > 0:
		entries = make([]models.Entry, len(raw.Entries))
		copy(entries, raw.Entries)
	case len(raw.Status) > 0:
		entries = make([]models.Entry, 0, len(raw.Status))
		for _, marker := range raw.Status {
			entries = append(entries, models.Entry{Marker: marker, Timestamp: raw.Timestamp})
		}
	default:
		return models.CheckInRecord{}, false
	}

	return recordFrom(entries, raw.Timestamp), true
}

// recordFrom derives a record from a non-empty entry list. fallback is used
// as the record timestamp when the last entry has none.
func recordFrom(entries []models.Entry, fallback string) models.CheckInRecord {
	status := make([]string, len(entries))
	for i, e := range entries {
		status[i] = e.Marker
	}

	timestamp := entries[len(entries)-1].Timestamp
	if timestamp == "" {
		timestamp = fallback
	}

	return models.CheckInRecord{
		Count:     len(entries),
		Status:    status,
		Timestamp: timestamp,
		Entries:   entries,
	}
}

// NormalizeHabit normalizes every check-in record of a habit and drops date
// keys that hold no record. The input habit is not modified.
func NormalizeHabit(h models.Habit) models.Habit {
	out := h
	out.CheckIns = make(map[string]models.CheckInRecord, len(h.CheckIns))
	for date, raw := range h.CheckIns {
		if rec, ok := NormalizeRecord(raw); ok {
			out.CheckIns[date] = rec
		}
	}
	return out
}

// MigrationReport summarizes a document normalization
type MigrationReport struct {
	Habits         int
	Records        int
	LegacyMigrated int
	EmptyDropped   int
}

// Changed reports whether normalization altered the document
func (r MigrationReport) Changed() bool {
	return r.LegacyMigrated > 0 || r.EmptyDropped > 0
}

// NormalizeDocument migrates every habit of a document to the multi-entry
// format. It never fails: anything unrecoverable is an empty record and is
// dropped.
func NormalizeDocument(doc models.Document) (models.Document, MigrationReport) {
	var report MigrationReport
	out := make(models.Document, len(doc))
	for id, h := range doc {
		report.Habits++
		for _, raw := range h.CheckIns {
			if _, ok := NormalizeRecord(raw); !ok {
				report.EmptyDropped++
				continue
			}
			report.Records++
			if raw.IsLegacy() {
				report.LegacyMigrated++
			}
		}
		out[id] = NormalizeHabit(h)
	}
	return out, report
}
