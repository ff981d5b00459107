package models

// Entry is a single check-in event on a date
type Entry struct {
	Marker    string `json:"emoji"`
	Timestamp string `json:"timestamp"` // YYYY-MM-DD HH:MM format
	Note      string `json:"note,omitempty"`
}

// CheckInRecord holds all check-in activity for one calendar date.
//
// Entries is the source of truth. Status, Count and Timestamp are derived from
// it and kept for documents written before entries existed; a record read from
// such a document has nil Entries until it is normalized.
type CheckInRecord struct {
	Count     int      `json:"count"`
	Status    []string `json:"status"`
	Timestamp string   `json:"timestamp"`
	Entries   []Entry  `json:"entries,omitempty"`
}

// IsLegacy reports whether the record predates the multi-entry format
func (r CheckInRecord) IsLegacy() bool {
	return len(r.Entries) == 0
}
