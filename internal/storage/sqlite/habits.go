package sqlite

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitledger/internal/models"
)

// ReadDocument loads every habit row. Each row holds one habit as a JSON blob;
// the id and title columns exist for lookups and doctor output only.
func (s *Store) ReadDocument() (models.Document, error) {
	if s.db == nil {
		return nil, errNotLoaded
	}

	rows, err := s.db.Query("SELECT id, data FROM habits")
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	doc := models.Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		var h models.Habit
		if err := json.Unmarshal([]byte(data), &h); err != nil {
			return nil, fmt.Errorf("failed to decode habit %s: %w", id, err)
		}
		if h.CheckIns == nil {
			h.CheckIns = map[string]models.CheckInRecord{}
		}
		doc[id] = h
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	return doc, nil
}

// WriteDocument replaces all habit rows in one transaction
func (s *Store) WriteDocument(doc models.Document) error {
	if s.db == nil {
		return errNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO habits (id, title, data, updated_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for id, h := range doc {
		data, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("failed to encode habit %s: %w", id, err)
		}
		if _, err := stmt.Exec(id, h.Title, string(data), h.UpdatedAt); err != nil {
			return fmt.Errorf("failed to write habit %s: %w", id, err)
		}
	}

	return tx.Commit()
}
