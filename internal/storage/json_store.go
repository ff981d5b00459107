package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/models"
)

// JSONStore keeps the document in a single JSON file, in the same shape the
// habit document has always been persisted in.
type JSONStore struct {
	path   string
	loaded bool
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	if err := s.save(models.Document{}); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Load() error {
	if _, err := s.read(); err != nil {
		return err
	}
	s.loaded = true
	return nil
}

func (s *JSONStore) Close() error {
	s.loaded = false
	return nil
}

// ReadDocument rereads the file on every call so a read-modify-write cycle
// always starts from what is on disk.
func (s *JSONStore) ReadDocument() (models.Document, error) {
	if !s.loaded {
		return nil, fmt.Errorf("storage not loaded")
	}
	return s.read()
}

func (s *JSONStore) WriteDocument(doc models.Document) error {
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}
	return s.save(doc)
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) read() (models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage not initialized, run 'habitledger init' first")
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	doc := models.Document{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc == nil {
		doc = models.Document{}
	}
	for id, h := range doc {
		if h.CheckIns == nil {
			h.CheckIns = map[string]models.CheckInRecord{}
			doc[id] = h
		}
	}
	return doc, nil
}

// save writes to a temporary file in the same directory and renames it over
// the document, so readers never see a partial write.
func (s *JSONStore) save(doc models.Document) error {
	if doc == nil {
		doc = models.Document{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".habitledger-*.json")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	logger.Debug("Wrote habit document", "path", s.path, "habits", len(doc))
	return nil
}
