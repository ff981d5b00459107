package storage

import (
	"github.com/julianstephens/habitledger/internal/migration"
	"github.com/julianstephens/habitledger/internal/models"
)

// Provider persists the habit document. Reads and writes cover the whole
// document, so one ReadDocument/WriteDocument pair is one read-modify-write
// cycle.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Document
	ReadDocument() (models.Document, error)
	WriteDocument(models.Document) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by SQL-backed providers
type Migrator interface {
	// SchemaRunner returns a migration runner bound to the open database
	SchemaRunner() (*migration.Runner, error)
}
