package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/migration"
	"github.com/julianstephens/habitledger/migrations"
)

var errNotLoaded = errors.New("storage not loaded")

// pragmas are applied once per open; the pool is held to one connection so
// they cover every statement
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// Store keeps the habit document in a SQLite file, one row per habit
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init creates the database file and its parent directory if needed and
// brings the schema up to date. Running it on an existing database is safe.
func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.SchemaRunner()
	if err != nil {
		return err
	}
	log := logger.Component("sqlite")
	if _, err := runner.ApplyMigrations(func(msg string) { log.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load opens an existing database and refuses one written by a newer schema
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage not initialized at %s, run 'habitledger init' first", s.path)
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.SchemaRunner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", s.path, err)
	}
	db.SetMaxOpenConns(1)
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return fmt.Errorf("failed to configure database (%s): %w", p, err)
		}
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SchemaRunner returns a migration runner over the embedded SQLite migrations
func (s *Store) SchemaRunner() (*migration.Runner, error) {
	if s.db == nil {
		return nil, errNotLoaded
	}
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, sub, migration.DriverSQLite), nil
}

// tableExists matches table names case-insensitively, like SQLite itself
func (s *Store) tableExists(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE", name,
	).Scan(&count)
	return count > 0, err
}

func (s *Store) GetConfigPath() string {
	return s.path
}
