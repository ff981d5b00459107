package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNewerSchema is returned when the database was migrated by a newer
// habitledger than the one running
var ErrNewerSchema = errors.New("database schema is newer than this version of habitledger supports")

// Driver selects the bind parameter style for the runner's own queries
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

func (d Driver) bind(n int) string {
	if d == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Migration is one embedded NNN_name.sql file
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Plan compares the database against the embedded migrations
type Plan struct {
	Current int
	Latest  int
	Pending []Migration
}

// Runner applies the embedded migrations for one database and tracks the
// applied version in schema_version.
type Runner struct {
	db     *sql.DB
	files  fs.FS
	driver Driver
}

// NewRunner returns a runner reading NNN_name.sql files from the root of files
func NewRunner(db *sql.DB, files fs.FS, driver Driver) *Runner {
	return &Runner{db: db, files: files, driver: driver}
}

// EnsureSchemaVersionTable creates schema_version when it is missing
func (r *Runner) EnsureSchemaVersionTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`)
	return err
}

// GetCurrentVersion reads the applied version; a fresh database is version 0
func (r *Runner) GetCurrentVersion() (int, error) {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}

	var version int
	switch err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version); {
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SetVersion overwrites the applied version
func (r *Runner) SetVersion(version int) error {
	if err := r.EnsureSchemaVersionTable(); err != nil {
		return fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	return r.inTx(func(tx *sql.Tx) error {
		return r.recordVersion(tx, version)
	})
}

func (r *Runner) recordVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	insert := fmt.Sprintf("INSERT INTO schema_version (version) VALUES (%s)", r.driver.bind(1))
	if _, err := tx.Exec(insert, version); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

func (r *Runner) inTx(fn func(*sql.Tx) error) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// parseFilename splits "001_init.sql" into 1 and "init"
func parseFilename(name string) (int, string, error) {
	prefix, rest, ok := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
	if !ok || rest == "" {
		return 0, "", fmt.Errorf("invalid migration filename %s (expected NNN_name.sql)", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version in migration filename %s: %w", name, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version in migration filename %s: must be at least 1", name)
	}
	return version, rest, nil
}

// ReadMigrationFiles returns the embedded migrations ordered by version.
// Files without the .sql extension are ignored.
func (r *Runner) ReadMigrationFiles() ([]Migration, error) {
	entries, err := fs.ReadDir(r.files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, name, err := parseFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}
	return migrations, nil
}

// GetLatestVersion is the highest embedded version, or 0 when there are none
func (r *Runner) GetLatestVersion() (int, error) {
	migrations, err := r.ReadMigrationFiles()
	if err != nil || len(migrations) == 0 {
		return 0, err
	}
	return migrations[len(migrations)-1].Version, nil
}

// Plan reports what ApplyMigrations would do. It fails with ErrNewerSchema
// when the database is ahead of the embedded migrations.
func (r *Runner) Plan() (Plan, error) {
	current, err := r.GetCurrentVersion()
	if err != nil {
		return Plan{}, err
	}
	migrations, err := r.ReadMigrationFiles()
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Current: current}
	if len(migrations) > 0 {
		plan.Latest = migrations[len(migrations)-1].Version
	}
	if current > plan.Latest {
		return plan, fmt.Errorf("%w (database at %d, supported up to %d); upgrade habitledger", ErrNewerSchema, current, plan.Latest)
	}
	for _, m := range migrations {
		if m.Version > current {
			plan.Pending = append(plan.Pending, m)
		}
	}
	return plan, nil
}

// PendingMigrations lists the migrations newer than the database
func (r *Runner) PendingMigrations() ([]Migration, error) {
	plan, err := r.Plan()
	if err != nil {
		return nil, err
	}
	return plan.Pending, nil
}

// ApplyMigrations applies every pending migration, each in its own
// transaction together with its version bump, and returns how many were
// applied. Progress goes to report, which may be nil.
func (r *Runner) ApplyMigrations(report func(string)) (int, error) {
	if report == nil {
		report = func(string) {}
	}

	plan, err := r.Plan()
	if err != nil {
		return 0, err
	}
	if len(plan.Pending) == 0 {
		report(fmt.Sprintf("Database schema is up to date (version %d)", plan.Current))
		return 0, nil
	}

	report(fmt.Sprintf("Migrating schema from version %d to %d (%d migration(s))",
		plan.Current, plan.Latest, len(plan.Pending)))
	started := time.Now()

	applied := 0
	for _, m := range plan.Pending {
		report(fmt.Sprintf("  Applying migration %d: %s", m.Version, m.Name))
		err := r.inTx(func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
			}
			return r.recordVersion(tx, m.Version)
		})
		if err != nil {
			return applied, err
		}
		applied++
	}

	report(fmt.Sprintf("Applied %d migration(s) in %v", applied, time.Since(started).Round(time.Millisecond)))
	return applied, nil
}

// ValidateVersion fails when the database is newer than the embedded migrations
func (r *Runner) ValidateVersion() error {
	_, err := r.Plan()
	return err
}
