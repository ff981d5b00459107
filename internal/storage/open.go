package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/keyring"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/storage/postgres"
	"github.com/julianstephens/habitledger/internal/storage/sqlite"
)

// Open picks a provider for the --config value:
//
//   - "keyring" uses the connection string from HABITLEDGER_DB_CONNECTION or the OS keyring
//   - a postgres:// URL or key=value DSN opens PostgreSQL; embedded passwords are refused
//   - a path ending in .json opens the JSON file store
//   - anything else is a SQLite database path
//
// When config is the default path and HABITLEDGER_DB_CONNECTION is set, the
// environment wins. Open does not touch the backend; call Init or Load.
func Open(config string) (Provider, error) {
	log := logger.Component("storage")

	if config == constants.KeyringConfigValue ||
		(config == constants.DefaultConfigPath && os.Getenv(constants.ConnectionEnvVar) != "") {
		connStr, source, err := keyring.ResolveConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, fmt.Errorf("no connection string configured: set %s or run 'habitledger keyring set'", constants.ConnectionEnvVar)
			}
			return nil, err
		}
		if !postgres.IsConnString(connStr) {
			return nil, fmt.Errorf("connection string from %s is not a PostgreSQL connection string", source)
		}
		log.Debug("Using PostgreSQL store", "source", source)
		return postgres.New(connStr), nil
	}

	if postgres.IsConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed on the command line; use %s, 'habitledger keyring set' or a .pgpass file", constants.ConnectionEnvVar)
			}
			return nil, err
		}
		log.Debug("Using PostgreSQL store", "source", "flag")
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		log.Debug("Using JSON store", "path", path)
		return NewJSONStore(path), nil
	}
	log.Debug("Using SQLite store", "path", path)
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("config path cannot be empty")
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir returns the directory holding the store and its logs. Database
// URLs fall back to the directory of the default path.
func ConfigDir(config string) (string, error) {
	if config == constants.KeyringConfigValue || postgres.IsConnString(config) {
		config = constants.DefaultConfigPath
	}
	path, err := ExpandPath(config)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
