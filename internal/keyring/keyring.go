package keyring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitledger/internal/constants"
)

var (
	// ErrNotFound is returned when nothing is stored under the habitledger entry
	ErrNotFound = errors.New("no connection string stored in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// the keyring entry is keyed by service and user; habitledger stores one
const (
	service = constants.AppName
	user    = constants.DefaultKeyringUser
	canary  = "availability-check"
)

// classify maps go-keyring errors onto this package's sentinels
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %s: %v", ErrKeyringUnavailable, op, err)
	}
}

// GetConnectionString reads the stored PostgreSQL connection string
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(service, user)
	if err != nil {
		return "", classify("read", err)
	}
	return connStr, nil
}

// SetConnectionString stores connStr, replacing any previous value
func SetConnectionString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	return classify("store", keyring.Set(service, user, connStr))
}

// DeleteConnectionString removes the stored connection string
func DeleteConnectionString() error {
	return classify("delete", keyring.Delete(service, user))
}

// IsAvailable checks the OS keyring. A lookup that finds nothing still
// means the keyring answered.
func IsAvailable() bool {
	_, err := keyring.Get(service, canary)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// ResolveConnectionString prefers HABITLEDGER_DB_CONNECTION over the keyring.
// source is "environment" or "keyring", for log output.
func ResolveConnectionString() (connStr, source string, err error) {
	if v := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); v != "" {
		return v, "environment", nil
	}
	if connStr, err = GetConnectionString(); err != nil {
		return "", "", err
	}
	return connStr, "keyring", nil
}

// MaskPassword replaces the password in a URL or key=value DSN with ****
func MaskPassword(connStr string) string {
	scheme, rest, isURL := strings.Cut(connStr, "://")
	if isURL {
		// user info ends at the last @; a password may itself contain @
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return connStr
		}
		name, _, hasPassword := strings.Cut(rest[:at], ":")
		if !hasPassword {
			return connStr
		}
		return scheme + "://" + name + ":****" + rest[at:]
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if k, _, ok := strings.Cut(f, "="); ok && strings.EqualFold(k, "password") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
