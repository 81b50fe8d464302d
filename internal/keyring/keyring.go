package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "daybook"
	user    = "postgres-dsn"
)

var (
	// ErrNotFound is returned when no connection string is stored.
	ErrNotFound = errors.New("connection string not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString retrieves the Postgres connection string from the
// OS keyring. Returns ErrNotFound if none is stored.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(service, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the Postgres connection string in the OS keyring.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(service, user, connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether the OS keyring can be used at all. A read
// that fails with ErrNotFound still proves the keyring works.
func IsAvailable() bool {
	_, err := keyring.Get(service, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}

// DeleteConnectionString removes the stored connection string.
func DeleteConnectionString() error {
	err := keyring.Delete(service, user)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	return nil
}
