// Package keyring keeps the PostgreSQL connection string in the OS keyring
// so it never has to appear on the command line or in a config file.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/lifelog/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry identifies one secret by service and user.
type Entry struct {
	Service string
	User    string
}

// Default is the entry holding the database connection string.
func Default() Entry {
	return Entry{Service: constants.AppName, User: constants.DefaultKeyringUser}
}

// Get returns the stored secret, or ErrNotFound.
func (e Entry) Get() (string, error) {
	secret, err := keyring.Get(e.Service, e.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret, replacing any previous value.
func (e Entry) Set(secret string) error {
	if secret == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(e.Service, e.User, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret.
func (e Entry) Delete() error {
	if err := keyring.Delete(e.Service, e.User); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable probes the OS keyring with a read. A missing entry still
// means the keyring itself works.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// GetConnectionString reads the database connection string.
func GetConnectionString() (string, error) {
	return Default().Get()
}

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error {
	return Default().Set(connStr)
}

// DeleteConnectionString removes the database connection string.
func DeleteConnectionString() error {
	return Default().Delete()
}
