package config

import (
	"errors"
	"fmt"

	"github.com/Ever-fnf/imc/pkg/models"
	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name passwords are stored under.
const KeyringService = "imc"

// SecretStore reads and writes secrets; the OS keyring in production.
type SecretStore interface {
	Get(service, user string) (string, error)
	Set(service, user, password string) error
}

type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (osKeyring) Set(service, user, password string) error { return keyring.Set(service, user, password) }

// Keyring returns the OS keyring store.
func Keyring() SecretStore {
	return osKeyring{}
}

// ResolvePassword fills an empty Snowflake password from the store.
// A missing keyring entry is not an error; Validate reports the empty password.
func ResolvePassword(cfg *models.Config, store SecretStore) error {
	if cfg.Snowflake.Password != "" || cfg.Snowflake.Username == "" {
		return nil
	}

	password, err := store.Get(KeyringService, cfg.Snowflake.Username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrUnsupportedPlatform) {
			return nil
		}
		return fmt.Errorf("failed to read password from keyring: %w", err)
	}
	cfg.Snowflake.Password = password
	return nil
}

// StorePassword saves the Snowflake password for user in the store.
func StorePassword(store SecretStore, user, password string) error {
	if err := store.Set(KeyringService, user, password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}
