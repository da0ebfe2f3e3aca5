package crypto

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring stores the database encryption key
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	Source() string
}

const (
	ServiceName = "tourbook"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the system keyring when set
	EnvKey = "TOURBOOK_DB_KEY"
)

var ErrKeyNotFound = errors.New("encryption key not found")

// NewKeyring returns the env-var keyring when TOURBOOK_DB_KEY is set,
// otherwise the OS keychain (Keychain, Secret Service or Credential Manager)
func NewKeyring() Keyring {
	if os.Getenv(EnvKey) != "" {
		return envKeyring{}
	}
	return systemKeyring{}
}

type systemKeyring struct{}

func (systemKeyring) GetKey() (string, error) {
	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to retrieve key from keychain: %w", err)
	}
	if key == "" {
		return "", ErrKeyNotFound
	}
	return key, nil
}

func (systemKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("failed to store key in keychain (set %s instead): %w", EnvKey, err)
	}
	return nil
}

func (systemKeyring) DeleteKey() error {
	if err := keyring.Delete(ServiceName, KeyName); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete key from keychain: %w", err)
	}
	return nil
}

func (systemKeyring) Source() string { return "system keychain" }

type envKeyring struct{}

func (envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", ErrKeyNotFound
	}
	return key, nil
}

func (envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	return fmt.Errorf("key is read from %s; update the environment variable instead", EnvKey)
}

func (envKeyring) DeleteKey() error {
	return fmt.Errorf("key is read from %s; unset the environment variable instead", EnvKey)
}

func (envKeyring) Source() string { return EnvKey }
