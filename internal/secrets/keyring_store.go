package secrets

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const DefaultKeyringService = "sinwa-site"

// KeyringStore keeps secrets in the system keyring.
type KeyringStore struct {
	Service string
}

func (s *KeyringStore) Get(account string) (string, error) {
	val, err := keyring.Get(s.service(), account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", err
	}
	if val == "" {
		return "", ErrTokenNotFound
	}
	return val, nil
}

func (s *KeyringStore) Put(account, value string) error {
	return keyring.Set(s.service(), account, value)
}

func (s *KeyringStore) Delete(account string) error {
	err := keyring.Delete(s.service(), account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

func (s *KeyringStore) service() string {
	if s != nil && s.Service != "" {
		return s.Service
	}
	return DefaultKeyringService
}

// KeyringAvailable reports whether a system keyring backend appears supported.
func KeyringAvailable() bool {
	_, err := keyring.Get(DefaultKeyringService, "_availability_")
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return true
	}
	return !errors.Is(err, keyring.ErrUnsupportedPlatform)
}
