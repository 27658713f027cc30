// Package secrets resolves the Airtable API token from config or the
// system keyring.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/sinwaunyu/site/internal/config"
)

// Providers accepted in airtable.key_provider.
const (
	ProviderConfig  = "config"
	ProviderKeyring = "keyring"
)

// TokenAccount is the keyring account holding the Airtable token.
const TokenAccount = "airtable-api-key"

var ErrTokenNotFound = errors.New("secrets: token not found")

// TokenStore holds named secrets.
type TokenStore interface {
	Get(account string) (string, error)
	Put(account, value string) error
	Delete(account string) error
}

// ConfigStore serves secrets from the loaded configuration. It is read-only
// at rest; Put only changes the in-memory copy.
type ConfigStore struct {
	Values map[string]string
}

func (s *ConfigStore) Get(account string) (string, error) {
	if s == nil || s.Values == nil {
		return "", ErrTokenNotFound
	}
	val, ok := s.Values[account]
	if !ok || val == "" {
		return "", ErrTokenNotFound
	}
	return val, nil
}

func (s *ConfigStore) Put(account, value string) error {
	if s.Values == nil {
		s.Values = map[string]string{}
	}
	s.Values[account] = value
	return nil
}

func (s *ConfigStore) Delete(account string) error {
	if s == nil || s.Values == nil {
		return nil
	}
	delete(s.Values, account)
	return nil
}

// StoreFor returns the store named by cfg.Airtable.KeyProvider.
func StoreFor(cfg config.Config) (TokenStore, error) {
	switch strings.ToLower(cfg.Airtable.KeyProvider) {
	case "", ProviderConfig:
		return &ConfigStore{Values: map[string]string{TokenAccount: cfg.Airtable.APIKey}}, nil
	case ProviderKeyring:
		return &KeyringStore{}, nil
	default:
		return nil, fmt.Errorf("unknown key provider %q", cfg.Airtable.KeyProvider)
	}
}

// Token resolves the Airtable API token for cfg.
func Token(cfg config.Config) (string, error) {
	store, err := StoreFor(cfg)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryBadInput, "resolve airtable token").
			WithTextCode("CONFIG_INVALID")
	}
	tok, err := store.Get(TokenAccount)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", goerrors.Wrap(err, goerrors.CategoryNotFound, "airtable api key is not set").
				WithTextCode("CONFIG_MISSING").
				WithMetadata(map[string]any{"provider": cfg.Airtable.KeyProvider})
		}
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, "read airtable api key").
			WithTextCode("KEYRING_FAILED")
	}
	return strings.TrimSpace(tok), nil
}
