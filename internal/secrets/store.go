package secrets

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const (
	serviceName = "mailsift"

	// KeyGeminiAPIKey is the keyring entry holding the model API key.
	KeyGeminiAPIKey = "gemini-api-key"

	// EnvGeminiAPIKey is the environment fallback for the model API key.
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Store reads and writes named secrets.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// KeyringStore keeps secrets in the system keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyringStore opens the default system keyring for this service.
func OpenKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/mailsift/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("mailsift-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyringStore(ring), nil
}

// NewKeyringStore wraps an already opened keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (s *KeyringStore) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting secret %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (s *KeyringStore) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting secret %q: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Remove(key string) error {
	if err := s.ring.Remove(key); err != nil {
		return fmt.Errorf("removing secret %q: %w", key, err)
	}
	return nil
}

// ResolveAPIKey returns the model API key from the first available
// source: the explicit value, the store, then the environment. An
// empty string means no key is configured anywhere.
func ResolveAPIKey(explicit string, store Store) string {
	if explicit != "" {
		return explicit
	}
	if store != nil {
		if key, err := store.Get(KeyGeminiAPIKey); err == nil && key != "" {
			return key
		}
	}
	return os.Getenv(EnvGeminiAPIKey)
}
