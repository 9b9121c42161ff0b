package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "benford"
	keyringUser    = "dataset_token"
	tokenFileName  = "dataset_token"
	fileMode       = 0600
)

// ErrNoToken is returned when no token has been saved.
var ErrNoToken = errors.New("no token saved")

// TokenStore keeps the bearer token used to fetch remote datasets in the OS
// keychain, falling back to a file in dir when no keychain is available.
type TokenStore struct {
	dir string
}

func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

func (s *TokenStore) filePath() string {
	return filepath.Join(s.dir, tokenFileName)
}

// Save stores token.
func (s *TokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is required")
	}

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return s.saveFile(token)
	}

	// Clean up legacy file if it exists
	os.Remove(s.filePath())
	return nil
}

// Get returns the saved token or ErrNoToken.
func (s *TokenStore) Get() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}

	token, err = s.getFile()
	if err != nil {
		return "", err
	}

	// Migrate to keychain
	if migrateErr := keyring.Set(keyringService, keyringUser, token); migrateErr == nil {
		slog.Info("migrated token from file to OS keychain")
		os.Remove(s.filePath())
	}

	return token, nil
}

// Delete removes the token from the keychain and the fallback file.
func (s *TokenStore) Delete() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("error deleting token from keychain", "error", err)
	}
	if err := os.Remove(s.filePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

func (s *TokenStore) saveFile(token string) error {
	if s.dir == "" {
		return errors.New("token directory not set")
	}
	if err := os.WriteFile(s.filePath(), []byte(token), fileMode); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

func (s *TokenStore) getFile() (string, error) {
	if s.dir == "" {
		return "", ErrNoToken
	}
	b, err := os.ReadFile(s.filePath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", s.filePath(), err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
