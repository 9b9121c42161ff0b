package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestTokenStore(t *testing.T) {
	keyring.MockInit()
	s := NewTokenStore(t.TempDir())

	_, err := s.Get()
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, s.Save("  secret\n"))
	token, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "secret", token)

	require.NoError(t, s.Delete())
	_, err = s.Get()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestTokenStore_EmptyToken(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, NewTokenStore(t.TempDir()).Save(" "))
}

func TestTokenStore_MigratesFile(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	s := NewTokenStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFileName), []byte("legacy"), fileMode))

	token, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "legacy", token)

	_, err = os.Stat(filepath.Join(dir, tokenFileName))
	assert.ErrorIs(t, err, os.ErrNotExist)

	token, err = s.Get()
	require.NoError(t, err)
	assert.Equal(t, "legacy", token)
}

func TestTokenStore_FileFallback(t *testing.T) {
	keyring.MockInitWithError(assert.AnError)
	dir := t.TempDir()
	s := NewTokenStore(dir)

	require.NoError(t, s.Save("fallback"))
	b, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, "fallback", string(b))

	token, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "fallback", token)
}
