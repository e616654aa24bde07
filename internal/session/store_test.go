// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoginThenRestore(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(dir)
	require.NoError(t, store.Login("tok1", "alice"))
	assert.True(t, store.Authenticated())
	assert.Equal(t, "tok1", store.Token())

	// Simulated reload: a fresh store over the same directory.
	reloaded := NewStore(dir)
	require.NoError(t, reloaded.RestoreFromStorage())
	assert.True(t, reloaded.Authenticated())
	assert.Equal(t, "tok1", reloaded.Token())
	assert.Equal(t, "alice", reloaded.Username())
}

func TestStore_AuthenticatedDerivedFromToken(t *testing.T) {
	dir := t.TempDir()

	// A persisted record with an empty token must restore as logged out,
	// regardless of what else the file claims.
	path := filepath.Join(dir, CredentialsFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"","username":"alice"}`), 0600))

	store := NewStore(dir)
	require.NoError(t, store.RestoreFromStorage())
	assert.False(t, store.Authenticated())
}

func TestStore_RestoreMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.RestoreFromStorage())
	assert.False(t, store.Authenticated())
}

func TestStore_RestoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CredentialsFileName), []byte("{not json"), 0600))

	store := NewStore(dir)
	require.NoError(t, store.RestoreFromStorage())
	assert.False(t, store.Authenticated())
}

func TestStore_LogoutClearsEverything(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Login("tok1", "alice"))

	store.Logout()
	assert.False(t, store.Authenticated())
	assert.Empty(t, store.Token())
	assert.Empty(t, store.Username())

	_, err := os.Stat(filepath.Join(dir, CredentialsFileName))
	assert.True(t, os.IsNotExist(err), "credentials file should be removed on logout")
}

func TestStore_OnClearNotified(t *testing.T) {
	store := NewStore("")
	require.NoError(t, store.Login("tok1", "alice"))

	cleared := 0
	store.OnClear(func() { cleared++ })

	store.Invalidate()
	assert.Equal(t, 1, cleared)
	assert.False(t, store.Authenticated())

	// A second teardown still notifies; subscribers decide idempotency.
	store.Logout()
	assert.Equal(t, 2, cleared)
}

func TestStore_CredentialsFileMode(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Login("tok1", "alice"))

	info, err := os.Stat(filepath.Join(dir, CredentialsFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
