package logadmin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadVerbatim(t *testing.T) {
	dir := t.TempDir()
	content := "[INFO] line one\nmalformed middle line\n[ERROR] line three\n"
	writeChannel(t, dir, "general.log", content)

	m := NewMaintainer(NewRegistry(dir), nil)
	data, filename, err := m.Download(context.Background(), "general")
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
	assert.Equal(t, "general.log", filename)
}

func TestDownloadUnknownChannel(t *testing.T) {
	m := NewMaintainer(NewRegistry(t.TempDir()), nil)
	_, _, err := m.Download(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestDownloadMissingFile(t *testing.T) {
	m := NewMaintainer(NewRegistry(t.TempDir()), nil)
	_, _, err := m.Download(context.Background(), "security")
	require.ErrorIs(t, err, ErrFileUnavailable)
}

func TestClearBacksUpThenTruncates(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, "error.log", "line1\nline2\n")

	m := NewMaintainer(NewRegistry(dir), nil)
	result, err := m.Clear(context.Background(), "error", "admin@test.local")
	require.NoError(t, err)
	assert.True(t, result.Cleared)

	backup, err := os.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2\n", string(backup))

	live, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestClearOverwritesBackupSlot(t *testing.T) {
	dir := t.TempDir()
	m := NewMaintainer(NewRegistry(dir), nil)

	writeChannel(t, dir, "general.log", "first generation\n")
	_, err := m.Clear(context.Background(), "general", "")
	require.NoError(t, err)

	writeChannel(t, dir, "general.log", "second generation\n")
	result, err := m.Clear(context.Background(), "general", "")
	require.NoError(t, err)

	backup, err := os.ReadFile(result.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "second generation\n", string(backup))
}

func TestClearMissingFileIsNoOp(t *testing.T) {
	dir := t.TempDir()
	m := NewMaintainer(NewRegistry(dir), nil)

	result, err := m.Clear(context.Background(), "database", "admin@test.local")
	require.NoError(t, err)
	assert.False(t, result.Cleared)
	assert.Equal(t, "log file does not exist", result.Message)
	assert.NoFileExists(t, filepath.Join(dir, "database.log.backup"))
}

func TestClearUnknownChannel(t *testing.T) {
	m := NewMaintainer(NewRegistry(t.TempDir()), nil)
	_, err := m.Clear(context.Background(), "ghost", "")
	require.ErrorIs(t, err, ErrChannelNotFound)
}
