package logadmin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChannel(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644))
}

func logLine(level string, n int) string {
	return fmt.Sprintf("[%s] 2026-01-09 20:00:%02d,000 core 11 22 event %d", level, n%60, n)
}

func TestReadUnknownChannel(t *testing.T) {
	reader := NewReader(NewRegistry(t.TempDir()), nil)
	_, err := reader.Read(context.Background(), Query{Channel: "ghost"})
	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestReadMissingFileYieldsSyntheticEntry(t *testing.T) {
	reader := NewReader(NewRegistry(t.TempDir()), nil)
	result, err := reader.Read(context.Background(), Query{Channel: "general", Page: 1})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "INFO", result.Entries[0].Level)
	assert.Contains(t, result.Entries[0].Message, "not created yet")
	assert.Equal(t, 1, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.Info)
}

func TestReadTailWindowAndOrder(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 0; i < 600; i++ {
		b.WriteString(logLine("INFO", i))
		b.WriteByte('\n')
	}
	writeChannel(t, dir, "general.log", b.String())

	reader := NewReader(NewRegistry(dir), nil)
	result, err := reader.Read(context.Background(), Query{Channel: "general", Page: 1})
	require.NoError(t, err)

	// Only the last 500 lines are visible, most recent first.
	assert.Equal(t, 500, result.Stats.Total)
	assert.Equal(t, 500, result.Pagination.Total)
	require.NotEmpty(t, result.Entries)
	assert.Equal(t, "event 599", result.Entries[0].Message)
	assert.Equal(t, "event 550", result.Entries[49].Message)
	assert.Len(t, result.Entries, 50)

	// The trailing newline must not cost a window slot: the oldest visible
	// entry is the 500th-most-recent line, on the last page.
	last, err := reader.Read(context.Background(), Query{Channel: "general", Page: 10})
	require.NoError(t, err)
	require.Len(t, last.Entries, 50)
	assert.Equal(t, "event 100", last.Entries[49].Message)
}

func TestReadFiltersAreConjunctive(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"[ERROR] 2026-01-09 20:00:00,000 db 1 2 disk failure",
		"[ERROR] 2026-01-09 20:00:01,000 db 1 2 connection reset",
		"[INFO] 2026-01-09 20:00:02,000 db 1 2 disk healthy",
	}, "\n") + "\n"
	writeChannel(t, dir, "database.log", content)

	reader := NewReader(NewRegistry(dir), nil)

	both, err := reader.Read(context.Background(), Query{Channel: "database", Search: "DISK", Level: "ERROR", Page: 1})
	require.NoError(t, err)
	require.Len(t, both.Entries, 1)
	assert.Equal(t, "disk failure", both.Entries[0].Message)

	searchOnly, err := reader.Read(context.Background(), Query{Channel: "database", Search: "DISK", Page: 1})
	require.NoError(t, err)
	levelOnly, err := reader.Read(context.Background(), Query{Channel: "database", Level: "ERROR", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, searchOnly.Stats.Total)
	assert.Equal(t, 2, levelOnly.Stats.Total)
}

func TestReadStatsSumToTotal(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		logLine("ERROR", 1),
		logLine("ERROR", 2),
		logLine("ERROR", 3),
		logLine("INFO", 4),
		logLine("INFO", 5),
		logLine("INFO", 6),
		logLine("INFO", 7),
		logLine("INFO", 8),
		logLine("INFO", 9),
		logLine("INFO", 10),
		"free-form line without a level",
	}, "\n") + "\n"
	writeChannel(t, dir, "general.log", content)

	reader := NewReader(NewRegistry(dir), nil)

	all, err := reader.Read(context.Background(), Query{Channel: "general", Page: 1})
	require.NoError(t, err)
	sum := all.Stats.Debug + all.Stats.Info + all.Stats.Warning +
		all.Stats.Error + all.Stats.Critical + all.Stats.Unknown
	assert.Equal(t, all.Stats.Total, sum)
	assert.Equal(t, 1, all.Stats.Unknown)

	errorsOnly, err := reader.Read(context.Background(), Query{Channel: "general", Level: "ERROR", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, errorsOnly.Stats.Total)
	assert.Equal(t, 3, errorsOnly.Stats.Error)
	assert.Equal(t, 0, errorsOnly.Stats.Info)
}

func TestReadPageBeyondRangeIsEmpty(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString(logLine("INFO", i))
		b.WriteByte('\n')
	}
	writeChannel(t, dir, "security.log", b.String())

	reader := NewReader(NewRegistry(dir), nil)
	result, err := reader.Read(context.Background(), Query{Channel: "security", Page: 999})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Equal(t, 5, result.Pagination.Total)
	assert.Equal(t, 999, result.Pagination.Page)
}

func TestReadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	writeChannel(t, dir, "error.log", "\n\n"+logLine("ERROR", 1)+"\n\n")

	reader := NewReader(NewRegistry(dir), nil)
	result, err := reader.Read(context.Background(), Query{Channel: "error", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Total)
}
