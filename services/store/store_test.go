package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMarkAndContains(t *testing.T) {
	s := NewSet()
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)

	assert.False(t, s.Contains("abc"))

	s.Mark("abc", now)
	assert.True(t, s.Contains("abc"))

	got, ok := s.FirstSeen("abc")
	require.True(t, ok)
	assert.Equal(t, now, got)
}

func TestSetMarkKeepsEarliestTimestamp(t *testing.T) {
	s := NewSet()
	first := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	s.Mark("abc", first)
	s.Mark("abc", later)

	got, ok := s.FirstSeen("abc")
	require.True(t, ok)
	assert.Equal(t, first, got, "re-marking must not move the first-seen time")
}

func TestSetPrune(t *testing.T) {
	s := NewSet()
	now := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)

	s.Mark("old", now.Add(-40*24*time.Hour))
	s.Mark("edge", now.Add(-30*24*time.Hour))
	s.Mark("fresh", now.Add(-time.Hour))

	removed := s.Prune(30*24*time.Hour, now)

	assert.Equal(t, 1, removed)
	assert.False(t, s.Contains("old"))
	assert.True(t, s.Contains("edge"), "entries exactly at the cutoff are kept")
	assert.True(t, s.Contains("fresh"))
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	fs := NewFileStore(path)

	s := NewSet()
	s.Mark("deal-1", time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC))
	s.Mark("deal-2", time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC))

	require.NoError(t, fs.Save(s))

	loaded := fs.Load()
	assert.Len(t, loaded, 2)
	assert.True(t, loaded.Contains("deal-1"))
	assert.True(t, loaded.Contains("deal-2"))

	ts, ok := loaded.FirstSeen("deal-2")
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2025, 11, 4, 9, 30, 0, 0, time.UTC)))
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

	s := fs.Load()
	assert.NotNil(t, s)
	assert.Empty(t, s)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	fs := NewFileStore(path)

	s := fs.Load()
	assert.NotNil(t, s)
	assert.Empty(t, s)
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seen.json")
	fs := NewFileStore(path)

	s := NewSet()
	s.Mark("deal-1", time.Now().UTC())
	require.NoError(t, fs.Save(s))
	require.NoError(t, fs.Save(s))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "seen.json", entries[0].Name())
}
