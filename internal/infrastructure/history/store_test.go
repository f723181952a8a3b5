package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/be-go/internal/domain"
	"github.com/doeshing/be-go/internal/ports"
)

func sessions() []domain.Session {
	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Session{
		{Item: "nike/shot1/animation", Shell: "/bin/bash", DevelopmentDirectory: "/p/nike/shot1", Entered: true, StartedAt: start, Duration: 90 * time.Second},
		{Item: "nike/shot2/comp", Shell: "/bin/bash", StartedAt: start.Add(time.Hour), Duration: time.Minute, ExitCode: 1},
		{Item: "adidas/s1", Shell: "/bin/dash", StartedAt: start.Add(2 * time.Hour), Duration: time.Second},
	}
}

func exercise(t *testing.T, store ports.SessionRepository) {
	t.Helper()
	for _, s := range sessions() {
		require.NoError(t, store.Save(s))
	}

	all, err := store.Records(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "adidas/s1", all[0].Item)
	assert.Equal(t, "nike/shot1/animation", all[2].Item)
	assert.True(t, all[2].Entered)
	assert.Equal(t, 90*time.Second, all[2].Duration)
	assert.True(t, all[2].StartedAt.Equal(sessions()[0].StartedAt))
	assert.Equal(t, 1, all[1].ExitCode)

	recent, err := store.Records(2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	require.NoError(t, store.Clear())
	all, err = store.Records(0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store := NewSQLiteStore(path)
	t.Cleanup(func() { _ = store.Close() })

	assert.Equal(t, path, store.Path())
	exercise(t, store)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.jsonl")
	exercise(t, NewFileStore(path))
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n{\"item\":\"nike/shot1\"}\n"), 0o600))

	records, err := NewFileStore(path).Records(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "nike/shot1", records[0].Item)
}

func TestNewSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	store := New(domain.HistorySettings{Backend: domain.HistoryBackendJSONL, Path: filepath.Join(dir, "h.jsonl")})
	assert.IsType(t, &FileStore{}, store)

	store = New(domain.HistorySettings{Backend: domain.HistoryBackendSQLite, Path: filepath.Join(dir, "h.db")})
	assert.IsType(t, &SQLiteStore{}, store)
	_ = store.(*SQLiteStore).Close()
}
