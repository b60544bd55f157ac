package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vitalrisk/ml"
)

func TestFileStorePutGet(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "bundles"))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("current")
	require.NoError(t, err)
	require.False(t, ok, "absent key is not-trained-yet, not an error")

	require.NoError(t, s.Put("current", []byte(`{"v":1}`)))
	data, ok, err := s.Get("current")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"v":1}`), data)

	// Overwrite replaces atomically, leaving no temp file behind.
	require.NoError(t, s.Put("current", []byte(`{"v":2}`)))
	data, ok, err = s.Get("current")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"v":2}`), data)

	entries, err := os.ReadDir(s.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "current.json", entries[0].Name())
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.Error(t, s.Put("../escape", []byte("x")))
	_, _, err = s.Get("")
	require.Error(t, err)
}

func TestKeyFromPath(t *testing.T) {
	require.Equal(t, "current", KeyFromPath("/data/bundles/current.json"))
	require.Equal(t, "", KeyFromPath("/data/bundles/current.json.tmp"))
	require.Equal(t, "", KeyFromPath("/data/bundles/notes.txt"))
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put("k", []byte("abc")))
	data, ok, err := s.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("abc"), data)

	// The stored copy is isolated from caller mutation.
	data[0] = 'z'
	fresh, _, _ := s.Get("k")
	require.Equal(t, []byte("abc"), fresh)
}

func TestSQLiteStorePutGet(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "vitalrisk.db"))
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("current")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put("current", []byte("one")))
	require.NoError(t, s.Put("current", []byte("two")))

	data, ok, err := s.Get("current")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("two"), data)
}

func TestSQLiteStoreTrainingLog(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "vitalrisk.db"))
	require.NoError(t, err)
	defer s.Close()

	report := &ml.EvaluationReport{
		Accuracy:  0.94,
		Precision: 0.91,
		Recall:    0.89,
		F1:        0.90,
		ROCAUC:    0.97,
		TrainRows: 800,
		TestRows:  200,
	}
	require.NoError(t, s.LogTrainingRun("current", report))
	require.NoError(t, s.LogTrainingRun("current", report))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM training_runs`).Scan(&count))
	require.Equal(t, 2, count)
}
