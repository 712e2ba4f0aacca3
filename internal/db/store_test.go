package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "varhab.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Exec("CREATE TABLE t (n INTEGER)"))
}

func TestRecreateTable(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.RecreateTable("demo", "n INTEGER NOT NULL, PRIMARY KEY (n)"))
	require.NoError(t, s.Exec("INSERT INTO demo (n) VALUES (?)", 1))

	// Recreating drops any previous content.
	require.NoError(t, s.RecreateTable("demo", "n INTEGER NOT NULL, PRIMARY KEY (n)"))

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM demo").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestExecUpsert(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.RecreateTable("demo", "k VARCHAR NOT NULL, v INTEGER, PRIMARY KEY (k)"))
	require.NoError(t, s.Exec("INSERT OR REPLACE INTO demo (k, v) VALUES (?, ?)", "a", 1))
	require.NoError(t, s.Exec("INSERT OR REPLACE INTO demo (k, v) VALUES (?, ?)", "a", 2))

	var v int
	require.NoError(t, s.DB().QueryRow("SELECT v FROM demo WHERE k = 'a'").Scan(&v))
	assert.Equal(t, 2, v)
}

func TestCreateIndexes(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.RecreateTable("demo", "n INTEGER NOT NULL"))
	require.NoError(t, s.CreateIndexes(
		"CREATE INDEX IF NOT EXISTS demo_n ON demo (n)",
		"CREATE INDEX IF NOT EXISTS demo_n ON demo (n)"))

	err := s.CreateIndexes("CREATE INDEX broken ON missing_table (n)")
	assert.Error(t, err)
}
