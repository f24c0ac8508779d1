package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (user_id TEXT PRIMARY KEY);
		CREATE TABLE library (
			user_id TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			PRIMARY KEY (user_id, paper_id)
		);
	`)
	require.NoError(t, err)
	return db
}

func TestSQLiteLibrary(t *testing.T) {
	db := newTestSQLite(t)

	_, err := db.Exec(`INSERT INTO users (user_id) VALUES ('u1'), ('u2')`)
	require.NoError(t, err)
	_, err = db.Exec(`
		INSERT INTO library (user_id, paper_id) VALUES
			('u1', '1705.00001v2'),
			('u1', '1604.11111'),
			('u2', '1705.00001')
	`)
	require.NoError(t, err)

	lib := NewSQLiteLibrary(db, testLogger())

	t.Run("library is normalized", func(t *testing.T) {
		library, err := lib.Library(context.Background(), "u1")
		require.NoError(t, err)

		assert.Len(t, library, 2)
		assert.Contains(t, library, "1705.00001")
		assert.Contains(t, library, "1604.11111")
	})

	t.Run("unknown user yields empty set", func(t *testing.T) {
		library, err := lib.Library(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Empty(t, library)
	})

	t.Run("users listed in stable order", func(t *testing.T) {
		users, err := lib.Users(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2"}, users)
	})
}
