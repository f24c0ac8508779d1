package store

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresLibrary_Library(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	lib := NewPostgresLibrary(mock, testLogger())

	t.Run("normalizes stored identifiers", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"paper_id"}).
			AddRow("1705.00001v2").
			AddRow("1604.11111")
		mock.ExpectQuery("SELECT paper_id FROM library").
			WithArgs("u1").
			WillReturnRows(rows)

		library, err := lib.Library(context.Background(), "u1")
		require.NoError(t, err)

		assert.Len(t, library, 2)
		assert.Contains(t, library, "1705.00001")
		assert.Contains(t, library, "1604.11111")
		assert.NotContains(t, library, "1705.00001v2")
	})

	t.Run("unknown user yields empty set", func(t *testing.T) {
		mock.ExpectQuery("SELECT paper_id FROM library").
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows([]string{"paper_id"}))

		library, err := lib.Library(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Empty(t, library)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLibrary_Users(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"user_id"}).
		AddRow("u1").
		AddRow("u2")
	mock.ExpectQuery("SELECT user_id FROM users").
		WillReturnRows(rows)

	lib := NewPostgresLibrary(mock, testLogger())
	users, err := lib.Users(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2"}, users)
	require.NoError(t, mock.ExpectationsWereMet())
}
