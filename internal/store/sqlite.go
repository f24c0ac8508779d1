package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/pkg/arxiv"
)

// SQLiteLibrary reads user libraries from the single-file SQLite database
// the ingestion pipeline maintains.
type SQLiteLibrary struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewSQLiteLibrary(db *sql.DB, logger *logrus.Logger) *SQLiteLibrary {
	return &SQLiteLibrary{
		db:     db,
		logger: logger,
	}
}

func (s *SQLiteLibrary) Library(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT paper_id FROM library WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query library for user %s: %w", userID, err)
	}
	defer rows.Close()

	library := make(map[string]struct{})
	for rows.Next() {
		var paperID string
		if err := rows.Scan(&paperID); err != nil {
			return nil, fmt.Errorf("failed to scan library row: %w", err)
		}
		library[arxiv.StripVersion(paperID)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read library rows: %w", err)
	}

	return library, nil
}

func (s *SQLiteLibrary) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}
