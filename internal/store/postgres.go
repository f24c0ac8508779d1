package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/pkg/arxiv"
)

// PgxQuerier is the subset of pgxpool.Pool the library store needs.
// pgxmock satisfies it in tests.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresLibrary reads user libraries from Postgres.
type PostgresLibrary struct {
	db     PgxQuerier
	logger *logrus.Logger
}

func NewPostgresLibrary(db PgxQuerier, logger *logrus.Logger) *PostgresLibrary {
	return &PostgresLibrary{
		db:     db,
		logger: logger,
	}
}

func (s *PostgresLibrary) Library(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := s.db.Query(ctx, `SELECT paper_id FROM library WHERE user_id = $1`, userID)
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

func (s *PostgresLibrary) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT user_id FROM users ORDER BY user_id`)
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
