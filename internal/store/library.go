package store

import "context"

// LibraryStore exposes the papers each user already holds. Entries are
// returned with normalized identifiers and serve purely as a
// recommendation filter; library papers are never scored.
type LibraryStore interface {
	// Library returns the set of paper ids in a user's library. An unknown
	// user yields an empty set.
	Library(ctx context.Context, userID string) (map[string]struct{}, error)

	// Users lists all known user ids, in a stable order.
	Users(ctx context.Context) ([]string, error)
}
