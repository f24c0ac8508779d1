package producers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/internal/store"
)

// EnsureDefaultWeights bootstraps the default signal weights for every
// known user, leaving already-adapted weights untouched.
func EnsureDefaultWeights(ctx context.Context, library store.LibraryStore, weights *store.WeightStore, defaults map[string]float64, logger *logrus.Logger) error {
	users, err := library.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	added, err := weights.EnsureDefaults(users, defaults)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"users":         len(users),
		"weights_added": added,
	}).Info("Default weights ensured")
	return nil
}
