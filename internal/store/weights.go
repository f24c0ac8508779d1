package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/arxrec/arxrec/pkg/models"
)

// ErrUserNotRegistered is returned when an operation needs a weight entry
// that was never created for the user.
var ErrUserNotRegistered = errors.New("user not registered in weight store")

// WeightStore owns the mutable user -> signal -> weight mapping. It is the
// only runtime-mutated state in the system; every mutation rewrites the
// full blob before returning, so in-memory and durable state only diverge
// after a reported write failure.
type WeightStore struct {
	logger *logrus.Logger
	path   string

	mu      sync.Mutex
	weights models.WeightMap
}

func NewWeightStore(path string, logger *logrus.Logger) *WeightStore {
	return &WeightStore{
		logger: logger,
		path:   path,
	}
}

// Load reads and validates the weight blob. The blob must exist before the
// engine serves; run the weight initializer first.
func (ws *WeightStore) Load() error {
	data, err := readBlob(ws.path)
	if err != nil {
		return fmt.Errorf("weight store: %w", err)
	}
	return ws.loadBytes(data)
}

// LoadOrInit is Load except a missing blob yields an empty mapping. Meant
// for the offline weight initializer, which creates the blob on first run;
// the serving path uses the strict Load.
func (ws *WeightStore) LoadOrInit() error {
	data, err := readBlob(ws.path)
	if errors.Is(err, os.ErrNotExist) {
		ws.mu.Lock()
		ws.weights = make(models.WeightMap)
		ws.mu.Unlock()
		ws.logger.WithField("path", ws.path).Info("Weight blob absent, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("weight store: %w", err)
	}
	return ws.loadBytes(data)
}

func (ws *WeightStore) loadBytes(data []byte) error {
	if err := validateBlob(weightValidator, data, ws.path); err != nil {
		return err
	}

	var raw map[string]map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode weight blob %s: %w", ws.path, err)
	}

	weights := make(models.WeightMap, len(raw))
	for userID, signals := range raw {
		entry := make(map[string]float64, len(signals))
		for signal, weight := range signals {
			entry[signal] = weight
		}
		weights[userID] = entry
	}

	ws.mu.Lock()
	ws.weights = weights
	ws.mu.Unlock()

	ws.logger.WithField("users", len(weights)).Info("Weight store loaded")
	return nil
}

// Weights returns a copy of the user's signal weights. An unknown user
// yields an empty map (cold start, not an error).
func (ws *WeightStore) Weights(userID string) map[string]float64 {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	entry, ok := ws.weights[userID]
	if !ok {
		return map[string]float64{}
	}
	weights := make(map[string]float64, len(entry))
	for signal, weight := range entry {
		weights[signal] = weight
	}
	return weights
}

// Registered reports whether the user has a weight entry.
func (ws *WeightStore) Registered(userID string) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	_, ok := ws.weights[userID]
	return ok
}

// RegisterUser creates an empty signal map for a new user and persists.
// Registering an existing user is an informational no-op.
func (ws *WeightStore) RegisterUser(userID string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if _, ok := ws.weights[userID]; ok {
		ws.logger.WithField("user_id", userID).Info("User already registered in weight store")
		return nil
	}

	ws.weights[userID] = make(map[string]float64)
	if err := ws.persistLocked(); err != nil {
		delete(ws.weights, userID)
		return err
	}

	ws.logger.WithField("user_id", userID).Info("User registered in weight store")
	return nil
}

// RegisterSignal sets the initial weight of 1.0 for a signal the caller
// has judged eligible for the user. An already-registered signal is an
// informational no-op; an ineligible signal leaves the mapping untouched
// but still rewrites the blob, matching the historical persist-always
// behavior of registration.
func (ws *WeightStore) RegisterSignal(userID, signal string, eligible bool) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	entry, ok := ws.weights[userID]
	if !ok {
		return fmt.Errorf("register signal %s: %w", signal, ErrUserNotRegistered)
	}

	if _, ok := entry[signal]; ok {
		ws.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"signal":  signal,
		}).Info("Signal already registered for user")
		return nil
	}

	if eligible {
		entry[signal] = 1.0
	} else {
		ws.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"signal":  signal,
		}).Debug("Signal not eligible for user, weight not set")
	}

	return ws.persistLocked()
}

// Update applies fn to the user's weight entry under the store lock and
// persists the full mapping. The read-modify-write is atomic with respect
// to other Update and Register calls, so concurrent adaptation cannot lose
// nudges.
func (ws *WeightStore) Update(userID string, fn func(weights map[string]float64)) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	entry, ok := ws.weights[userID]
	if !ok {
		return ErrUserNotRegistered
	}

	fn(entry)
	return ws.persistLocked()
}

// EnsureDefaults guarantees that every listed user carries the given
// bootstrap weights, without overwriting weights that already exist.
// Returns the number of weight entries added.
func (ws *WeightStore) EnsureDefaults(users []string, defaults map[string]float64) (int, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	added := 0
	for _, userID := range users {
		entry, ok := ws.weights[userID]
		if !ok {
			entry = make(map[string]float64, len(defaults))
			ws.weights[userID] = entry
		}
		for signal, weight := range defaults {
			if _, ok := entry[signal]; !ok {
				entry[signal] = weight
				added++
			}
		}
	}

	if err := ws.persistLocked(); err != nil {
		return added, err
	}
	return added, nil
}

// Snapshot returns a deep copy of the full weight mapping.
func (ws *WeightStore) Snapshot() models.WeightMap {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	snapshot := make(models.WeightMap, len(ws.weights))
	for userID, entry := range ws.weights {
		weights := make(map[string]float64, len(entry))
		for signal, weight := range entry {
			weights[signal] = weight
		}
		snapshot[userID] = weights
	}
	return snapshot
}

func (ws *WeightStore) persistLocked() error {
	if err := writeBlob(ws.path, ws.weights); err != nil {
		return fmt.Errorf("failed to persist weight store: %w", err)
	}
	return nil
}
