package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// readBlob loads a JSON blob from disk. Missing-file errors are returned
// unwrapped inside the chain so callers can distinguish absence from
// corruption with errors.Is(err, os.ErrNotExist).
func readBlob(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", path, err)
	}
	return data, nil
}

// writeBlob persists a value with overwrite-on-write semantics: the
// payload goes to a temporary file in the target directory and is renamed
// over the destination, so a reader never observes a partially written
// blob.
func writeBlob(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode blob %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write blob %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace blob %s: %w", path, err)
	}
	return nil
}

// SaveScoreBlob writes a score mapping produced by an offline job. Exposed
// for the cache generator; the serving path never writes score blobs.
func SaveScoreBlob(path string, scores interface{}) error {
	return writeBlob(path, scores)
}
