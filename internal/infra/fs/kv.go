package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDataDir is where the store keeps its files when none is configured.
const DefaultDataDir = "data_in"

var ErrInvalidKey = errors.New("invalid storage key")

// KV is a flat key-value store with one JSON file per key.
// Values are replaced whole; there is no partial update.
type KV struct {
	dir string
}

func NewKV(dir string) *KV {
	if dir == "" {
		dir = DefaultDataDir
	}
	return &KV{dir: dir}
}

func (kv *KV) Dir() string {
	return kv.dir
}

func (kv *KV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(kv.dir, key+".json"), nil
}

// Get returns the stored bytes. A missing key is not an error: ok is false.
func (kv *KV) Get(key string) (data []byte, ok bool, err error) {
	filePath, err := kv.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err = os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return data, true, nil
}

// Set replaces the value under key via a temp file and rename.
func (kv *KV) Set(key string, data []byte) error {
	filePath, err := kv.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(kv.dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFilePath := filePath + ".tmp"
	if err := os.WriteFile(tempFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFilePath, filePath); err != nil {
		_ = os.Remove(tempFilePath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func (kv *KV) Delete(key string) error {
	filePath, err := kv.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", filePath, err)
	}
	return nil
}
