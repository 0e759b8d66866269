package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage is a small key-value store backed by a single JSON file.
// It is the client-side equivalent of the browser's localStorage entries
// and holds nothing but the two credential values.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a storage over the given file path. The file and
// its directory are created on first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultPath returns the standard credentials file location under the
// user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shopadmin", "credentials.json"), nil
}

// Get returns the value for key and whether it was present.
func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return "", false
	}
	value, ok := entries[key]
	return value, ok
}

// Set writes the value for key.
func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.save(entries)
}

// Delete removes the entry for key. Deleting a missing key is not an
// error.
func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.save(entries)
}

func (f *FileStorage) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries := map[string]string{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		// A corrupt credentials file is treated as empty rather than
		// locking the user out of login.
		return map[string]string{}, nil
	}
	return entries, nil
}

func (f *FileStorage) save(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}
