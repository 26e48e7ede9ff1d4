package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// fileKV keeps every key in memory and rewrites a JSON snapshot on each
// mutation so the data survives restarts.
type fileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFileKV loads the snapshot at path, starting empty if it does not exist.
func OpenFileKV(path string) (KV, error) {
	data, err := readSnapshot(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot %s", path)
	}
	return &fileKV{path: path, data: data}, nil
}

func (f *fileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (f *fileKV) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.data[key]
	f.data[key] = string(value)
	if err := writeSnapshot(f.path, f.data); err != nil {
		if existed {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return errors.Wrapf(err, "failed to persist key %s", key)
	}
	return nil
}

func (f *fileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.data[key]
	if !existed {
		return nil
	}
	delete(f.data, key)
	if err := writeSnapshot(f.path, f.data); err != nil {
		f.data[key] = prev
		return errors.Wrapf(err, "failed to persist deletion of %s", key)
	}
	return nil
}

func (f *fileKV) Close() error {
	return nil
}

func readSnapshot(path string) (map[string]string, error) {
	data := make(map[string]string)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// writeSnapshot replaces the file atomically via a temp file and rename.
func writeSnapshot(path string, data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	temp := path + ".tmp"
	if err := os.WriteFile(temp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(temp, path)
}
