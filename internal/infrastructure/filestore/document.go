package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/share-project-api/internal/domain"
)

// document is a JSON file holding a string-keyed map. Every access is
// a full read-modify-write cycle under one mutex, so interleaved
// operations on different keys cannot corrupt each other.
//
// A missing, unreadable, or corrupt backing file reads as an empty map
// and is never fatal. Write failures surface as domain.ErrPersistence.
type document[T any] struct {
	mu   sync.Mutex
	path string
}

func newDocument[T any](path string) *document[T] {
	return &document[T]{path: path}
}

// update runs fn over the decoded map while holding the store mutex.
// When fn reports dirty, the map is persisted even if fn also returned
// an error; lazy expiry deletes an entry and still reports not found.
func (d *document[T]) update(fn func(map[string]T) (bool, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := d.load()
	dirty, fnErr := fn(m)
	if dirty {
		if err := d.save(m); err != nil {
			return err
		}
	}
	return fnErr
}

func (d *document[T]) load() map[string]T {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return map[string]T{}
	}
	var m map[string]T
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return map[string]T{}
	}
	return m
}

// save writes to a sibling temp file and renames it over the document,
// so a crashed write never leaves a half-written store behind.
func (d *document[T]) save(m map[string]T) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode store %s: %w", d.path, domain.ErrPersistence)
	}
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store %s: %w", d.path, domain.ErrPersistence)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("replace store %s: %w", d.path, domain.ErrPersistence)
	}
	return nil
}
