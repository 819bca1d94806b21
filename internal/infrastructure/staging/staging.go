package staging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/share-project-api/internal/domain"
	"github.com/share-project-api/internal/pkg/id"
)

// Store owns the staging directory holding uploaded archives that are
// waiting for email verification. Each artifact belongs to exactly one
// verification token until deployment or cleanup reclaims it.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists an upload stream as a staging artifact and returns its
// absolute path. The display name only prefixes the filename; a ULID
// suffix keeps artifacts unique across concurrent uploads.
func (s *Store) Save(r io.Reader, name string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", domain.ErrPersistence)
	}

	p := filepath.Join(s.dir, fmt.Sprintf("%s-%s.zip", sanitizeFilename(name), id.New()))
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", domain.ErrPersistence)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(abs)
		return "", fmt.Errorf("write staging file: %w", domain.ErrPersistence)
	}
	if err := f.Close(); err != nil {
		os.Remove(abs)
		return "", fmt.Errorf("close staging file: %w", domain.ErrPersistence)
	}
	return abs, nil
}

// Remove deletes a staging artifact. Best effort and idempotent:
// callers invoke it on every exit path without caring whether an
// earlier path already reclaimed the file.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove staging file", "path", path, "err", err)
	}
}

// ReapStale removes staging artifacts older than maxAge and returns
// how many went. Only *.zip entries are touched, so the token cache
// document sharing the directory survives. With maxAge above the token
// TTL, anything reaped belongs to an expired or abandoned upload.
func (s *Store) ReapStale(maxAge time.Duration) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed
}

// StartReaper launches the background loop that reclaims stale
// staging artifacts, covering uploads whose handler never finished.
func (s *Store) StartReaper(interval, maxAge time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			if n := s.ReapStale(maxAge); n > 0 {
				slog.Info("reaped stale staging files", "count", n)
			}
		}
	}()
}

// sanitizeFilename strips directory components and keeps only safe
// characters (alphanumeric, dot, dash, underscore) so user-supplied
// display names cannot traverse out of the staging directory.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "upload"
}
