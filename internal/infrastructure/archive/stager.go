package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/share-project-api/internal/domain"
)

// Stager materializes validated archives into the public project tree.
// Deployments of the same project name serialize on a per-name mutex;
// different names run concurrently.
type Stager struct {
	publicRoot string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStager(publicRoot string) *Stager {
	return &Stager{
		publicRoot: publicRoot,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (s *Stager) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[name]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[name] = l
	return l
}

// Deploy wipes any prior contents at publicRoot/projectName and
// extracts the archive's full tree into it. On failure partial
// contents are left in place and the error is surfaced; the caller
// owns retry and cleanup.
func (s *Stager) Deploy(archivePath, projectName string) (string, error) {
	if !SafeProjectName(projectName) {
		return "", domain.E(domain.ErrValidation, fmt.Sprintf("项目名称 '%s' 无效", projectName))
	}

	l := s.lock(projectName)
	l.Lock()
	defer l.Unlock()

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		slog.Error("deploy failed to open archive", "path", archivePath, "err", err)
		return "", domain.E(domain.ErrExtraction, "项目部署失败")
	}
	defer zr.Close()

	dest := filepath.Join(s.publicRoot, projectName)
	if err := os.RemoveAll(dest); err != nil {
		slog.Error("deploy failed to clear project directory", "path", dest, "err", err)
		return "", domain.E(domain.ErrExtraction, "项目部署失败")
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		slog.Error("deploy failed to create project directory", "path", dest, "err", err)
		return "", domain.E(domain.ErrExtraction, "项目部署失败")
	}

	for _, f := range zr.File {
		if err := extractEntry(dest, f); err != nil {
			return "", err
		}
	}
	return dest, nil
}

// Remove deletes a deployed project directory under the same per-name
// lock Deploy uses.
func (s *Stager) Remove(projectName string) error {
	if !SafeProjectName(projectName) {
		return domain.E(domain.ErrValidation, fmt.Sprintf("项目名称 '%s' 无效", projectName))
	}

	l := s.lock(projectName)
	l.Lock()
	defer l.Unlock()

	if err := os.RemoveAll(filepath.Join(s.publicRoot, projectName)); err != nil {
		return fmt.Errorf("remove project %s: %w", projectName, domain.ErrPersistence)
	}
	return nil
}

// extractEntry writes one archive entry under dest, rejecting entry
// names that would escape it.
func extractEntry(dest string, f *zip.File) error {
	name := filepath.FromSlash(f.Name)
	if filepath.IsAbs(name) || !filepath.IsLocal(name) {
		return domain.E(domain.ErrExtraction, fmt.Sprintf("压缩包包含非法路径: %s", f.Name))
	}
	target := filepath.Join(dest, name)

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return extractionError(f.Name, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return extractionError(f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return extractionError(f.Name, err)
	}
	defer rc.Close()

	w, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return extractionError(f.Name, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		w.Close()
		return extractionError(f.Name, err)
	}
	if err := w.Close(); err != nil {
		return extractionError(f.Name, err)
	}
	return nil
}

func extractionError(entry string, err error) error {
	slog.Error("extract entry failed", "entry", entry, "err", err)
	return domain.E(domain.ErrExtraction, fmt.Sprintf("解压文件 %s 失败", entry))
}
