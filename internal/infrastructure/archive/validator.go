package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/share-project-api/internal/domain"
	"github.com/share-project-api/internal/pkg/validate"
)

// Validator inspects uploaded archives for the required structure and
// parses project metadata. It only reads: the input file is never
// moved or deleted, and no persistent state changes.
type Validator struct {
	publicRoot string
}

func NewValidator(publicRoot string) *Validator {
	return &Validator{publicRoot: publicRoot}
}

// Validate checks that the archive is a well-formed zip carrying
// top-level index.html and meta.json, parses the metadata, and rejects
// the upload when the target project directory is already owned by a
// different (author, email) pair.
//
// The conflict check keys off the project field from meta.json, the
// same key Deploy later uses, never off the upload's filename.
func (v *Validator) Validate(archivePath string) (*domain.ProjectMetadata, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, domain.E(domain.ErrValidation, "上传的文件不是有效的ZIP文件")
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}
	if _, ok := entries["index.html"]; !ok {
		return nil, domain.E(domain.ErrValidation, "ZIP文件必须包含index.html文件")
	}
	metaEntry, ok := entries["meta.json"]
	if !ok {
		return nil, domain.E(domain.ErrValidation, "ZIP文件必须包含meta.json文件")
	}

	meta, err := parseMetadata(metaEntry)
	if err != nil {
		return nil, err
	}
	if !SafeProjectName(meta.Project) {
		return nil, domain.E(domain.ErrValidation, fmt.Sprintf("项目名称 '%s' 无效", meta.Project))
	}
	if err := v.checkOwnership(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func parseMetadata(entry *zip.File) (*domain.ProjectMetadata, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, domain.E(domain.ErrValidation, "meta.json格式无效")
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, domain.E(domain.ErrValidation, "meta.json格式无效")
	}
	var meta domain.ProjectMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, domain.E(domain.ErrValidation, "meta.json格式无效")
	}
	if err := validate.Struct(&meta); err != nil {
		return nil, domain.E(domain.ErrValidation, fmt.Sprintf("meta.json格式无效: %s", err))
	}
	return &meta, nil
}

// checkOwnership compares the new metadata against the meta.json of an
// already-deployed project with the same name. A deployed directory
// without readable metadata does not block redeployment.
func (v *Validator) checkOwnership(meta *domain.ProjectMetadata) error {
	data, err := os.ReadFile(filepath.Join(v.publicRoot, meta.Project, "meta.json"))
	if err != nil {
		return nil
	}
	var old domain.ProjectMetadata
	if err := json.Unmarshal(data, &old); err != nil {
		return nil
	}
	if !old.SameOwner(meta) {
		return domain.E(domain.ErrConflict, fmt.Sprintf("项目名称 '%s' 已存在", meta.Project))
	}
	return nil
}

// SafeProjectName reports whether name is usable as a single path
// element under the public root. Hidden names are rejected so the
// registry document living alongside project directories can never be
// addressed as a project.
func SafeProjectName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.IsLocal(name)
}
