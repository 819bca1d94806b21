package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/share-project-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeZip builds a zip archive on disk from entry name → content.
func writeZip(t *testing.T, dir string, entries map[string]string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "upload.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const validMeta = `{"project":"blog","description":"a blog","author":"Alice","email":"alice@example.com"}`

func validEntries() map[string]string {
	return map[string]string{
		"index.html": "<html></html>",
		"meta.json":  validMeta,
		"css/app.css": "body{}",
	}
}

func TestValidate_HappyPath(t *testing.T) {
	dir := t.TempDir()
	v := NewValidator(filepath.Join(dir, "public"))
	path := writeZip(t, dir, validEntries())

	meta, err := v.Validate(path)
	require.NoError(t, err)
	assert.Equal(t, "blog", meta.Project)
	assert.Equal(t, "Alice", meta.Author)
	assert.Equal(t, "alice@example.com", meta.Email)
}

func TestValidate_NotAZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notzip.zip")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := NewValidator(dir).Validate(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "ZIP")
}

func TestValidate_MissingIndexHTML(t *testing.T) {
	dir := t.TempDir()
	entries := validEntries()
	delete(entries, "index.html")
	path := writeZip(t, dir, entries)

	_, err := NewValidator(dir).Validate(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "index.html")
}

func TestValidate_MissingMetaJSON(t *testing.T) {
	dir := t.TempDir()
	entries := validEntries()
	delete(entries, "meta.json")
	path := writeZip(t, dir, entries)

	_, err := NewValidator(dir).Validate(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "meta.json")
}

func TestValidate_NestedEntriesDoNotCount(t *testing.T) {
	dir := t.TempDir()
	entries := validEntries()
	delete(entries, "index.html")
	entries["site/index.html"] = "<html></html>"
	path := writeZip(t, dir, entries)

	_, err := NewValidator(dir).Validate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index.html")
}

func TestValidate_MalformedMetadata(t *testing.T) {
	cases := map[string]string{
		"not json":      `{oops`,
		"missing author": `{"project":"blog","email":"alice@example.com"}`,
		"missing email":  `{"project":"blog","author":"Alice"}`,
		"invalid email":  `{"project":"blog","author":"Alice","email":"not-an-email"}`,
	}
	for name, meta := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			entries := validEntries()
			entries["meta.json"] = meta
			path := writeZip(t, dir, entries)

			_, err := NewValidator(dir).Validate(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestValidate_UnsafeProjectName(t *testing.T) {
	for _, project := range []string{"../escape", "a/b", `a\b`, "..", ".hidden", ""} {
		dir := t.TempDir()
		entries := validEntries()
		entries["meta.json"] = `{"project":"` + project + `","author":"Alice","email":"alice@example.com"}`
		path := writeZip(t, dir, entries)

		_, err := NewValidator(dir).Validate(path)
		require.Error(t, err, "project name %q", project)
		assert.True(t, errors.Is(err, domain.ErrValidation))
	}
}

func TestValidate_ConflictWithDifferentOwner(t *testing.T) {
	dir := t.TempDir()
	public := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(public, "blog"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(public, "blog", "meta.json"),
		[]byte(`{"project":"blog","author":"Bob","email":"bob@example.com"}`),
		0o644,
	))
	path := writeZip(t, dir, validEntries())

	_, err := NewValidator(public).Validate(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Contains(t, err.Error(), "blog")
}

func TestValidate_SameOwnerMayRedeploy(t *testing.T) {
	dir := t.TempDir()
	public := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(public, "blog"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(public, "blog", "meta.json"),
		[]byte(validMeta),
		0o644,
	))
	path := writeZip(t, dir, validEntries())

	_, err := NewValidator(public).Validate(path)
	assert.NoError(t, err)
}

func TestValidate_DoesNotTouchInput(t *testing.T) {
	dir := t.TempDir()
	path := writeZip(t, dir, validEntries())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = NewValidator(filepath.Join(dir, "public")).Validate(path)
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
