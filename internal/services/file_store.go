package services

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sijamu/backend/internal/util"
)

// UploadsURLPrefix is where the upload root is served over HTTP.
const UploadsURLPrefix = "/uploads"

// FileStore keeps uploaded files under Root, one subdirectory per kind.
type FileStore struct {
	Root string
}

// StoredFile describes a file written by FileStore.Save.
type StoredFile struct {
	Name string
	Path string
	URL  string
}

// Save copies r to <Root>/<dir>/<uuid>-<sanitized name>.
func (s FileStore) Save(dir, originalName string, r io.Reader) (*StoredFile, error) {
	target := filepath.Join(s.Root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	base := uuid.NewString() + "-" + util.SanitizeFilename(originalName)
	full := filepath.Join(target, base)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	return &StoredFile{Name: base, Path: full, URL: s.URL(dir, base)}, nil
}

// URL returns the public URL of a stored file.
func (s FileStore) URL(dir, base string) string {
	return path.Join(UploadsURLPrefix, filepath.ToSlash(dir), base)
}

// Remove deletes a stored file. Missing files and paths outside Root are ignored.
func (s FileStore) Remove(full string) error {
	if full == "" || !s.contains(full) {
		return nil
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

func (s FileStore) contains(full string) bool {
	root, err := filepath.Abs(s.Root)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}
