package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore persists uploaded files and hands back retrievable URL paths.
// Delete is best-effort; a stale file is preferable to a failed request.
type BlobStore interface {
	Write(kind, originalName string, data []byte) (ref string, err error)
	Delete(ref string) error
}

// DiskStore writes blobs under a local directory, served at /files.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk-backed blob store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Write stores data under kind/ with a collision-resistant generated name
// and returns the URL path it will be served from.
func (s *DiskStore) Write(kind, originalName string, data []byte) (string, error) {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)
	if base == "" || base == "." {
		base = kind
	}
	filename := fmt.Sprintf("%s-%s%s", base, uuid.New().String(), ext)

	dir := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/files/" + kind + "/" + filename, nil
}

// Delete removes the file a previous Write returned a reference for.
func (s *DiskStore) Delete(ref string) error {
	rest, ok := strings.CutPrefix(ref, "/files/")
	if !ok {
		return fmt.Errorf("not a managed reference: %s", ref)
	}
	kind, filename := path.Split(rest)
	kind = strings.Trim(kind, "/")
	if kind == "" || strings.Contains(kind, "/") || kind != filepath.Base(kind) {
		return fmt.Errorf("not a managed reference: %s", ref)
	}
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("not a managed reference: %s", ref)
	}
	return os.Remove(filepath.Join(s.dir, kind, filename))
}
