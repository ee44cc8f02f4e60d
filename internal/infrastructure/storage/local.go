package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage writes uploads below a directory served as static files.
type LocalStorage struct {
	dir          string
	publicPrefix string
}

// Ensure LocalStorage implements Uploader.
var _ Uploader = (*LocalStorage)(nil)

// NewLocalStorage stores files under dir and builds references as
// publicPrefix + "/" + key, e.g. /uploads/cover/1700000000000_ab12cd34.png
func NewLocalStorage(dir, publicPrefix string) *LocalStorage {
	return &LocalStorage{
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}
}

// Dir returns the root directory of stored files
func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return path.Join(s.publicPrefix, key), nil
}

// resolve maps key to a path inside dir, rejecting keys that escape it
func (s *LocalStorage) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || clean != "/"+key {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
