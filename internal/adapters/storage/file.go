package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/firecast/internal/core/domain"
	"go.trai.ch/zerr"
)

// FileStore reads rasters from the local filesystem. Relative paths are resolved below Root.
type FileStore struct {
	Root string
}

func (s FileStore) path(address string) string {
	address = strings.TrimPrefix(address, "file://")
	if filepath.IsAbs(address) || s.Root == "" {
		return filepath.Clean(address)
	}
	return filepath.Join(s.Root, address)
}

// Exists reports whether address is a regular file.
func (s FileStore) Exists(_ context.Context, address string) bool {
	info, err := os.Stat(s.path(address))
	return err == nil && info.Mode().IsRegular()
}

// Fetch reads the file at address.
func (s FileStore) Fetch(ctx context.Context, address string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.path(address)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrRasterNotFound, "file does not exist"), "path", path)
		}
		return nil, zerr.With(errors.Join(domain.ErrRasterFetch, err), "path", path)
	}
	return data, nil
}
