package bundler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache keeps bundler answers for exact versions on disk.
// Ranges and "latest" move over time and are never cached.
type Cache struct {
	fs  afero.Fs
	dir string
}

// NewCache creates a cache rooted at dir on fsys.
func NewCache(fsys afero.Fs, dir string) *Cache {
	return &Cache{fs: fsys, dir: filepath.Clean(dir)}
}

// Cacheable reports whether answers for version never change.
func Cacheable(version string) bool {
	_, err := semver.StrictNewVersion(version)
	return err == nil
}

func (c *Cache) path(name, version string) string {
	key := fmt.Sprintf("%016x", xxhash.Sum64String(domain.ModuleKey(name, version)))
	return filepath.Join(c.dir, key+".json")
}

// Get returns the cached bundle for name@version. A miss returns nil without error.
func (c *Cache) Get(name, version string) (*domain.Bundle, error) {
	path := c.path(name, version)
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	var bundle domain.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	return &bundle, nil
}

// Put stores a finished bundle for name@version.
func (c *Cache) Put(name, version string, bundle *domain.Bundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := c.fs.MkdirAll(c.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "dir", c.dir)
	}
	path := c.path(name, version)
	if err := afero.WriteFile(c.fs, path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return nil
}
