// Package fs reads project directories from disk.
package fs

import (
	"io/fs"
	"iter"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// Walker walks a project directory.
type Walker struct {
	fs afero.Fs
}

// NewWalker creates a new Walker over fsys.
func NewWalker(fsys afero.Fs) *Walker {
	return &Walker{fs: fsys}
}

// WalkFiles yields the slash separated path, relative to root, of every file that is not ignored.
// A walk error is yielded once with an empty path and ends the walk.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := afero.Walk(w.fs, root, func(p string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if Ignored(rel, ignores) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if !yield(rel, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// Ignored reports whether rel matches one of the patterns.
// A pattern without a slash matches any path element, otherwise it matches the whole path.
func Ignored(rel string, ignores []string) bool {
	for _, pattern := range ignores {
		if matched, _ := path.Match(pattern, rel); matched {
			return true
		}
		if matched, _ := path.Match(pattern, path.Base(rel)); matched {
			return true
		}
	}
	return false
}
