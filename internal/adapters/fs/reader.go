package fs

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// codeExtensions lists the file types sent as source text. Everything else is an asset.
var codeExtensions = map[string]struct{}{
	".js":   {},
	".jsx":  {},
	".ts":   {},
	".tsx":  {},
	".mjs":  {},
	".cjs":  {},
	".json": {},
	".md":   {},
	".txt":  {},
	".css":  {},
}

// IsCode reports whether the file at rel is sent as source text.
func IsCode(rel string) bool {
	_, ok := codeExtensions[strings.ToLower(path.Ext(rel))]
	return ok
}

// Reader loads projects with a Walker.
type Reader struct {
	fs     afero.Fs
	walker *Walker
}

var _ ports.ProjectReader = (*Reader)(nil)

// NewReader creates a new Reader over fsys.
func NewReader(fsys afero.Fs) *Reader {
	return &Reader{fs: fsys, walker: NewWalker(fsys)}
}

// Read returns every file below root that is not ignored.
// Assets are returned with their bytes in Data, ready for upload.
func (r *Reader) Read(root string, ignore []string) (domain.Files, error) {
	files := make(domain.Files)
	for rel, err := range r.walker.WalkFiles(root, ignore) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrProjectReadFailed.Error()), "root", root)
		}

		data, err := afero.ReadFile(r.fs, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrProjectReadFailed.Error()), "path", rel)
		}

		if IsCode(rel) {
			files[rel] = domain.File{Type: domain.FileTypeCode, Contents: string(data)}
		} else {
			files[rel] = domain.File{Type: domain.FileTypeAsset, Data: data}
		}
	}
	return files, nil
}
