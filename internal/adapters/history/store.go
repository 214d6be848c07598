// Package history keeps a local record of the saves made from a project directory.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// MaxEntries bounds the number of saves kept on disk. Older entries are dropped first.
const MaxEntries = 100

// Store persists history entries as a JSON document.
type Store struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

var _ ports.HistoryStore = (*Store)(nil)

// NewStore creates a store backed by the file at path.
func NewStore(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

type document struct {
	Entries []domain.HistoryEntry `json:"entries"`
}

// Record appends entry to the history.
func (s *Store) Record(entry domain.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Entries = append(doc.Entries, entry)
	if len(doc.Entries) > MaxEntries {
		doc.Entries = doc.Entries[len(doc.Entries)-MaxEntries:]
	}
	return s.write(doc)
}

// List returns the recorded saves, newest first.
func (s *Store) List() ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := slices.Clone(doc.Entries)
	slices.SortStableFunc(entries, func(a, b domain.HistoryEntry) int {
		return b.SavedAt.Compare(a.SavedAt)
	})
	return entries, nil
}

func (s *Store) load() (document, error) {
	var doc document
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, zerr.With(zerr.Wrap(err, domain.ErrHistoryReadFailed.Error()), "path", s.path)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, zerr.With(zerr.Wrap(err, domain.ErrHistoryReadFailed.Error()), "path", s.path)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrHistoryWriteFailed.Error())
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrHistoryWriteFailed.Error()), "path", s.path)
	}

	// Replace the file atomically.
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrHistoryWriteFailed.Error()), "path", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrHistoryWriteFailed.Error()), "path", s.path)
	}
	return nil
}

// ContentHash fingerprints the files of a project. Equal projects hash equally
// regardless of map order.
func ContentHash(files domain.Files) string {
	h := xxhash.New()
	for _, path := range files.Paths() {
		f := files[path]
		_, _ = h.WriteString(path)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(string(f.Type))
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(f.Contents)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
