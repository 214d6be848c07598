// Package state holds the authoritative project model and its listeners.
package state

import (
	"context"
	"maps"
	"sync"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// Field names a metadata field that callers may change.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldSDKVersion  Field = "sdkVersion"
	FieldUser        Field = "user"
	FieldDeviceID    Field = "deviceID"
)

// AffectsKeepAlive reports whether a change to the field requires re-registering the session.
func (f Field) AffectsKeepAlive() bool {
	return f == FieldName || f == FieldUser || f == FieldDeviceID
}

// Init is the project a Store starts from.
type Init struct {
	Files        domain.Files
	Dependencies domain.Dependencies
	Name         string
	Description  string
	SDKVersion   string
	Channel      string
	RemoteID     string
	User         domain.User
	DeviceID     string
	EntryPoint   string
}

// Store is the single writer view of the project.
// Every observable mutation emits the new State to the bus after the lock is released.
type Store struct {
	mu    sync.Mutex
	blobs ports.BlobStore
	bus   *Bus
	entry string

	files    domain.Files
	deps     domain.Dependencies
	meta     domain.Metadata
	user     domain.User
	deviceID string

	initial domain.Snapshot
	// revision increases whenever files change through ApplyFileChanges.
	revision  uint64
	resolving int
	loading   string
}

// NewStore creates a store. The initial snapshot used by IsSaved is taken here.
func NewStore(init Init, blobs ports.BlobStore, bus *Bus) *Store {
	if init.EntryPoint == "" {
		init.EntryPoint = domain.DefaultEntryPoint
	}
	if init.SDKVersion == "" {
		init.SDKVersion = domain.DefaultSDKVersion
	}
	files := init.Files.Clone()
	if _, ok := files[init.EntryPoint]; !ok {
		files[init.EntryPoint] = domain.File{Type: domain.FileTypeCode}
	}

	s := &Store{
		blobs: blobs,
		bus:   bus,
		entry: init.EntryPoint,
		files: files,
		deps:  withoutPreloaded(init.Dependencies.Clone(), init.SDKVersion),
		meta: domain.Metadata{
			Name:        init.Name,
			Description: init.Description,
			SDKVersion:  init.SDKVersion,
			Channel:     init.Channel,
			RemoteID:    init.RemoteID,
		},
		user:     init.User,
		deviceID: init.DeviceID,
	}
	s.initial = s.snapshotLocked()
	return s
}

// ApplyFileChanges replaces the file set with files.
// Assets carrying raw data are uploaded first, and a failed upload leaves the store unchanged.
// It reports whether anything changed.
func (s *Store) ApplyFileChanges(ctx context.Context, files domain.Files) (bool, error) {
	if _, ok := files[s.entry]; !ok {
		return false, zerr.With(zerr.Wrap(domain.ErrEntryPointMissing, "entry point not found"), "entry", s.entry)
	}

	next := files.Clone()
	for _, path := range next.Paths() {
		f := next[path]
		if !f.IsPendingAsset() {
			continue
		}
		url, err := s.blobs.UploadAsset(ctx, path, f.Data)
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, "failed to upload asset"), "path", path)
		}
		next[path] = domain.File{Type: domain.FileTypeAsset, Contents: url}
	}

	s.mu.Lock()
	changed := false
	for path := range s.files {
		if _, ok := next[path]; !ok {
			delete(s.files, path)
			changed = true
		}
	}
	for path, f := range next {
		if cur, ok := s.files[path]; !ok || !cur.Equal(f) {
			s.files[path] = f
			changed = true
		}
	}
	if changed {
		s.revision++
	}
	s.mu.Unlock()

	if changed {
		s.emit()
	}
	return changed, nil
}

// SetMetadataField updates one metadata field. Setting an equal value is a no-op.
// It reports whether the value changed.
func (s *Store) SetMetadataField(field Field, value any) (bool, error) {
	s.mu.Lock()
	changed, err := s.setFieldLocked(field, value)
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	if changed {
		s.emit()
	}
	return changed, nil
}

func (s *Store) setFieldLocked(field Field, value any) (bool, error) {
	if field == FieldUser {
		user, ok := value.(domain.User)
		if !ok {
			return false, zerr.With(domain.ErrInvalidMetadataField, "field", string(field))
		}
		if user == s.user {
			return false, nil
		}
		s.user = user
		return true, nil
	}

	text, ok := value.(string)
	if !ok {
		return false, zerr.With(domain.ErrInvalidMetadataField, "field", string(field))
	}

	var target *string
	switch field {
	case FieldName:
		target = &s.meta.Name
	case FieldDescription:
		target = &s.meta.Description
	case FieldSDKVersion:
		target = &s.meta.SDKVersion
	case FieldDeviceID:
		target = &s.deviceID
	default:
		return false, zerr.With(domain.ErrInvalidMetadataField, "field", string(field))
	}
	if *target == text {
		return false, nil
	}
	*target = text

	if field == FieldSDKVersion {
		s.deps = withoutPreloaded(s.deps, text)
	}
	return true, nil
}

// SetDependencies replaces the dependency map. Preloaded modules are dropped.
func (s *Store) SetDependencies(deps domain.Dependencies) bool {
	s.mu.Lock()
	next := withoutPreloaded(deps.Clone(), s.meta.SDKVersion)
	changed := !next.Equal(s.deps)
	if changed {
		s.deps = next
	}
	s.mu.Unlock()

	if changed {
		s.emit()
	}
	return changed
}

// ResolutionInput returns what a resolver pass works on, tagged with the current file revision.
func (s *Store) ResolutionInput() (domain.Files, domain.Dependencies, string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.Clone(), s.deps.Clone(), s.meta.SDKVersion, s.revision
}

// CommitResolution applies a resolver pass computed at revision.
// Entries in added replace existing ones of the same name. rewrites maps code paths to annotated contents.
// It reports false, changing nothing, when the files moved on since revision.
func (s *Store) CommitResolution(revision uint64, added domain.Dependencies, rewrites map[string]string) bool {
	s.mu.Lock()
	if revision != s.revision {
		s.mu.Unlock()
		return false
	}

	changed := false
	for name, dep := range added {
		if domain.IsModulePreloaded(name, s.meta.SDKVersion) {
			continue
		}
		if cur, ok := s.deps[name]; ok && cur.Equal(dep) {
			continue
		}
		if s.deps == nil {
			s.deps = make(domain.Dependencies)
		}
		s.deps[name] = dep
		changed = true
	}
	for path, contents := range rewrites {
		f, ok := s.files[path]
		if !ok || f.Type != domain.FileTypeCode || f.Contents == contents {
			continue
		}
		f.Contents = contents
		s.files[path] = f
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.emit()
	}
	return true
}

// BeginResolving marks a resolution or install as running until the returned func is called.
func (s *Store) BeginResolving() (end func()) {
	s.mu.Lock()
	s.resolving++
	s.mu.Unlock()
	s.emit()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.resolving--
			s.mu.Unlock()
			s.emit()
		})
	}
}

// SetLoadingMessage sets the text shown by runtimes while a module resolves.
// It reports whether the text changed.
func (s *Store) SetLoadingMessage(message string) bool {
	s.mu.Lock()
	changed := s.loading != message
	s.loading = message
	s.mu.Unlock()

	if changed {
		s.emit()
	}
	return changed
}

// LoadingMessage returns the current loading text.
func (s *Store) LoadingMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// MarkSaved records the current project as saved under id.
func (s *Store) MarkSaved(id string) {
	s.mu.Lock()
	s.meta.RemoteID = id
	s.initial = s.snapshotLocked()
	s.mu.Unlock()
	s.emit()
}

// State returns an immutable view of the project. IsSaved is recomputed on every call.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Snapshot returns the savable part of the project.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Files returns a copy of the current files.
func (s *Store) Files() domain.Files {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files.Clone()
}

// Dependencies returns a copy of the dependency map.
func (s *Store) Dependencies() domain.Dependencies {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deps.Clone()
}

// Metadata returns the project metadata.
func (s *Store) Metadata() domain.Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// SDKVersion returns the active runtime version.
func (s *Store) SDKVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta.SDKVersion
}

// User returns the session's user.
func (s *Store) User() domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// DeviceID returns the id of the device the session registers for.
func (s *Store) DeviceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deviceID
}

// Revision returns the current file revision.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *Store) emit() {
	if s.bus == nil {
		return
	}
	s.bus.State.Emit(s.State())
}

func (s *Store) stateLocked() domain.State {
	return domain.State{
		Files:          s.files.Clone(),
		SDKVersion:     s.meta.SDKVersion,
		Name:           s.meta.Name,
		Description:    s.meta.Description,
		Dependencies:   s.deps.Clone(),
		IsSaved:        s.snapshotLocked().Equal(s.initial),
		IsResolving:    s.resolving > 0,
		LoadingMessage: s.loading,
	}
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Files:        s.files.Clone(),
		Name:         s.meta.Name,
		Description:  s.meta.Description,
		Dependencies: s.deps.Clone(),
		SDKVersion:   s.meta.SDKVersion,
	}
}

func withoutPreloaded(deps domain.Dependencies, sdkVersion string) domain.Dependencies {
	maps.DeleteFunc(deps, func(name string, _ domain.Dependency) bool {
		return domain.IsModulePreloaded(name, sdkVersion)
	})
	return deps
}
