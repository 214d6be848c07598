package domain

import (
	"bytes"
	"maps"
	"slices"
)

// DefaultEntryPoint is the file every project must contain.
const DefaultEntryPoint = "App.js"

// FileType distinguishes source text from binary assets.
type FileType string

const (
	// FileTypeCode marks a source file whose contents are text.
	FileTypeCode FileType = "CODE"
	// FileTypeAsset marks a binary file whose contents are a URL once uploaded.
	FileTypeAsset FileType = "ASSET"
)

// File is a single entry in a project.
type File struct {
	Type FileType `json:"type"`
	// Contents is the source text for code files and the hosted URL for assets.
	Contents string `json:"contents"`
	// Data holds raw asset bytes that still need to be uploaded.
	Data []byte `json:"-"`
}

// IsPendingAsset reports whether the file is an asset that has not been uploaded yet.
func (f File) IsPendingAsset() bool {
	return f.Type == FileTypeAsset && f.Data != nil
}

// Equal reports whether two files carry the same type and contents.
func (f File) Equal(other File) bool {
	return f.Type == other.Type && f.Contents == other.Contents && bytes.Equal(f.Data, other.Data)
}

// Files maps case-sensitive paths to file entries.
type Files map[string]File

// Clone returns a deep copy of the files. A nil receiver yields an empty map.
func (fs Files) Clone() Files {
	out := make(Files, len(fs))
	for path, f := range fs {
		if f.Data != nil {
			f.Data = bytes.Clone(f.Data)
		}
		out[path] = f
	}
	return out
}

// Equal reports whether both maps hold the same paths with equal files.
func (fs Files) Equal(other Files) bool {
	return maps.EqualFunc(fs, other, File.Equal)
}

// Paths returns the file paths in lexical order.
func (fs Files) Paths() []string {
	return slices.Sorted(maps.Keys(fs))
}

// Code returns the subset of files that hold source text.
func (fs Files) Code() Files {
	out := make(Files)
	for path, f := range fs {
		if f.Type == FileTypeCode {
			out[path] = f
		}
	}
	return out
}

// Metadata describes a project independent of its files.
type Metadata struct {
	Name        string
	Description string
	SDKVersion  string
	Channel     string
	RemoteID    string
}

// Snapshot is the part of a project compared to decide whether it has been saved.
type Snapshot struct {
	Files        Files
	Name         string
	Description  string
	Dependencies Dependencies
	SDKVersion   string
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Files:        s.Files.Clone(),
		Name:         s.Name,
		Description:  s.Description,
		Dependencies: s.Dependencies.Clone(),
		SDKVersion:   s.SDKVersion,
	}
}

// Equal reports deep equality of every snapshot field.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Name == other.Name &&
		s.Description == other.Description &&
		s.SDKVersion == other.SDKVersion &&
		s.Files.Equal(other.Files) &&
		s.Dependencies.Equal(other.Dependencies)
}

// State is an immutable view of the session's project.
type State struct {
	Files          Files
	SDKVersion     string
	Name           string
	Description    string
	Dependencies   Dependencies
	IsSaved        bool
	IsResolving    bool
	LoadingMessage string
}
