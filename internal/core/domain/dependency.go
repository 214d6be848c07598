package domain

import (
	"maps"
	"slices"
)

// Dependency is a resolved or requested third-party module.
type Dependency struct {
	// Version is what the user asked for, for example "^1.2.0" or "latest".
	Version string `json:"version"`
	// Resolved is the concrete version the bundler produced.
	Resolved string `json:"resolved,omitempty"`
	// IsUserSpecified marks dependencies that came from the caller rather than from scanning.
	IsUserSpecified bool `json:"isUserSpecified,omitempty"`
	// PeerDependencies maps peer names to the version ranges the module declares.
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`
}

// Equal reports whether two dependency entries are identical.
func (d Dependency) Equal(other Dependency) bool {
	return d.Version == other.Version &&
		d.Resolved == other.Resolved &&
		d.IsUserSpecified == other.IsUserSpecified &&
		maps.Equal(d.PeerDependencies, other.PeerDependencies)
}

// Matches reports whether the entry already satisfies a request for version.
func (d Dependency) Matches(version string) bool {
	return d.Version == version || (d.Resolved != "" && d.Resolved == version)
}

// Dependencies is the authoritative dependency map keyed by full package name.
type Dependencies map[string]Dependency

// DependenciesV1 is the legacy flat map of package name to version.
type DependenciesV1 map[string]string

// Clone returns a deep copy. A nil receiver yields an empty map.
func (d Dependencies) Clone() Dependencies {
	out := make(Dependencies, len(d))
	for name, dep := range d {
		if dep.PeerDependencies != nil {
			dep.PeerDependencies = maps.Clone(dep.PeerDependencies)
		}
		out[name] = dep
	}
	return out
}

// Equal reports whether both maps hold the same entries.
func (d Dependencies) Equal(other Dependencies) bool {
	return maps.EqualFunc(d, other, Dependency.Equal)
}

// Names returns the dependency names in lexical order.
func (d Dependencies) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// V1 flattens the map into the legacy name to version format.
func (d Dependencies) V1() DependenciesV1 {
	out := make(DependenciesV1, len(d))
	for name, dep := range d {
		out[name] = dep.Version
	}
	return out
}

// V2 converts a legacy map. Every entry is treated as user specified.
func (d DependenciesV1) V2() Dependencies {
	out := make(Dependencies, len(d))
	for name, version := range d {
		out[name] = Dependency{Version: version, IsUserSpecified: true}
	}
	return out
}

// DependencyErrorMessage is the text delivered to dependency error listeners.
func DependencyErrorMessage(name, version string, err error) string {
	if version == "" {
		version = LatestVersion
	}
	return "Error fetching " + name + "@" + version + ": " + err.Error()
}

// Bundle is the bundling service's answer for a single module.
type Bundle struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Pending      bool              `json:"pending,omitempty"`
}
