package domain

import "path/filepath"

const (
	// StateDirName is the per-project directory for local state.
	StateDirName = ".livepush"

	// ConfigFileYAML is the YAML project configuration file.
	ConfigFileYAML = "livepush.yaml"

	// ConfigFileTOML is the TOML project configuration file. YAML wins when both exist.
	ConfigFileTOML = "livepush.toml"

	// HistoryFileName holds the record of saves.
	HistoryFileName = "history.json"

	// CacheDirName is the name of the cache directory.
	CacheDirName = "cache"

	// BundleCacheDirName holds cached bundler answers.
	BundleCacheDirName = "bundles"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultHistoryPath returns the history file below root.
func DefaultHistoryPath(root string) string {
	return filepath.Join(root, StateDirName, HistoryFileName)
}

// DefaultBundleCachePath returns the bundle cache directory below root.
func DefaultBundleCachePath(root string) string {
	return filepath.Join(root, StateDirName, CacheDirName, BundleCacheDirName)
}
