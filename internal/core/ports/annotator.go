package ports

//go:generate mockgen -source=annotator.go -destination=mocks/mock_annotator.go -package=mocks

// Annotator reads and writes module version pins in source code.
type Annotator interface {
	// Scan returns the modules a source file imports mapped to their pinned version, or "" when unpinned.
	Scan(source string) (map[string]string, error)
	// Rewrite pins the given module versions as trailing comments on their import statements.
	Rewrite(source string, versions map[string]string) (string, error)
}
