// Package annotator reads and writes module version pins in JavaScript source.
package annotator

import (
	"regexp"
	"strings"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

var _ ports.Annotator = (*Annotator)(nil)

// pinPattern matches the version formats accepted in a trailing comment.
var pinPattern = regexp.MustCompile(`^(\d+\.)?(\d+\.)?(\*|\d+)$`)

const latestPin = "LATEST"

// Annotator implements ports.Annotator on top of a JavaScript lexer.
type Annotator struct{}

// New creates a new Annotator.
func New() *Annotator {
	return &Annotator{}
}

// Scan returns every imported module specifier mapped to its version pin.
// Unpinned modules map to "".
func (a *Annotator) Scan(source string) (map[string]string, error) {
	statements, err := scan(source)
	if err != nil {
		return nil, err
	}

	modules := make(map[string]string, len(statements))
	for _, st := range statements {
		modules[st.specifier] = pinFromComment(st.comment)
	}
	return modules, nil
}

// Rewrite writes versions as trailing comments on the lines that import them.
// versions may be keyed by specifier or by package name. An existing trailing comment
// is replaced in place, so a block comment stays a block comment.
func (a *Annotator) Rewrite(source string, versions map[string]string) (string, error) {
	statements, err := scan(source)
	if err != nil {
		return "", err
	}

	lines := strings.Split(source, "\n")
	starts := lineStarts(source)
	changed := false

	for _, st := range statements {
		version, ok := lookupVersion(versions, st.specifier)
		if !ok || version == "" {
			continue
		}

		line := lines[st.endLine]
		eol := ""
		if strings.HasSuffix(line, "\r") {
			eol = "\r"
		}
		var rewritten string
		switch {
		case st.commentStart >= 0 && st.block:
			start, end := st.commentStart-starts[st.endLine], st.commentEnd-starts[st.endLine]
			rewritten = line[:start] + "/* " + version + " */" + line[end:]
		case st.commentStart >= 0:
			code := line[:st.commentStart-starts[st.endLine]]
			rewritten = strings.TrimRight(code, " \t") + " // " + version + eol
		default:
			code := strings.TrimSuffix(line, "\r")
			rewritten = strings.TrimRight(code, " \t") + " // " + version + eol
		}
		if rewritten != line {
			lines[st.endLine] = rewritten
			changed = true
		}
	}

	if !changed {
		return source, nil
	}
	return strings.Join(lines, "\n"), nil
}

func lookupVersion(versions map[string]string, specifier string) (string, bool) {
	if v, ok := versions[specifier]; ok {
		return v, true
	}
	pkg, err := domain.ParsePackageName(specifier)
	if err != nil {
		return "", false
	}
	v, ok := versions[pkg.FullName()]
	return v, ok
}

func pinFromComment(comment string) string {
	if comment == latestPin || pinPattern.MatchString(comment) {
		return comment
	}
	return ""
}
