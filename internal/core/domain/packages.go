package domain

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

const (
	// LatestVersion asks the bundler for the newest published version.
	LatestVersion = "latest"

	maxPackageNameLength = 214
)

var (
	packageNamePattern = regexp.MustCompile(`^(?:@([^/?]+)/)?([^@/?]+)(?:/([^@]+))?`)
	urlSafePattern     = regexp.MustCompile(`^[A-Za-z0-9\-_.!~*'()]+$`)
	reservedNames      = map[string]bool{"node_modules": true, "favicon.ico": true}
)

// PackageName is a module specifier split into its npm parts.
type PackageName struct {
	Scope string
	Name  string
	// Path is the deep import below the package root, for example "debounce" in "lodash/debounce".
	Path string
}

// FullName returns the package name including its scope.
func (p PackageName) FullName() string {
	if p.Scope == "" {
		return p.Name
	}
	return "@" + p.Scope + "/" + p.Name
}

// ParsePackageName splits a module specifier into scope, name and deep path.
func ParsePackageName(specifier string) (PackageName, error) {
	m := packageNamePattern.FindStringSubmatch(specifier)
	if m == nil {
		return PackageName{}, zerr.With(zerr.Wrap(ErrInvalidPackageName, "unparseable module specifier"), "specifier", specifier)
	}
	return PackageName{Scope: m[1], Name: m[2], Path: m[3]}, nil
}

// ValidatePackageName applies npm's naming rules for existing packages.
func ValidatePackageName(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	if reservedNames[strings.ToLower(name)] {
		return false
	}
	if len(name) > maxPackageNameLength {
		return false
	}
	if scoped, ok := strings.CutPrefix(name, "@"); ok {
		scope, pkg, found := strings.Cut(scoped, "/")
		return found && urlSafePattern.MatchString(scope) && urlSafePattern.MatchString(pkg)
	}
	return urlSafePattern.MatchString(name)
}

// IsLatest reports whether the version asks for the newest release.
func IsLatest(version string) bool {
	return version == "" || strings.EqualFold(version, LatestVersion)
}

// ValidateVersion accepts an empty version, "latest", or any semver range.
func ValidateVersion(version string) bool {
	if IsLatest(version) {
		return true
	}
	_, err := semver.NewConstraint(version)
	return err == nil
}

// ValidateDependency checks a module request before any network call is made.
// It returns the parsed package name on success.
func ValidateDependency(name, version string) (PackageName, error) {
	pkg, err := ParsePackageName(name)
	if err != nil || !ValidatePackageName(pkg.FullName()) {
		return PackageName{}, zerr.With(zerr.Wrap(ErrInvalidDependencySpec, name+" is not a valid package"), "module", name)
	}
	if !ValidateVersion(version) {
		return PackageName{}, zerr.With(
			zerr.Wrap(ErrInvalidDependencySpec, "Invalid version for "+name+"@"+version),
			"module", name,
		)
	}
	return pkg, nil
}

// ModuleKey identifies a module request for deduplication.
func ModuleKey(name, version string) string {
	if IsLatest(version) {
		version = LatestVersion
	}
	return name + "@" + version
}
