package domain

import (
	"slices"

	"github.com/Masterminds/semver/v3"
)

// DefaultSDKVersion is used when a project does not name a runtime version.
const DefaultSDKVersion = "39.0.0"

// Feature names a capability that only some runtime versions provide.
type Feature string

const (
	// FeatureMultipleFiles allows projects with more than one code file.
	FeatureMultipleFiles Feature = "MULTIPLE_FILES"
	// FeatureProjectDependencies lets the runtime read the dependency map instead of version comments.
	FeatureProjectDependencies Feature = "PROJECT_DEPENDENCIES"
	// FeatureTypeScript allows .ts and .tsx files.
	FeatureTypeScript Feature = "TYPESCRIPT"
)

var minFeatureVersion = map[Feature]*semver.Version{
	FeatureMultipleFiles:       semver.MustParse("21.0.0"),
	FeatureProjectDependencies: semver.MustParse("25.0.0"),
	FeatureTypeScript:          semver.MustParse("31.0.0"),
}

var knownSDKVersions = []string{
	"14.0.0", "15.0.0", "16.0.0", "17.0.0", "18.0.0",
	"26.0.0", "27.0.0", "28.0.0", "29.0.0", "30.0.0", "31.0.0", "32.0.0",
	"33.0.0", "34.0.0", "35.0.0", "36.0.0", "37.0.0", "38.0.0", "39.0.0",
}

// IsKnownSDKVersion reports whether the runtime version is one the session supports.
func IsKnownSDKVersion(version string) bool {
	return slices.Contains(knownSDKVersions, version)
}

// RequiresClientResolution reports whether imports must be resolved by the session before publishing.
// That holds for every runtime with a semver version, known or not.
func RequiresClientResolution(sdkVersion string) bool {
	_, err := semver.NewVersion(sdkVersion)
	return err == nil
}

// UsesVersionComments reports whether the runtime predates PROJECT_DEPENDENCIES and reads
// module versions from comments in the source. Such runtimes also get the V1 dependency map.
func UsesVersionComments(sdkVersion string) bool {
	v, err := semver.NewVersion(sdkVersion)
	if err != nil {
		return false
	}
	return v.LessThan(minFeatureVersion[FeatureProjectDependencies])
}

// SupportsFeature reports whether a known runtime version provides the feature.
func SupportsFeature(sdkVersion string, feature Feature) bool {
	if !IsKnownSDKVersion(sdkVersion) {
		return false
	}
	minimum, ok := minFeatureVersion[feature]
	if !ok {
		return false
	}
	v, err := semver.NewVersion(sdkVersion)
	if err != nil {
		return false
	}
	return !v.LessThan(minimum)
}
