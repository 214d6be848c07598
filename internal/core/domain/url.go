package domain

import "strings"

// DefaultHost is the web host used to build experience and project URLs.
const DefaultHost = "snack.expo.io"

// HostWithoutSubdomain maps the editor host to the host that serves experiences.
func HostWithoutSubdomain(host string) string {
	switch {
	case strings.Contains(host, "next-snack.expo.io"):
		return strings.Replace(host, "next-snack.expo.io", "expo.io", 1)
	case strings.Contains(host, "snack.expo.io"):
		return strings.Replace(host, "snack.expo.io", "expo.io", 1)
	default:
		return host
	}
}

// ExperienceURL returns the deep link a runtime opens to join the channel.
func ExperienceURL(host, sdkVersion, channel, remoteID string) string {
	base := "exp://" + HostWithoutSubdomain(host) + "/@snack/"
	if remoteID != "" {
		return base + remoteID + "+" + channel
	}
	return base + "sdk." + sdkVersion + "-" + channel
}

// FullName returns the owner qualified name of a saved project.
// Ids that already carry an owner are returned as is.
func FullName(id string) string {
	if strings.Contains(id, "/") {
		return id
	}
	return "@snack/" + id
}

// ProjectURL returns the web page of a saved project.
func ProjectURL(host, id string) string {
	return "https://" + HostWithoutSubdomain(host) + "/" + FullName(id)
}

// ArtifactURL returns the download page of a build artifact.
func ArtifactURL(host, artifactID string) string {
	return "https://" + HostWithoutSubdomain(host) + "/artifacts/" + artifactID
}
