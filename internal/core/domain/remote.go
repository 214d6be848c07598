package domain

import "time"

// SaveManifest is the project summary stored alongside saved code.
type SaveManifest struct {
	SDKVersion   string         `json:"sdkVersion"`
	Name         string         `json:"name,omitempty"`
	Description  string         `json:"description,omitempty"`
	Dependencies DependenciesV1 `json:"dependencies"`
}

// SaveRequest is the body of a save call.
type SaveRequest struct {
	Manifest     SaveManifest `json:"manifest"`
	Code         Files        `json:"code"`
	Dependencies Dependencies `json:"dependencies"`
	IsDraft      bool         `json:"isDraft,omitempty"`
}

// SaveResult identifies a saved project.
type SaveResult struct {
	ID  string
	URL string
}

// MetadataUpdate forwards a runtime status report for a saved project.
type MetadataUpdate struct {
	ID              string `json:"id"`
	PreviewLocation string `json:"previewLocation"`
	Status          string `json:"status"`
}

// BuildMode selects between starting a build and polling its status.
type BuildMode string

const (
	// BuildModeCreate starts a new build.
	BuildModeCreate BuildMode = "create"
	// BuildModeStatus lists the jobs of earlier builds.
	BuildModeStatus BuildMode = "status"
)

// BuildRequest is sent to the build service.
type BuildRequest struct {
	Manifest   ExpoManifest
	Mode       BuildMode
	SDKVersion string
}

// BuildJob is a single build reported by the status call.
type BuildJob struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ArtifactID string `json:"artifactId,omitempty"`
	Artifacts  struct {
		URL string `json:"url,omitempty"`
	} `json:"artifacts"`
}

// BuildStatusFinished marks a job whose artifact is ready.
const BuildStatusFinished = "finished"

// SessionDescriptor is registered with the keep-alive service.
type SessionDescriptor struct {
	Description string `json:"description"`
	Hostname    string `json:"hostname"`
	Config      struct {
	} `json:"config"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// NewSessionDescriptor builds the keep-alive registration for a session.
func NewSessionDescriptor(name, remoteID, url string) SessionDescriptor {
	description := name
	switch {
	case name == "":
		description = "Unnamed Snack"
	case remoteID != "":
		description = name + " (" + remoteID + ")"
	}
	return SessionDescriptor{
		Description: description,
		Hostname:    "snack",
		URL:         url,
		Source:      "snack",
	}
}

// HistoryEntry records a save made from this machine.
type HistoryEntry struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name,omitempty"`
	SDKVersion  string    `json:"sdkVersion"`
	Channel     string    `json:"channel"`
	ContentHash string    `json:"contentHash"`
	Draft       bool      `json:"draft,omitempty"`
	SavedAt     time.Time `json:"savedAt"`
}
