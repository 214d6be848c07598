package domain

// Outbound and inbound message types exchanged over the channel.
const (
	MessageTypeCode          = "CODE"
	MessageTypeLoading       = "LOADING_MESSAGE"
	MessageTypeRequestStatus = "REQUEST_STATUS"
	MessageTypeConsole       = "CONSOLE"
	MessageTypeError         = "ERROR"
	MessageTypeResendCode    = "RESEND_CODE"
	MessageTypeStatusReport  = "STATUS_REPORT"
)

// CodeMessage carries the project to every runtime on the channel.
// Dependencies holds Dependencies, or DependenciesV1 for runtimes that use version comments.
type CodeMessage struct {
	Type         string            `json:"type"`
	Diff         map[string]string `json:"diff"`
	S3URL        map[string]string `json:"s3url"`
	Dependencies any               `json:"dependencies"`
	Metadata     AnalyticsMetadata `json:"metadata"`
}

// NewCodeMessage assembles a CODE message, encoding deps in the format the runtime reads.
func NewCodeMessage(diff, s3url map[string]string, deps Dependencies, metadata AnalyticsMetadata) CodeMessage {
	var encoded any = deps
	if UsesVersionComments(metadata.ExpoSDKVersion) {
		encoded = deps.V1()
	}
	return CodeMessage{
		Type:         MessageTypeCode,
		Diff:         diff,
		S3URL:        s3url,
		Dependencies: encoded,
		Metadata:     metadata,
	}
}

// LoadingMessage tells runtimes that the project is waiting on dependency resolution.
type LoadingMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RequestStatusMessage asks runtimes to report their preview status.
type RequestStatusMessage struct {
	Type string `json:"type"`
}

// InboundMessage is the union of every message a runtime may send.
type InboundMessage struct {
	Type            string `json:"type"`
	Device          Device `json:"device"`
	Method          string `json:"method,omitempty"`
	Payload         []any  `json:"payload,omitempty"`
	Error           string `json:"error,omitempty"`
	PreviewLocation string `json:"previewLocation,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Device identifies a connected runtime.
type Device struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform,omitempty"`
}

// AnalyticsMetadata is attached to every CODE message.
type AnalyticsMetadata struct {
	ExpoSDKVersion     string `json:"expoSdkVersion"`
	WebSnackSDKVersion string `json:"webSnackSdkVersion,omitempty"`
	WebHostname        string `json:"webHostname,omitempty"`
	WebOSFamily        string `json:"webOSFamily,omitempty"`
	WebOSArchitecture  string `json:"webOSArchitecture,omitempty"`
}

// NewAnalyticsMetadata describes the runtime version and the host the session runs on.
func NewAnalyticsMetadata(sdkVersion, clientVersion string) AnalyticsMetadata {
	p := HostPlatform()
	return AnalyticsMetadata{
		ExpoSDKVersion:     sdkVersion,
		WebSnackSDKVersion: clientVersion,
		WebHostname:        p.Hostname,
		WebOSFamily:        p.OSFamily,
		WebOSArchitecture:  p.Architecture,
	}
}
