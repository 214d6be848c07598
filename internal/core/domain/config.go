package domain

import "time"

// Default endpoints and timings.
const (
	DefaultAPIURL            = "https://expo.io"
	DefaultBundlerURL        = "https://snackager.expo.io"
	DefaultRelayURL          = "ws://127.0.0.1:7878/ws"
	DefaultRelayAddr         = "127.0.0.1:7878"
	DefaultBlobURLPrefix     = "https://snack-code-uploads"
	DefaultDebounce          = time.Second
	MinDebounce              = 500 * time.Millisecond
	MaxDebounce              = time.Second
	DefaultKeepAliveInterval = 40 * time.Second
	DefaultKeepAlivePath     = "/--/api/v2/development-sessions/notify-alive"
)

// BlobDriver selects where out-of-band code and assets are stored.
type BlobDriver string

const (
	// BlobDriverAPI uploads through the project API.
	BlobDriverAPI BlobDriver = "api"
	// BlobDriverS3 uploads directly to an S3 compatible bucket.
	BlobDriverS3 BlobDriver = "s3"
)

// OutputMode selects how session activity is rendered.
type OutputMode string

const (
	// OutputAuto picks the TUI on interactive terminals and linear output otherwise.
	OutputAuto OutputMode = "auto"
	// OutputTUI forces the interactive renderer.
	OutputTUI OutputMode = "tui"
	// OutputLinear forces line oriented output.
	OutputLinear OutputMode = "linear"
)

// Config is the resolved configuration of a project directory.
type Config struct {
	// Root is the directory that holds the configuration file.
	Root        string
	APIURL      string
	Host        string
	BundlerURL  string
	RelayURL    string
	SDKVersion  string
	Name        string
	Description string
	Entry       string
	Channel     string
	DeviceID    string
	Debounce    time.Duration
	Verbose     bool
	Output      OutputMode
	User        User
	Blob        BlobConfig
	KeepAlive   KeepAliveConfig
	MetricsAddr string
	Ignore      []string
}

// BlobConfig configures out-of-band storage.
type BlobConfig struct {
	Driver    BlobDriver
	URLPrefix string
	S3        S3Config
}

// S3Config configures the S3 blob driver.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// KeepAliveConfig configures development session registration.
type KeepAliveConfig struct {
	URL      string
	Interval time.Duration
	Disabled bool
}

// DefaultConfig returns the configuration used when a file leaves fields unset.
func DefaultConfig() Config {
	return Config{
		APIURL:     DefaultAPIURL,
		Host:       DefaultHost,
		BundlerURL: DefaultBundlerURL,
		RelayURL:   DefaultRelayURL,
		SDKVersion: DefaultSDKVersion,
		Entry:      DefaultEntryPoint,
		Debounce:   DefaultDebounce,
		Output:     OutputAuto,
		Blob: BlobConfig{
			Driver:    BlobDriverAPI,
			URLPrefix: DefaultBlobURLPrefix,
		},
		KeepAlive: KeepAliveConfig{
			URL:      DefaultAPIURL + DefaultKeepAlivePath,
			Interval: DefaultKeepAliveInterval,
		},
		Ignore: []string{".git", "node_modules", ".livepush"},
	}
}
