package config

import (
	"encoding/json"
	"time"

	"github.com/invopop/jsonschema"
	"go.trai.ch/livepush/internal/core/domain"
)

// File is what users write in livepush.yaml or livepush.toml.
type File struct {
	APIURL      string        `yaml:"api_url"      toml:"api_url"      json:"api_url,omitempty"      jsonschema:"description=Base URL of the project API"`
	Host        string        `yaml:"host"         toml:"host"         json:"host,omitempty"         jsonschema:"description=Web host used for project and experience URLs"`
	BundlerURL  string        `yaml:"bundler_url"  toml:"bundler_url"  json:"bundler_url,omitempty"  jsonschema:"description=Base URL of the bundling service"`
	RelayURL    string        `yaml:"relay_url"    toml:"relay_url"    json:"relay_url,omitempty"    jsonschema:"description=WebSocket URL of the pub/sub relay"`
	SDKVersion  string        `yaml:"sdk_version"  toml:"sdk_version"  json:"sdk_version,omitempty"  jsonschema:"description=Runtime version the project targets"`
	Name        string        `yaml:"name"         toml:"name"         json:"name,omitempty"         jsonschema:"description=Project name"`
	Description string        `yaml:"description"  toml:"description"  json:"description,omitempty"  jsonschema:"description=Project description"`
	Entry       string        `yaml:"entry"        toml:"entry"        json:"entry,omitempty"        jsonschema:"description=Entry point file,default=App.js"`
	Channel     string        `yaml:"channel"      toml:"channel"      json:"channel,omitempty"      jsonschema:"description=Pub/sub channel id. Generated when empty,minLength=6"`
	Debounce    Duration      `yaml:"debounce"     toml:"debounce"     json:"debounce,omitempty"     jsonschema:"description=Publish debounce window between 500ms and 1s"`
	Verbose     bool          `yaml:"verbose"      toml:"verbose"      json:"verbose,omitempty"      jsonschema:"description=Log verbose session details"`
	DeviceID    string        `yaml:"device_id"    toml:"device_id"    json:"device_id,omitempty"    jsonschema:"description=Device the session registers for"`
	Output      string        `yaml:"output"       toml:"output"       json:"output,omitempty"       jsonschema:"enum=auto,enum=tui,enum=linear,description=How activity is rendered"`
	User        domain.User   `yaml:"user"         toml:"user"         json:"user,omitempty"         jsonschema:"description=Credentials used for saves and keep-alive"`
	Blob        BlobFile      `yaml:"blob"         toml:"blob"         json:"blob,omitempty"         jsonschema:"description=Out-of-band storage for large files"`
	KeepAlive   KeepAliveFile `yaml:"keep_alive"   toml:"keep_alive"   json:"keep_alive,omitempty"   jsonschema:"description=Development session registration"`
	Metrics     MetricsFile   `yaml:"metrics"      toml:"metrics"      json:"metrics,omitempty"      jsonschema:"description=Prometheus endpoint"`
	Ignore      []string      `yaml:"ignore"       toml:"ignore"       json:"ignore,omitempty"       jsonschema:"description=Glob patterns excluded from the project"`
}

// BlobFile configures out-of-band storage.
type BlobFile struct {
	Driver    string `yaml:"driver"     toml:"driver"     json:"driver,omitempty"     jsonschema:"enum=api,enum=s3"`
	URLPrefix string `yaml:"url_prefix" toml:"url_prefix" json:"url_prefix,omitempty" jsonschema:"description=Contents starting with this prefix are sent as references"`
	S3        S3File `yaml:"s3"         toml:"s3"         json:"s3,omitempty"`
}

// S3File configures the S3 driver.
type S3File struct {
	Bucket    string `yaml:"bucket"     toml:"bucket"     json:"bucket,omitempty"`
	Region    string `yaml:"region"     toml:"region"     json:"region,omitempty"`
	Endpoint  string `yaml:"endpoint"   toml:"endpoint"   json:"endpoint,omitempty"   jsonschema:"description=Custom endpoint for S3 compatible stores"`
	AccessKey string `yaml:"access_key" toml:"access_key" json:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key" toml:"secret_key" json:"secret_key,omitempty"`
	PublicURL string `yaml:"public_url" toml:"public_url" json:"public_url,omitempty" jsonschema:"description=Base URL objects are served from"`
}

// KeepAliveFile configures development session registration.
type KeepAliveFile struct {
	URL      string   `yaml:"url"      toml:"url"      json:"url,omitempty"`
	Interval Duration `yaml:"interval" toml:"interval" json:"interval,omitempty"`
	Disabled bool     `yaml:"disabled" toml:"disabled" json:"disabled,omitempty"`
}

// MetricsFile configures the metrics endpoint.
type MetricsFile struct {
	Addr string `yaml:"addr" toml:"addr" json:"addr,omitempty" jsonschema:"description=Listen address such as :9090. Disabled when empty"`
}

// Duration is a time.Duration written as a Go duration string such as "750ms".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// JSONSchema describes durations as strings.
func (Duration) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		Description: "Duration such as 750ms or 1s",
	}
}

// Schema returns the JSON Schema of the configuration file.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
	}
	schema := r.Reflect(&File{})
	schema.Title = "livepush configuration"
	schema.Description = "Configuration schema for " + domain.ConfigFileYAML + " and " + domain.ConfigFileTOML
	schema.ID = ""
	return json.MarshalIndent(schema, "", "  ")
}
