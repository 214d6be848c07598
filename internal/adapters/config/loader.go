// Package config discovers and loads livepush.yaml or livepush.toml.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LIVEPUSH_"

// Loader implements ports.ConfigLoader.
type Loader struct {
	Logger ports.Logger
	// Getenv looks up overrides. It defaults to os.Getenv.
	Getenv func(string) string
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// DiscoverRoot walks up from cwd and returns the first directory holding a configuration file.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	path, err := l.find(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// Load resolves the configuration for cwd.
// Without a configuration file the defaults apply with cwd as root.
// Environment overrides are applied last and the result is validated.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Root = filepath.Clean(cwd)

	path, err := l.find(cwd)
	switch {
	case err == nil:
		var file File
		if err := readFile(path, &file); err != nil {
			return nil, zerr.With(err, "path", path)
		}
		cfg.Root = filepath.Dir(path)
		apply(&cfg, &file)
	case !errors.Is(err, domain.ErrConfigNotFound):
		return nil, err
	}

	if err := l.applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) find(cwd string) (string, error) {
	dir := filepath.Clean(cwd)
	for {
		yamlPath := filepath.Join(dir, domain.ConfigFileYAML)
		tomlPath := filepath.Join(dir, domain.ConfigFileTOML)
		_, yamlErr := os.Stat(yamlPath)
		_, tomlErr := os.Stat(tomlPath)

		switch {
		case yamlErr == nil && tomlErr == nil:
			if l.Logger != nil {
				l.Logger.Warn(domain.ConfigFileTOML + " is ignored because " + domain.ConfigFileYAML + " exists in " + dir)
			}
			return yamlPath, nil
		case yamlErr == nil:
			return yamlPath, nil
		case tomlErr == nil:
			return tomlPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		dir = parent
	}
}

// readFile decodes a configuration file, choosing the format by extension.
func readFile(path string, target *File) error {
	// #nosec G304 -- path is discovered from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if filepath.Ext(path) == ".toml" {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(target); err != nil {
			return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		}
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

// apply copies every set field of file over cfg.
func apply(cfg *domain.Config, file *File) {
	setString(&cfg.APIURL, file.APIURL)
	setString(&cfg.Host, file.Host)
	setString(&cfg.BundlerURL, file.BundlerURL)
	setString(&cfg.RelayURL, file.RelayURL)
	setString(&cfg.SDKVersion, file.SDKVersion)
	setString(&cfg.Name, file.Name)
	setString(&cfg.Description, file.Description)
	setString(&cfg.Entry, file.Entry)
	setString(&cfg.Channel, file.Channel)
	setString(&cfg.DeviceID, file.DeviceID)
	if file.Debounce != 0 {
		cfg.Debounce = time.Duration(file.Debounce)
	}
	cfg.Verbose = file.Verbose
	if file.Output != "" {
		cfg.Output = domain.OutputMode(file.Output)
	}
	if !file.User.IsAnonymous() {
		cfg.User = file.User
	}

	if file.Blob.Driver != "" {
		cfg.Blob.Driver = domain.BlobDriver(file.Blob.Driver)
	}
	setString(&cfg.Blob.URLPrefix, file.Blob.URLPrefix)
	cfg.Blob.S3 = domain.S3Config{
		Bucket:    file.Blob.S3.Bucket,
		Region:    file.Blob.S3.Region,
		Endpoint:  file.Blob.S3.Endpoint,
		AccessKey: file.Blob.S3.AccessKey,
		SecretKey: file.Blob.S3.SecretKey,
		PublicURL: file.Blob.S3.PublicURL,
	}

	switch {
	case file.KeepAlive.URL != "":
		cfg.KeepAlive.URL = file.KeepAlive.URL
	case file.APIURL != "":
		cfg.KeepAlive.URL = file.APIURL + domain.DefaultKeepAlivePath
	}
	if file.KeepAlive.Interval != 0 {
		cfg.KeepAlive.Interval = time.Duration(file.KeepAlive.Interval)
	}
	cfg.KeepAlive.Disabled = file.KeepAlive.Disabled

	cfg.MetricsAddr = file.Metrics.Addr
	if file.Ignore != nil {
		cfg.Ignore = append([]string(nil), file.Ignore...)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// applyEnv overrides cfg with LIVEPUSH_* variables.
func (l *Loader) applyEnv(cfg *domain.Config) error {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	env := func(name string) string { return getenv(EnvPrefix + name) }

	setString(&cfg.APIURL, env("API_URL"))
	setString(&cfg.Host, env("HOST"))
	setString(&cfg.BundlerURL, env("BUNDLER_URL"))
	setString(&cfg.RelayURL, env("RELAY_URL"))
	setString(&cfg.SDKVersion, env("SDK_VERSION"))
	setString(&cfg.Channel, env("CHANNEL"))
	setString(&cfg.DeviceID, env("DEVICE_ID"))
	setString(&cfg.User.IDToken, env("ID_TOKEN"))
	setString(&cfg.User.SessionSecret, env("SESSION_SECRET"))
	setString(&cfg.Blob.S3.Bucket, env("S3_BUCKET"))
	setString(&cfg.Blob.S3.Region, env("S3_REGION"))
	setString(&cfg.Blob.S3.Endpoint, env("S3_ENDPOINT"))
	setString(&cfg.Blob.S3.AccessKey, env("S3_ACCESS_KEY"))
	setString(&cfg.Blob.S3.SecretKey, env("S3_SECRET_KEY"))
	setString(&cfg.MetricsAddr, env("METRICS_ADDR"))

	if v := env("OUTPUT"); v != "" {
		cfg.Output = domain.OutputMode(v)
	}
	if v := env("BLOB_DRIVER"); v != "" {
		cfg.Blob.Driver = domain.BlobDriver(v)
	}
	if v := env("DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid "+EnvPrefix+"DEBOUNCE"), "value", v)
		}
		cfg.Debounce = d
	}
	if v := env("VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid "+EnvPrefix+"VERBOSE"), "value", v)
		}
		cfg.Verbose = b
	}
	return nil
}

func validate(cfg *domain.Config) error {
	if cfg.Debounce < domain.MinDebounce || cfg.Debounce > domain.MaxDebounce {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "debounce must be between 500ms and 1s"), "debounce", cfg.Debounce.String())
	}
	switch cfg.Output {
	case domain.OutputAuto, domain.OutputTUI, domain.OutputLinear:
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "output must be auto, tui or linear"), "output", string(cfg.Output))
	}
	switch cfg.Blob.Driver {
	case domain.BlobDriverAPI:
	case domain.BlobDriverS3:
		if cfg.Blob.S3.Bucket == "" {
			return zerr.Wrap(domain.ErrInvalidConfig, "blob.s3.bucket is required for the s3 driver")
		}
	default:
		return zerr.With(domain.ErrUnknownBlobDriver, "driver", string(cfg.Blob.Driver))
	}
	if cfg.Channel != "" {
		if err := domain.ValidateChannel(cfg.Channel); err != nil {
			return err
		}
	}
	if cfg.KeepAlive.Interval <= 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "keep_alive.interval must be positive"), "interval", cfg.KeepAlive.Interval.String())
	}
	return nil
}
