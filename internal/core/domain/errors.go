package domain

import "go.trai.ch/zerr"

var (
	// ErrChannelEntropy is returned when a caller supplies a channel id that is too short to be unguessable.
	ErrChannelEntropy = zerr.New("please use a channel id with more entropy")

	// ErrSessionStopped is returned when an operation is attempted on a session that has been stopped.
	ErrSessionStopped = zerr.New("session has been stopped")

	// ErrSessionNotStarted is returned when an operation requires an active session.
	ErrSessionNotStarted = zerr.New("session has not been started")

	// ErrSessionAlreadyStarted is returned when Start is called twice.
	ErrSessionAlreadyStarted = zerr.New("session has already been started")

	// ErrEntryPointMissing is returned when the project has no entry point file.
	ErrEntryPointMissing = zerr.New("project is missing its entry point")

	// ErrInvalidMetadataField is returned when a metadata field is set to a value of the wrong type.
	ErrInvalidMetadataField = zerr.New("invalid metadata field value")

	// ErrInvalidDependencySpec is returned when a module name or version fails validation.
	ErrInvalidDependencySpec = zerr.New("invalid dependency spec")

	// ErrInvalidPackageName is returned when a module specifier cannot be parsed into a package name.
	ErrInvalidPackageName = zerr.New("failed to parse the package name")

	// ErrModulePreloaded is returned when adding a module that the runtime already ships.
	ErrModulePreloaded = zerr.New("module is already preloaded")

	// ErrRequestTimedOut is returned when the bundler keeps reporting a module as pending.
	ErrRequestTimedOut = zerr.New("request timed out")

	// ErrBundlerRequestFailed is returned when the bundling service cannot be reached.
	ErrBundlerRequestFailed = zerr.New("failed to request bundle")

	// ErrBundlerResponseInvalid is returned when the bundling service answers with an unreadable body.
	ErrBundlerResponseInvalid = zerr.New("failed to decode bundle response")

	// ErrResolutionInProgress is returned when a reconcile pass is requested while another one runs.
	ErrResolutionInProgress = zerr.New("dependency resolution already in progress")

	// ErrAnnotateFailed is returned when a source file cannot be tokenized for import scanning.
	ErrAnnotateFailed = zerr.New("failed to scan source")

	// ErrUploadFailed is returned when code or assets cannot be uploaded to blob storage.
	ErrUploadFailed = zerr.New("unable to upload to blob storage")

	// ErrUnknownBlobDriver is returned when the configured blob driver is not supported.
	ErrUnknownBlobDriver = zerr.New("unknown blob driver, expected 'api' or 's3'")

	// ErrSaveFailed is returned when the remote service rejects a save without a message.
	ErrSaveFailed = zerr.New("Failed to save code")

	// ErrNotSaved is returned when an operation needs a saved project but none exists yet.
	ErrNotSaved = zerr.New("project has not been saved")

	// ErrUpdateMetadataFailed is returned when the status report cannot be forwarded.
	ErrUpdateMetadataFailed = zerr.New("failed to update snack metadata")

	// ErrBuildFailed is returned when the build service rejects a build request.
	ErrBuildFailed = zerr.New("failed to build artifact")

	// ErrBuildTimedOut is returned when a build does not finish within the polling window.
	ErrBuildTimedOut = zerr.New("build timed out")

	// ErrBuildArtifactMissing is returned when a finished build carries no artifact reference.
	ErrBuildArtifactMissing = zerr.New("build finished without an artifact")

	// ErrKeepAliveFailed is returned when the development session cannot be registered.
	ErrKeepAliveFailed = zerr.New("failed to notify session keep-alive")

	// ErrTransportNotConnected is returned when publishing before the transport is connected.
	ErrTransportNotConnected = zerr.New("transport is not connected")

	// ErrTransportClosed is returned when the transport has been closed.
	ErrTransportClosed = zerr.New("transport is closed")

	// ErrPublishFailed is returned when a message cannot be written to the transport.
	ErrPublishFailed = zerr.New("failed to publish message")

	// ErrInvalidErrorPayload is returned when a runtime ERROR message carries malformed JSON.
	ErrInvalidErrorPayload = zerr.New("failed to parse runtime error payload")

	// ErrQueueClosed is returned when submitting to an install queue that has been shut down.
	ErrQueueClosed = zerr.New("install queue is closed")

	// ErrConfigNotFound is returned when no configuration file is found.
	ErrConfigNotFound = zerr.New("could not find livepush.yaml or livepush.toml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrProjectReadFailed is returned when the project directory cannot be read.
	ErrProjectReadFailed = zerr.New("failed to read project files")

	// ErrHistoryReadFailed is returned when the save history cannot be read.
	ErrHistoryReadFailed = zerr.New("failed to read save history")

	// ErrHistoryWriteFailed is returned when the save history cannot be written.
	ErrHistoryWriteFailed = zerr.New("failed to write save history")

	// ErrCacheReadFailed is returned when a cached bundle cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read bundle cache")

	// ErrCacheWriteFailed is returned when a bundle cannot be cached.
	ErrCacheWriteFailed = zerr.New("failed to write bundle cache")
)
