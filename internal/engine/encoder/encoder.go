// Package encoder turns project files into the diff and URL maps of a CODE message.
package encoder

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/zerr"
)

// Payload is the transfer part of a CODE message.
type Payload struct {
	Diff  map[string]string
	S3URL map[string]string
	// Size is the estimated wire size after eviction.
	Size int
}

// mirror is the last copy of a file that was uploaded to blob storage.
type mirror struct {
	contents string
	url      string
}

// Encoder decides per file whether to send a diff inline or a blob reference.
// It remembers which files were mirrored so later diffs are taken against the uploaded copy.
type Encoder struct {
	mu       sync.Mutex
	blobs    ports.BlobStore
	metrics  ports.Metrics
	prefix   string
	maxSize  int
	mirrored map[string]mirror
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithURLPrefix sets the prefix that marks contents as an already uploaded reference.
func WithURLPrefix(prefix string) Option {
	return func(e *Encoder) {
		e.prefix = prefix
	}
}

// WithMaxSize overrides the payload ceiling.
func WithMaxSize(n int) Option {
	return func(e *Encoder) {
		e.maxSize = n
	}
}

// WithMetrics records uploads.
func WithMetrics(m ports.Metrics) Option {
	return func(e *Encoder) {
		e.metrics = m
	}
}

// New creates an Encoder that evicts oversized files to blobs.
func New(blobs ports.BlobStore, opts ...Option) *Encoder {
	e := &Encoder{
		blobs:    blobs,
		prefix:   domain.DefaultBlobURLPrefix,
		maxSize:  MaxPayloadSize,
		mirrored: make(map[string]mirror),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode computes the payload for files on channel.
// Files are evicted to blob storage, largest diff first, until the payload fits.
func (e *Encoder) Encode(ctx context.Context, channel string, files domain.Files) (Payload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for path := range e.mirrored {
		if _, ok := files[path]; !ok {
			delete(e.mirrored, path)
		}
	}

	payload := Payload{
		Diff:  make(map[string]string, len(files)),
		S3URL: make(map[string]string),
	}
	for _, path := range files.Paths() {
		if err := e.encodeFile(ctx, &payload, path, files[path]); err != nil {
			return Payload{}, err
		}
	}

	payload.Size = PayloadSize(channel, payload.Diff, payload.S3URL)
	if payload.Size <= e.maxSize {
		return payload, nil
	}

	candidates := make([]string, 0, len(payload.Diff))
	for path, diff := range payload.Diff {
		if diff != "" {
			candidates = append(candidates, path)
		}
	}
	// Largest last, ties broken by path so eviction order is stable.
	slices.SortFunc(candidates, func(a, b string) int {
		return cmp.Or(
			cmp.Compare(len(payload.Diff[a]), len(payload.Diff[b])),
			strings.Compare(b, a),
		)
	})

	for payload.Size > e.maxSize && len(candidates) > 0 {
		path := candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		contents := files[path].Contents
		url, err := e.blobs.UploadText(ctx, contents)
		e.observeUpload("code", err)
		if err != nil {
			return Payload{}, zerr.With(zerr.Wrap(err, "failed to upload oversized file"), "path", path)
		}

		e.mirrored[path] = mirror{contents: contents, url: url}
		payload.Diff[path] = ""
		payload.S3URL[path] = url
		payload.Size = PayloadSize(channel, payload.Diff, payload.S3URL)
	}

	return payload, nil
}

func (e *Encoder) encodeFile(ctx context.Context, payload *Payload, path string, file domain.File) error {
	switch {
	case file.IsPendingAsset():
		url, err := e.blobs.UploadAsset(ctx, path, file.Data)
		e.observeUpload("asset", err)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to upload asset"), "path", path)
		}
		payload.Diff[path] = ""
		payload.S3URL[path] = url
	case file.Type == domain.FileTypeAsset, e.prefix != "" && strings.HasPrefix(file.Contents, e.prefix):
		payload.Diff[path] = ""
		payload.S3URL[path] = file.Contents
	default:
		if m, ok := e.mirrored[path]; ok {
			payload.Diff[path] = Diff(m.contents, file.Contents)
			payload.S3URL[path] = m.url
			return nil
		}
		payload.Diff[path] = Diff("", file.Contents)
	}
	return nil
}

// Mirrored returns the paths currently mirrored to blob storage.
func (e *Encoder) Mirrored() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Sorted(maps.Keys(e.mirrored))
}

// Reset forgets every mirrored file.
func (e *Encoder) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.mirrored)
}

func (e *Encoder) observeUpload(kind string, err error) {
	if e.metrics != nil {
		e.metrics.ObserveUpload(kind, err)
	}
}
