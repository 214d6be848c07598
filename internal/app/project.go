package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/session"
	"go.trai.ch/zerr"
)

// packageManifest lists the npm dependencies of a project.
const packageManifest = "package.json"

// project mirrors a directory into a session.
// Assets are only uploaded when their bytes change, and package.json drives the dependency set.
type project struct {
	session   *session.Session
	transport ports.Transport
	logger    ports.Logger

	mu       sync.Mutex
	assets   map[string]uploadedAsset
	manifest *string
}

type uploadedAsset struct {
	sum  uint64
	file domain.File
}

func newProject(s *session.Session, tr ports.Transport, log ports.Logger) *project {
	return &project{
		session:   s,
		transport: tr,
		logger:    log,
		assets:    make(map[string]uploadedAsset),
	}
}

// push sends files to the session, reusing the hosted copy of unchanged assets.
func (p *project) push(ctx context.Context, files domain.Files) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := files.Clone()
	sums := make(map[string]uint64)
	for path, f := range files {
		if !f.IsPendingAsset() {
			continue
		}
		sum := xxhash.Sum64(f.Data)
		sums[path] = sum
		if up, ok := p.assets[path]; ok && up.sum == sum {
			next[path] = up.file
		}
	}

	if err := p.session.SendCode(ctx, next); err != nil {
		return err
	}

	stored := p.session.State().Files
	assets := make(map[string]uploadedAsset, len(sums))
	for path, sum := range sums {
		if f, ok := stored[path]; ok && !f.IsPendingAsset() {
			assets[path] = uploadedAsset{sum: sum, file: f}
		}
	}
	p.assets = assets

	return p.syncDependencies(ctx, files)
}

// syncDependencies installs the dependencies listed in package.json whenever the file changes.
func (p *project) syncDependencies(ctx context.Context, files domain.Files) error {
	f, ok := files[packageManifest]
	if !ok || f.Type != domain.FileTypeCode {
		return nil
	}
	if p.manifest != nil && *p.manifest == f.Contents {
		return nil
	}

	var pkg struct {
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal([]byte(f.Contents), &pkg); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse package manifest"), "path", packageManifest)
	}

	err := p.session.SyncDependencies(ctx, pkg.Dependencies, func(name string, err error) {
		if errors.Is(err, domain.ErrModulePreloaded) {
			return
		}
		p.logger.Warn("Failed to install " + name + ": " + err.Error())
	})
	if err != nil {
		return err
	}
	contents := f.Contents
	p.manifest = &contents
	return nil
}

// close stops the session and releases its transport.
func (p *project) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()
	return errors.Join(p.session.Stop(ctx), p.transport.Close())
}
