package app_test

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/adapters/telemetry"
	"go.trai.ch/livepush/internal/app"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
	"go.trai.ch/livepush/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// lockedBuffer is written by session goroutines and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type remote struct {
	*mocks.MockProjectService
	*mocks.MockArtifactBuilder
	*mocks.MockKeepAlive
}

type fixture struct {
	app       *app.App
	cfg       *domain.Config
	reader    *mocks.MockProjectReader
	projects  *mocks.MockProjectService
	builder   *mocks.MockArtifactBuilder
	blobs     *mocks.MockBlobStore
	bundler   *mocks.MockBundler
	transport *mocks.MockTransport
	watcher   *mocks.MockWatcher
	history   *mocks.MockHistoryStore
	stdout    *lockedBuffer
	stderr    *lockedBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := domain.DefaultConfig()
	cfg.Root = t.TempDir()
	cfg.KeepAlive.Disabled = true

	f := &fixture{
		cfg:       &cfg,
		reader:    mocks.NewMockProjectReader(ctrl),
		projects:  mocks.NewMockProjectService(ctrl),
		builder:   mocks.NewMockArtifactBuilder(ctrl),
		blobs:     mocks.NewMockBlobStore(ctrl),
		bundler:   mocks.NewMockBundler(ctrl),
		transport: mocks.NewMockTransport(ctrl),
		watcher:   mocks.NewMockWatcher(ctrl),
		history:   mocks.NewMockHistoryStore(ctrl),
		stdout:    &lockedBuffer{},
		stderr:    &lockedBuffer{},
	}

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(f.cfg, nil).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	annotator := mocks.NewMockAnnotator(ctrl)
	annotator.EXPECT().Scan(gomock.Any()).Return(nil, nil).AnyTimes()
	annotator.EXPECT().Rewrite(gomock.Any(), gomock.Any()).
		DoAndReturn(func(source string, _ map[string]string) (string, error) { return source, nil }).AnyTimes()

	f.transport.EXPECT().OnMessage(gomock.Any()).AnyTimes()
	f.transport.EXPECT().OnPresence(gomock.Any()).AnyTimes()
	f.transport.EXPECT().OnStatus(gomock.Any()).AnyTimes()
	f.transport.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.transport.EXPECT().Close().Return(nil)

	f.app = app.New(loader, logger, f.reader, annotator, nil, app.Factories{
		Remote: func(*domain.Config) app.Remote {
			return remote{f.projects, f.builder, mocks.NewMockKeepAlive(ctrl)}
		},
		Blobs: func(context.Context, *domain.Config) (ports.BlobStore, error) {
			return f.blobs, nil
		},
		Bundler: func(*domain.Config) ports.Bundler {
			return f.bundler
		},
		Transport: func(*domain.Config) ports.Transport {
			return f.transport
		},
		Watcher: func([]string) (ports.Watcher, error) {
			return f.watcher, nil
		},
		History: func(root string) ports.HistoryStore {
			assert.Equal(t, cfg.Root, root)
			return f.history
		},
		Tracer: telemetry.NewOTelTracer,
	}).WithOutput(f.stdout, f.stderr)

	return f
}

func code(contents string) domain.File {
	return domain.File{Type: domain.FileTypeCode, Contents: contents}
}

func (f *fixture) expectRead(files domain.Files) {
	f.reader.EXPECT().Read(f.cfg.Root, f.cfg.Ignore).Return(files, nil)
}

func TestApp_Save(t *testing.T) {
	f := newFixture(t)
	f.expectRead(domain.Files{"App.js": code("export default () => null")})

	f.projects.EXPECT().Save(gomock.Any(), domain.User{}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.User, req domain.SaveRequest) (domain.SaveResult, error) {
			assert.False(t, req.IsDraft)
			assert.Equal(t, "export default () => null", req.Code["App.js"].Contents)
			return domain.SaveResult{ID: "abc123"}, nil
		})

	var recorded domain.HistoryEntry
	f.history.EXPECT().Record(gomock.Any()).DoAndReturn(func(e domain.HistoryEntry) error {
		recorded = e
		return nil
	})

	err := f.app.Save(context.Background(), ".", app.SaveOptions{})
	require.NoError(t, err)

	assert.Equal(t, "https://expo.io/@snack/abc123\n", f.stdout.String())
	assert.Equal(t, "abc123", recorded.ID)
	assert.Equal(t, domain.DefaultSDKVersion, recorded.SDKVersion)
	assert.NotEmpty(t, recorded.Channel)
	assert.NotEmpty(t, recorded.ContentHash)
	assert.False(t, recorded.Draft)
	assert.Contains(t, f.stderr.String(), "[save]")
}

func TestApp_Save_Draft(t *testing.T) {
	f := newFixture(t)
	f.expectRead(domain.Files{"App.js": code("")})

	f.projects.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.User, req domain.SaveRequest) (domain.SaveResult, error) {
			assert.True(t, req.IsDraft)
			return domain.SaveResult{ID: "owner/draft"}, nil
		})
	f.history.EXPECT().Record(gomock.Any()).DoAndReturn(func(e domain.HistoryEntry) error {
		assert.True(t, e.Draft)
		return nil
	})

	require.NoError(t, f.app.Save(context.Background(), ".", app.SaveOptions{Draft: true}))
	assert.Equal(t, "https://expo.io/owner/draft\n", f.stdout.String())
}

func TestApp_Save_PackageDependencies(t *testing.T) {
	f := newFixture(t)
	f.expectRead(domain.Files{
		"App.js":       code("import _ from 'lodash'"),
		"package.json": code(`{"dependencies":{"lodash":"4.17.15","expo-constants":"*"}}`),
	})

	f.bundler.EXPECT().Fetch(gomock.Any(), "lodash", "4.17.15").
		Return(&domain.Bundle{Name: "lodash", Version: "4.17.15"}, nil)
	f.projects.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.User, req domain.SaveRequest) (domain.SaveResult, error) {
			assert.Equal(t, domain.DependenciesV1{"lodash": "4.17.15"}, req.Manifest.Dependencies)
			return domain.SaveResult{ID: "abc123"}, nil
		})
	f.history.EXPECT().Record(gomock.Any()).Return(nil)

	require.NoError(t, f.app.Save(context.Background(), ".", app.SaveOptions{}))
}

func TestApp_Save_Error(t *testing.T) {
	f := newFixture(t)
	f.expectRead(domain.Files{"App.js": code("")})
	f.projects.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.SaveResult{}, domain.ErrSaveFailed)

	err := f.app.Save(context.Background(), ".", app.SaveOptions{})
	require.ErrorIs(t, err, domain.ErrSaveFailed)
	assert.Empty(t, f.stdout.String())
}

func TestApp_Save_MissingEntryPoint(t *testing.T) {
	f := newFixture(t)
	f.expectRead(domain.Files{"index.js": code("")})

	err := f.app.Save(context.Background(), ".", app.SaveOptions{})
	require.ErrorIs(t, err, domain.ErrEntryPointMissing)
}

func TestApp_Download(t *testing.T) {
	f := newFixture(t)
	f.expectRead(domain.Files{"App.js": code("")})
	f.projects.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.SaveResult{ID: "abc123"}, nil)
	f.projects.EXPECT().DownloadURL("abc123").Return("https://exp.host/--/api/v2/snack/download/abc123")

	require.NoError(t, f.app.Download(context.Background(), "."))
	assert.Equal(t, "https://exp.host/--/api/v2/snack/download/abc123\n", f.stdout.String())
}

func TestApp_Build(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Description = "demo"
		f.expectRead(domain.Files{"App.js": code("")})

		f.builder.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.User, req domain.BuildRequest) (string, error) {
				assert.Equal(t, "demo", req.Manifest.Description)
				return "build-1", nil
			})
		job := domain.BuildJob{ID: "build-1", Status: domain.BuildStatusFinished, ArtifactID: "art-9"}
		f.builder.EXPECT().Status(gomock.Any(), gomock.Any(), gomock.Any()).Return([]domain.BuildJob{job}, nil)

		require.NoError(t, f.app.Build(context.Background(), "."))
		assert.Equal(t, "https://expo.io/artifacts/art-9\n", f.stdout.String())
	})
}

func TestApp_URL(t *testing.T) {
	f := newFixture(t)
	f.cfg.Channel = "abcdef"
	f.expectRead(domain.Files{"App.js": code("")})
	f.history.EXPECT().List().Return([]domain.HistoryEntry{
		{ID: "draft", Channel: "abcdef", Draft: true},
		{ID: "other", Channel: "zzzzzz"},
		{ID: "xyz", Channel: "abcdef"},
	}, nil)

	require.NoError(t, f.app.URL(context.Background(), "."))
	assert.Equal(t, "exp://expo.io/@snack/xyz+abcdef\n", f.stdout.String())
}

func TestApp_URL_Unsaved(t *testing.T) {
	f := newFixture(t)
	f.cfg.Channel = "abcdef"
	f.expectRead(domain.Files{"App.js": code("")})
	f.history.EXPECT().List().Return(nil, nil)

	require.NoError(t, f.app.URL(context.Background(), "."))
	assert.Equal(t, "exp://expo.io/@snack/sdk.39.0.0-abcdef\n", f.stdout.String())
}

func TestApp_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := domain.DefaultConfig()
	cfg.Root = t.TempDir()

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("proj").Return(&cfg, nil)
	store := mocks.NewMockHistoryStore(ctrl)
	saved := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	store.EXPECT().List().Return([]domain.HistoryEntry{
		{ID: "b", URL: "https://expo.io/@snack/b", SDKVersion: "39.0.0", Channel: "abcdef", SavedAt: saved, Draft: true},
		{ID: "a", URL: "https://expo.io/@snack/a", SDKVersion: "38.0.0", Channel: "abcdef", SavedAt: saved},
	}, nil)

	var out bytes.Buffer
	a := app.New(loader, mocks.NewMockLogger(ctrl), nil, nil, nil, app.Factories{
		History: func(string) ports.HistoryStore { return store },
	}).WithOutput(&out, &out)

	require.NoError(t, a.History(context.Background(), "proj"))
	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "SAVED")
	assert.Contains(t, string(lines[1]), "b (draft)")
	assert.Contains(t, string(lines[1]), "2024-05-01 12:00:00")
	assert.Contains(t, string(lines[2]), "https://expo.io/@snack/a")
}

func TestApp_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(nil, errors.New("load failed"))

	a := app.New(loader, mocks.NewMockLogger(ctrl), nil, nil, nil, app.Factories{})
	err := a.Save(context.Background(), "", app.SaveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load failed")
}

func TestApp_Schema(t *testing.T) {
	var out bytes.Buffer
	a := app.New(nil, nil, nil, nil, nil, app.Factories{}).WithOutput(&out, &out)

	require.NoError(t, a.Schema(context.Background()))
	assert.Contains(t, out.String(), "api_url")
}

func TestApp_Start(t *testing.T) {
	f := newFixture(t)
	f.history.EXPECT().List().Return(nil, nil)

	changed := make(chan struct{})
	gomock.InOrder(
		f.reader.EXPECT().Read(f.cfg.Root, f.cfg.Ignore).Return(domain.Files{"App.js": code("v1")}, nil),
		f.reader.EXPECT().Read(f.cfg.Root, f.cfg.Ignore).
			DoAndReturn(func(string, []string) (domain.Files, error) {
				close(changed)
				return domain.Files{"App.js": code("v2")}, nil
			}),
	)
	f.transport.EXPECT().Subscribe(gomock.Any(), "abcdef").Return(nil)
	f.transport.EXPECT().Unsubscribe(gomock.Any(), "abcdef").Return(nil)

	var watchCtx context.Context
	f.watcher.EXPECT().Start(gomock.Any(), f.cfg.Root).DoAndReturn(func(ctx context.Context, _ string) error {
		watchCtx = ctx
		return nil
	})
	f.watcher.EXPECT().Events().DoAndReturn(func() iter.Seq[ports.WatchEvent] {
		return func(yield func(ports.WatchEvent) bool) {
			if !yield(ports.WatchEvent{Path: "App.js", Operation: ports.OpWrite}) {
				return
			}
			<-watchCtx.Done()
		}
	})
	f.watcher.EXPECT().Stop().Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- f.app.Start(ctx, ".", app.StartOptions{OutputMode: "linear", Channel: "abcdef"})
	}()

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("file change was not picked up")
	}
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.Contains(t, f.stderr.String(), "Session Unnamed Snack started on channel abcdef (SDK 39.0.0)")
	assert.Contains(t, f.stderr.String(), "exp://expo.io/@snack/sdk.39.0.0-abcdef")
}

func TestApp_Start_SubscribeError(t *testing.T) {
	f := newFixture(t)
	f.cfg.Channel = "abcdef"
	f.expectRead(domain.Files{"App.js": code("")})
	f.history.EXPECT().List().Return(nil, nil)
	f.transport.EXPECT().Subscribe(gomock.Any(), "abcdef").Return(domain.ErrTransportClosed)

	err := f.app.Start(context.Background(), ".", app.StartOptions{OutputMode: "linear"})
	require.ErrorIs(t, err, domain.ErrTransportClosed)
}
