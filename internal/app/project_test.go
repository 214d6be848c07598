package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports/mocks"
	"go.trai.ch/livepush/internal/session"
	"go.uber.org/mock/gomock"
)

type projectFixture struct {
	project *project
	blobs   *mocks.MockBlobStore
	bundler *mocks.MockBundler
	logger  *mocks.MockLogger
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	tr := mocks.NewMockTransport(ctrl)
	tr.EXPECT().OnMessage(gomock.Any())
	tr.EXPECT().OnPresence(gomock.Any())
	tr.EXPECT().OnStatus(gomock.Any())
	tr.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	tr.EXPECT().Close().Return(nil)

	annotator := mocks.NewMockAnnotator(ctrl)
	annotator.EXPECT().Scan(gomock.Any()).Return(nil, nil).AnyTimes()

	f := &projectFixture{
		blobs:   mocks.NewMockBlobStore(ctrl),
		bundler: mocks.NewMockBundler(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	s, err := session.New(session.Options{DisableKeepAlive: true}, session.Deps{
		Transport: tr,
		Blobs:     f.blobs,
		Bundler:   f.bundler,
		Annotator: annotator,
		Logger:    f.logger,
	})
	require.NoError(t, err)

	f.project = newProject(s, tr, f.logger)
	t.Cleanup(func() {
		assert.NoError(t, f.project.close(context.Background()))
	})
	return f
}

func asset(data string) domain.File {
	return domain.File{Type: domain.FileTypeAsset, Data: []byte(data)}
}

func TestProject_ReusesUploadedAssets(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	f.blobs.EXPECT().UploadAsset(gomock.Any(), "logo.png", []byte("v1")).Return("https://blobs/1", nil)
	require.NoError(t, f.project.push(ctx, domain.Files{"App.js": code("a"), "logo.png": asset("v1")}))

	// Only the code changed.
	require.NoError(t, f.project.push(ctx, domain.Files{"App.js": code("b"), "logo.png": asset("v1")}))
	assert.Equal(t, "https://blobs/1", f.project.session.State().Files["logo.png"].Contents)

	f.blobs.EXPECT().UploadAsset(gomock.Any(), "logo.png", []byte("v2")).Return("https://blobs/2", nil)
	require.NoError(t, f.project.push(ctx, domain.Files{"App.js": code("b"), "logo.png": asset("v2")}))
	assert.Equal(t, "https://blobs/2", f.project.session.State().Files["logo.png"].Contents)
}

func TestProject_UploadFailureKeepsFiles(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	f.blobs.EXPECT().UploadAsset(gomock.Any(), "logo.png", gomock.Any()).Return("", assert.AnError)
	err := f.project.push(ctx, domain.Files{"App.js": code("a"), "logo.png": asset("v1")})
	require.ErrorIs(t, err, assert.AnError)
	assert.NotContains(t, f.project.session.State().Files, "logo.png")
}

func TestProject_SyncsPackageManifestOnChange(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	manifest := code(`{"dependencies":{"uuid":"3.0.0","expo":"39.0.0"}}`)

	f.bundler.EXPECT().Fetch(gomock.Any(), "uuid", "3.0.0").
		Return(&domain.Bundle{Name: "uuid", Version: "3.0.0"}, nil)
	require.NoError(t, f.project.push(ctx, domain.Files{"App.js": code("a"), "package.json": manifest}))
	assert.Equal(t, []string{"uuid"}, f.project.session.State().Dependencies.Names())

	// An unchanged manifest is not synced again.
	require.NoError(t, f.project.push(ctx, domain.Files{"App.js": code("b"), "package.json": manifest}))

	f.bundler.EXPECT().Fetch(gomock.Any(), "left-pad", "1.0.0").Return(nil, assert.AnError)
	f.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "Failed to install left-pad")
	})
	require.NoError(t, f.project.push(ctx, domain.Files{
		"App.js":       code("b"),
		"package.json": code(`{"dependencies":{"left-pad":"1.0.0"}}`),
	}))
	assert.Empty(t, f.project.session.State().Dependencies)
}

func TestProject_InvalidPackageManifest(t *testing.T) {
	f := newProjectFixture(t)

	err := f.project.push(context.Background(), domain.Files{"App.js": code("a"), "package.json": code("{")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse package manifest")
}

func code(contents string) domain.File {
	return domain.File{Type: domain.FileTypeCode, Contents: contents}
}
