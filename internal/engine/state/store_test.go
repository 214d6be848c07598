package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports/mocks"
	"go.trai.ch/livepush/internal/engine/state"
	"go.uber.org/mock/gomock"
)

func code(s string) domain.File {
	return domain.File{Type: domain.FileTypeCode, Contents: s}
}

func newStore(t *testing.T, init state.Init) (*state.Store, *mocks.MockBlobStore, *[]domain.State) {
	t.Helper()
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	bus := state.NewBus()
	var states []domain.State
	bus.State.Add(func(s domain.State) { states = append(states, s) })
	return state.NewStore(init, blobs, bus), blobs, &states
}

func TestNewStore_Defaults(t *testing.T) {
	s, _, _ := newStore(t, state.Init{
		Dependencies: domain.Dependencies{
			"react":  {Version: "16.13.1"},
			"lodash": {Version: "4.17.21"},
		},
	})

	st := s.State()
	assert.Equal(t, domain.DefaultSDKVersion, st.SDKVersion)
	assert.Equal(t, domain.Files{domain.DefaultEntryPoint: code("")}, st.Files)
	assert.Equal(t, []string{"lodash"}, st.Dependencies.Names())
	assert.True(t, st.IsSaved)
	assert.False(t, st.IsResolving)
}

func TestApplyFileChanges(t *testing.T) {
	s, _, states := newStore(t, state.Init{Files: domain.Files{"App.js": code("a")}})

	changed, err := s.ApplyFileChanges(context.Background(), domain.Files{"App.js": code("a")})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, *states)
	assert.Zero(t, s.Revision())

	changed, err = s.ApplyFileChanges(context.Background(), domain.Files{
		"App.js":   code("b"),
		"utils.js": code("export default 1"),
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, uint64(1), s.Revision())
	require.Len(t, *states, 1)
	assert.False(t, (*states)[0].IsSaved)
	assert.Equal(t, []string{"App.js", "utils.js"}, (*states)[0].Files.Paths())

	changed, err = s.ApplyFileChanges(context.Background(), domain.Files{"App.js": code("a")})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, s.State().IsSaved, "reverting to the initial files counts as saved")
}

func TestApplyFileChanges_EntryPointRequired(t *testing.T) {
	s, _, states := newStore(t, state.Init{EntryPoint: "index.js"})

	_, err := s.ApplyFileChanges(context.Background(), domain.Files{"App.js": code("x")})
	require.ErrorIs(t, err, domain.ErrEntryPointMissing)
	assert.Empty(t, *states)
	assert.Equal(t, []string{"index.js"}, s.Files().Paths())
}

func TestApplyFileChanges_UploadsPendingAssets(t *testing.T) {
	s, blobs, _ := newStore(t, state.Init{})

	blobs.EXPECT().UploadAsset(gomock.Any(), "assets/icon.png", []byte{1, 2, 3}).
		Return("https://snack-code-uploads.s3.amazonaws.com/~asset/abc", nil)

	_, err := s.ApplyFileChanges(context.Background(), domain.Files{
		"App.js":          code(""),
		"assets/icon.png": {Type: domain.FileTypeAsset, Data: []byte{1, 2, 3}},
	})
	require.NoError(t, err)

	icon := s.Files()["assets/icon.png"]
	assert.Equal(t, "https://snack-code-uploads.s3.amazonaws.com/~asset/abc", icon.Contents)
	assert.Nil(t, icon.Data)
}

func TestApplyFileChanges_UploadFailureLeavesStoreUnchanged(t *testing.T) {
	s, blobs, states := newStore(t, state.Init{})
	boom := errors.New("403 Forbidden")

	blobs.EXPECT().UploadAsset(gomock.Any(), "logo.png", gomock.Any()).Return("", boom)

	_, err := s.ApplyFileChanges(context.Background(), domain.Files{
		"App.js":   code("changed"),
		"logo.png": {Type: domain.FileTypeAsset, Data: []byte{0}},
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, *states)
	assert.Equal(t, code(""), s.Files()["App.js"])
}

func TestSetMetadataField(t *testing.T) {
	s, _, states := newStore(t, state.Init{Name: "demo"})

	changed, err := s.SetMetadataField(state.FieldName, "demo")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = s.SetMetadataField(state.FieldName, "renamed")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "renamed", s.Metadata().Name)
	require.Len(t, *states, 1)
	assert.False(t, (*states)[0].IsSaved)

	user := domain.User{SessionSecret: "secret"}
	changed, err = s.SetMetadataField(state.FieldUser, user)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, user, s.User())

	changed, err = s.SetMetadataField(state.FieldDeviceID, "device-1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "device-1", s.DeviceID())
}

func TestSetMetadataField_RejectsWrongTypes(t *testing.T) {
	s, _, states := newStore(t, state.Init{})

	tests := []struct {
		field state.Field
		value any
	}{
		{state.FieldName, 42},
		{state.FieldUser, "not a user"},
		{state.Field("colour"), "red"},
	}
	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			_, err := s.SetMetadataField(tt.field, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidMetadataField)
		})
	}
	assert.Empty(t, *states)
}

func TestSetMetadataField_SDKChangePrunesPreloaded(t *testing.T) {
	s, _, _ := newStore(t, state.Init{
		SDKVersion: "24.0.0",
		Dependencies: domain.Dependencies{
			"expo-constants": {Version: "9.2.0"},
			"lodash":         {Version: "4.17.21"},
		},
	})
	assert.Equal(t, []string{"expo-constants", "lodash"}, s.Dependencies().Names())

	changed, err := s.SetMetadataField(state.FieldSDKVersion, "39.0.0")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"lodash"}, s.Dependencies().Names())
}

func TestFieldAffectsKeepAlive(t *testing.T) {
	assert.True(t, state.FieldName.AffectsKeepAlive())
	assert.True(t, state.FieldUser.AffectsKeepAlive())
	assert.True(t, state.FieldDeviceID.AffectsKeepAlive())
	assert.False(t, state.FieldDescription.AffectsKeepAlive())
	assert.False(t, state.FieldSDKVersion.AffectsKeepAlive())
}

func TestSetDependencies(t *testing.T) {
	s, _, states := newStore(t, state.Init{})

	deps := domain.Dependencies{
		"lodash": {Version: "4.17.21"},
		"react":  {Version: "16.13.1"},
	}
	assert.True(t, s.SetDependencies(deps))
	assert.False(t, s.SetDependencies(deps))
	assert.Len(t, *states, 1)
	assert.Equal(t, []string{"lodash"}, s.Dependencies().Names())
}

func TestCommitResolution(t *testing.T) {
	s, _, states := newStore(t, state.Init{
		SDKVersion: "24.0.0",
		Files:      domain.Files{"App.js": code("import 'lodash';")},
		Dependencies: domain.Dependencies{
			"uuid": {Version: "3.0.0"},
		},
	})

	_, deps, sdk, rev := s.ResolutionInput()
	assert.Equal(t, "24.0.0", sdk)
	assert.Len(t, deps, 1)

	ok := s.CommitResolution(rev, domain.Dependencies{
		"lodash": {Version: "4.17.21", Resolved: "4.17.21"},
		"uuid":   {Version: "8.3.2", Resolved: "8.3.2"},
		"react":  {Version: "16.0.0"},
	}, map[string]string{
		"App.js":     "import 'lodash'; // 4.17.21",
		"missing.js": "ignored",
	})
	require.True(t, ok)

	assert.Equal(t, []string{"lodash", "uuid"}, s.Dependencies().Names())
	assert.Equal(t, "8.3.2", s.Dependencies()["uuid"].Version)
	assert.Equal(t, code("import 'lodash'; // 4.17.21"), s.Files()["App.js"])
	assert.Equal(t, rev, s.Revision(), "annotations do not start a new revision")
	assert.Len(t, *states, 1)
}

func TestCommitResolution_StaleRevision(t *testing.T) {
	s, _, _ := newStore(t, state.Init{})
	_, _, _, rev := s.ResolutionInput()

	_, err := s.ApplyFileChanges(context.Background(), domain.Files{"App.js": code("new")})
	require.NoError(t, err)

	assert.False(t, s.CommitResolution(rev, domain.Dependencies{"lodash": {Version: "1.0.0"}}, nil))
	assert.Empty(t, s.Dependencies())
}

func TestBeginResolving(t *testing.T) {
	s, _, states := newStore(t, state.Init{})

	endA := s.BeginResolving()
	endB := s.BeginResolving()
	assert.True(t, s.State().IsResolving)

	endA()
	endA()
	assert.True(t, s.State().IsResolving)

	endB()
	assert.False(t, s.State().IsResolving)
	assert.Len(t, *states, 4)
}

func TestLoadingMessage(t *testing.T) {
	s, _, states := newStore(t, state.Init{})

	assert.True(t, s.SetLoadingMessage("Resolving module: lodash"))
	assert.False(t, s.SetLoadingMessage("Resolving module: lodash"))
	assert.Equal(t, "Resolving module: lodash", s.LoadingMessage())
	assert.Equal(t, "Resolving module: lodash", s.State().LoadingMessage)

	assert.True(t, s.SetLoadingMessage(""))
	assert.Len(t, *states, 2)
}

func TestMarkSaved(t *testing.T) {
	s, _, _ := newStore(t, state.Init{})

	_, err := s.SetMetadataField(state.FieldDescription, "a description")
	require.NoError(t, err)
	assert.False(t, s.State().IsSaved)

	s.MarkSaved("@user/demo")
	assert.True(t, s.State().IsSaved)
	assert.Equal(t, "@user/demo", s.Metadata().RemoteID)
	assert.Equal(t, "a description", s.Snapshot().Description)
}

func TestState_IsIsolatedFromStore(t *testing.T) {
	s, _, _ := newStore(t, state.Init{Files: domain.Files{"App.js": code("a")}})

	st := s.State()
	st.Files["App.js"] = code("mutated")
	assert.Equal(t, code("a"), s.Files()["App.js"])
}
