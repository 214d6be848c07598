package session_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/session"
	"go.uber.org/mock/gomock"
)

func TestAddModule(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DisableKeepAlive: true})
		f.start(t)

		f.bundler.EXPECT().Fetch(gomock.Any(), "lodash", "4.17.15").
			Return(&domain.Bundle{Name: "lodash", Version: "4.17.15"}, nil)

		require.NoError(t, f.session.AddModule(context.Background(), "lodash", "4.17.15"))
		assert.Equal(t, domain.Dependencies{
			"lodash": {Version: "4.17.15", Resolved: "4.17.15"},
		}, f.session.State().Dependencies)

		time.Sleep(2 * time.Second)
		synctest.Wait()

		sent := f.messages()
		require.Len(t, sent, 2)
		assert.Equal(t, domain.MessageTypeLoading, sent[0].Type)
		assert.Equal(t, "Resolving module: lodash@4.17.15", sent[0].Message)
		assert.Equal(t, domain.MessageTypeCode, sent[1].Type)
		assert.Contains(t, sent[1].Deps, "lodash")
		assert.Empty(t, f.session.State().LoadingMessage)

		// Already satisfied.
		require.NoError(t, f.session.AddModule(context.Background(), "lodash", "4.17.15"))
	})
}

func TestAddModule_Preloaded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DisableKeepAlive: true})
		f.start(t)

		var reported []string
		f.session.SetDependencyErrorListener(func(m string) { reported = append(reported, m) })

		err := f.session.AddModule(context.Background(), "expo-constants", "")
		require.ErrorIs(t, err, domain.ErrModulePreloaded)
		assert.Contains(t, err.Error(), "Module is already preloaded: expo-constants")
		assert.Empty(t, f.session.State().Dependencies)
		assert.Empty(t, reported)
	})
}

func TestAddModule_FetchFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DisableKeepAlive: true})
		f.start(t)

		var reported []string
		f.session.SetDependencyErrorListener(func(m string) { reported = append(reported, m) })
		f.bundler.EXPECT().Fetch(gomock.Any(), "left-pad", domain.LatestVersion).Return(nil, assert.AnError)

		err := f.session.AddModule(context.Background(), "left-pad", "")
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, []string{"Error fetching left-pad@latest: " + assert.AnError.Error()}, reported)
		assert.Empty(t, f.session.State().Dependencies)
	})
}

func TestAddModule_Serialized(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DisableKeepAlive: true})
		f.start(t)

		var running, overlap atomic.Int32
		f.bundler.EXPECT().Fetch(gomock.Any(), gomock.Any(), "1.0.0").
			DoAndReturn(func(_ context.Context, name, version string) (*domain.Bundle, error) {
				if running.Add(1) > 1 {
					overlap.Add(1)
				}
				time.Sleep(time.Second)
				running.Add(-1)
				return &domain.Bundle{Name: name, Version: version}, nil
			}).Times(2)

		var wg sync.WaitGroup
		for _, name := range []string{"moment", "uuid"} {
			wg.Go(func() {
				assert.NoError(t, f.session.AddModule(context.Background(), name, "1.0.0"))
			})
		}
		wg.Wait()

		assert.Zero(t, overlap.Load())
		assert.Equal(t, []string{"moment", "uuid"}, f.session.State().Dependencies.Names())
	})
}

func TestRemoveModule(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{
			DisableKeepAlive: true,
			Dependencies:     domain.Dependencies{"lodash": {Version: "4.17.15"}},
		})
		f.start(t)
		ctx := context.Background()

		require.NoError(t, f.session.RemoveModule(ctx, "moment"))
		require.NoError(t, f.session.RemoveModule(ctx, "lodash"))
		assert.Empty(t, f.session.State().Dependencies)

		time.Sleep(2 * time.Second)
		synctest.Wait()
		assert.Equal(t, []string{domain.MessageTypeCode}, f.types())
	})
}

func TestSyncDependencies(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{
			DisableKeepAlive: true,
			Dependencies: domain.Dependencies{
				"lodash": {Version: "4.17.15"},
				"moment": {Version: "2.0.0"},
			},
		})
		f.start(t)

		f.bundler.EXPECT().Fetch(gomock.Any(), "uuid", "3.0.0").
			Return(&domain.Bundle{Name: "uuid", Version: "3.0.0"}, nil)
		f.bundler.EXPECT().Fetch(gomock.Any(), "broken", "1.0.0").Return(nil, assert.AnError)

		failed := make(map[string]error)
		err := f.session.SyncDependencies(context.Background(), map[string]string{
			"lodash": "4.17.15",
			"uuid":   "3.0.0",
			"broken": "1.0.0",
		}, func(name string, err error) { failed[name] = err })
		require.NoError(t, err)

		assert.Equal(t, []string{"lodash", "uuid"}, f.session.State().Dependencies.Names())
		require.Contains(t, failed, "broken")
		require.ErrorIs(t, failed["broken"], assert.AnError)
	})
}

func TestSendCode_WritesVersionCommentsForOlderRuntimes(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DisableKeepAlive: true, SDKVersion: "24.0.0"})
		f.start(t)

		source := "import _ from 'lodash';"
		pinned := "import _ from 'lodash'; // 4.17.21"
		f.setScan(func(string) (map[string]string, error) {
			return map[string]string{"lodash": ""}, nil
		})
		f.bundler.EXPECT().Fetch(gomock.Any(), "lodash", domain.LatestVersion).
			Return(&domain.Bundle{Name: "lodash", Version: "4.17.21"}, nil)
		f.annotator.EXPECT().Rewrite(source, map[string]string{"lodash": "4.17.21"}).Return(pinned, nil)

		require.NoError(t, f.session.SendCode(context.Background(), domain.Files{"App.js": code(source)}))
		time.Sleep(2 * time.Second)
		synctest.Wait()

		st := f.session.State()
		assert.Equal(t, pinned, st.Files["App.js"].Contents)
		assert.Equal(t, []string{"lodash"}, st.Dependencies.Names())

		sent := f.messages()
		require.Len(t, sent, 2)
		assert.Equal(t, domain.MessageTypeLoading, sent[0].Type)
		assert.Equal(t, "Resolving module: lodash", sent[0].Message)
		assert.Equal(t, domain.MessageTypeCode, sent[1].Type)
		assert.Equal(t, map[string]any{"lodash": "4.17.21"}, sent[1].Deps)
		assert.Empty(t, st.LoadingMessage)
	})
}

func TestSendCode_ReportsUnresolvedImports(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DisableKeepAlive: true})
		f.start(t)

		var mu sync.Mutex
		var reported []string
		f.session.SetDependencyErrorListener(func(m string) {
			mu.Lock()
			defer mu.Unlock()
			reported = append(reported, m)
		})
		f.setScan(func(string) (map[string]string, error) {
			return map[string]string{"left-pad": ""}, nil
		})
		f.bundler.EXPECT().Fetch(gomock.Any(), "left-pad", domain.LatestVersion).Return(nil, assert.AnError)

		require.NoError(t, f.session.SendCode(context.Background(), domain.Files{"App.js": code("import 'left-pad'")}))
		time.Sleep(2 * time.Second)
		synctest.Wait()

		mu.Lock()
		assert.Equal(t, []string{"Error fetching left-pad@latest: " + assert.AnError.Error()}, reported)
		mu.Unlock()
		assert.Equal(t, []string{domain.MessageTypeLoading, domain.MessageTypeCode}, f.types())
		assert.Empty(t, f.session.State().Dependencies)
	})
}

func TestPresence_JoinDuringResolutionSendsLoading(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DisableKeepAlive: true})
		f.start(t)

		release := make(chan struct{})
		f.setScan(func(string) (map[string]string, error) {
			return map[string]string{"lodash": ""}, nil
		})
		f.bundler.EXPECT().Fetch(gomock.Any(), "lodash", domain.LatestVersion).
			DoAndReturn(func(context.Context, string, string) (*domain.Bundle, error) {
				<-release
				return &domain.Bundle{Name: "lodash", Version: "4.17.21"}, nil
			})

		require.NoError(t, f.session.SendCode(context.Background(), domain.Files{"App.js": code("import 'lodash'")}))
		time.Sleep(1500 * time.Millisecond)
		synctest.Wait()
		assert.True(t, f.session.State().IsResolving)

		f.onPresence(domain.PresenceActionJoin, deviceUUID)
		synctest.Wait()
		assert.Equal(t, []string{domain.MessageTypeLoading, domain.MessageTypeLoading}, f.types())

		close(release)
		synctest.Wait()
		assert.Equal(t, []string{domain.MessageTypeLoading, domain.MessageTypeLoading, domain.MessageTypeCode}, f.types())
	})
}
