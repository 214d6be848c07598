package session_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/session"
	"go.uber.org/mock/gomock"
)

var testUser = domain.User{SessionSecret: `{"id":"u1"}`}

type registrations struct {
	mu   sync.Mutex
	list []domain.SessionDescriptor
}

func (r *registrations) record(_ context.Context, _ domain.User, _ string, d domain.SessionDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, d)
	return nil
}

func (r *registrations) descriptions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, d := range r.list {
		out = append(out, d.Description)
	}
	return out
}

func TestKeepAlive_Interval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{User: testUser, DeviceID: "dev-1", Name: "demo"})
		var regs registrations
		f.keepAlive.EXPECT().NotifyAlive(gomock.Any(), testUser, "dev-1", gomock.Any()).
			DoAndReturn(regs.record).AnyTimes()

		f.start(t)
		synctest.Wait()
		require.Len(t, regs.descriptions(), 1)
		assert.Equal(t, "exp://expo.io/@snack/sdk.39.0.0-123456", regs.list[0].URL)

		time.Sleep(domain.DefaultKeepAliveInterval - time.Second)
		synctest.Wait()
		assert.Len(t, regs.descriptions(), 1)

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, []string{"demo", "demo"}, regs.descriptions())

		require.NoError(t, f.session.Stop(context.Background()))
		time.Sleep(5 * domain.DefaultKeepAliveInterval)
		synctest.Wait()
		assert.Len(t, regs.descriptions(), 2)
	})
}

func TestKeepAlive_RefreshOnChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{User: testUser, DeviceID: "dev-1"})
		var regs registrations
		f.keepAlive.EXPECT().NotifyAlive(gomock.Any(), testUser, "dev-1", gomock.Any()).
			DoAndReturn(regs.record).AnyTimes()

		f.start(t)
		synctest.Wait()

		f.session.SetDescription("ignored")
		synctest.Wait()
		assert.Equal(t, []string{"Unnamed Snack"}, regs.descriptions())

		time.Sleep(10 * time.Second)
		f.session.SetName("renamed")
		synctest.Wait()
		assert.Equal(t, []string{"Unnamed Snack", "renamed"}, regs.descriptions())

		// The interval restarts after a refresh.
		time.Sleep(domain.DefaultKeepAliveInterval - time.Second)
		synctest.Wait()
		assert.Len(t, regs.descriptions(), 2)
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Len(t, regs.descriptions(), 3)
	})
}

func TestKeepAlive_SkipsAnonymous(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{})
		f.start(t)

		time.Sleep(3 * domain.DefaultKeepAliveInterval)
		synctest.Wait()

		// No NotifyAlive expectation is set, so any call fails the test.
		f.keepAlive.EXPECT().NotifyAlive(gomock.Any(), testUser, gomock.Any(), gomock.Any()).Return(assert.AnError)
		f.session.SetUser(testUser)
		synctest.Wait()
	})
}

func TestKeepAlive_ChangesBeforeStart(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{DeviceID: "dev-1"})
		var regs registrations
		f.keepAlive.EXPECT().NotifyAlive(gomock.Any(), testUser, "dev-1", gomock.Any()).
			DoAndReturn(regs.record).AnyTimes()

		f.session.SetUser(testUser)
		f.session.SetName("demo")
		f.start(t)
		synctest.Wait()
		assert.Equal(t, []string{"demo"}, regs.descriptions())

		time.Sleep(domain.DefaultKeepAliveInterval - time.Second)
		synctest.Wait()
		assert.Len(t, regs.descriptions(), 1)
	})
}

func TestKeepAlive_RefreshOnDeviceChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, session.Options{User: testUser, DeviceID: "dev-1"})
		var mu sync.Mutex
		var devices []string
		f.keepAlive.EXPECT().NotifyAlive(gomock.Any(), testUser, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.User, deviceID string, _ domain.SessionDescriptor) error {
				mu.Lock()
				defer mu.Unlock()
				devices = append(devices, deviceID)
				return nil
			}).AnyTimes()

		f.start(t)
		synctest.Wait()

		f.session.SetDeviceID("dev-2")
		f.session.SetDeviceID("dev-2")
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"dev-1", "dev-2"}, devices)
	})
}
