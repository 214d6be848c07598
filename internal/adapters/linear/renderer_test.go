package linear_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/adapters/linear"
	"go.trai.ch/livepush/internal/core/domain"
	"go.trai.ch/livepush/internal/core/ports"
)

var pixel = domain.Device{ID: "d1", Name: "Pixel", Platform: "android"}

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr), &stdout, &stderr
}

func TestRenderer_Lifecycle(t *testing.T) {
	r, _, _ := newRenderer(t)

	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Stop())
	require.NoError(t, r.Wait())
}

func TestRenderer_SessionStart(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnSessionStart(ports.SessionInfo{
		Channel:    "123456",
		SDKVersion: "39.0.0",
		URL:        "exp://expo.io/@snack/sdk.39.0.0-123456",
		User:       "jane",
	})

	assert.Empty(t, stdout.String())
	assert.Equal(t, "Session Unnamed Snack started on channel 123456 (SDK 39.0.0)\n"+
		"Signed in as jane\n"+
		"Open exp://expo.io/@snack/sdk.39.0.0-123456 in a runtime to connect\n", stderr.String())
}

func TestRenderer_Activities(t *testing.T) {
	r, _, stderr := newRenderer(t)
	start := time.Now()

	r.OnActivityStart("span1", "publish", start)
	assert.Empty(t, stderr.String(), "start is silent")

	r.OnActivityComplete("span1", start.Add(100*time.Millisecond), nil)
	assert.Contains(t, stderr.String(), "[publish] ✓ Completed in 100ms")

	r.OnActivityStart("span2", "resolve", start)
	r.OnActivityComplete("span2", start.Add(time.Second), errors.New("not found"))
	assert.Contains(t, stderr.String(), "[resolve] ✗ Failed after 1s: not found")

	stderr.Reset()
	r.OnActivityComplete("span2", start, nil)
	assert.Empty(t, stderr.String(), "unknown spans are ignored")
}

func TestRenderer_DeviceLogs(t *testing.T) {
	r, stdout, stderr := newRenderer(t)

	r.OnDeviceLog(domain.DeviceLog{Device: pixel, Method: "log", Message: "first\nsecond\n"})
	r.OnDeviceLog(domain.DeviceLog{Device: domain.Device{ID: "d2"}, Method: "warn", Message: "careful"})

	assert.Equal(t, "[Pixel] first\n[Pixel] second\n", stdout.String())
	assert.Equal(t, "[d2] careful\n", stderr.String())
}

func TestRenderer_PresenceAndErrors(t *testing.T) {
	r, _, stderr := newRenderer(t)

	r.OnPresence(domain.PresenceEvent{Device: pixel, Status: domain.PresenceJoin})
	r.OnPresence(domain.PresenceEvent{Device: pixel, Status: domain.PresenceLeave})
	r.OnDeviceErrors([]domain.DeviceError{{Message: "boom", Device: pixel, StartLine: 4, StartColumn: 2}})

	assert.Equal(t, "● Pixel (android) connected\n"+
		"○ Pixel (android) disconnected\n"+
		"✗ [Pixel] boom (4:2)\n", stderr.String())
}
