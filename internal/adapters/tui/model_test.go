package tui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/internal/adapters/tui"
	"go.trai.ch/livepush/internal/core/domain"
)

var pixel = domain.Device{ID: "d1", Name: "Pixel", Platform: "android"}

func TestWrapLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		verify   func(t *testing.T, input, got string, width int)
		expected string
	}{
		{
			name:  "no wrap needed",
			input: "hello world",
			width: 20,
			verify: func(t *testing.T, input, got string, width int) {
				t.Helper()
				assert.Contains(t, got, input)
				for line := range strings.SplitSeq(got, "\n") {
					assert.LessOrEqual(t, len(line), width, "line exceeds width")
				}
			},
		},
		{
			name:  "wrap needed",
			input: "hello world this is a long line",
			width: 10,
			verify: func(t *testing.T, input, got string, width int) {
				t.Helper()
				assert.Contains(t, got, "\n", "should produce newlines")
				for line := range strings.SplitSeq(got, "\n") {
					assert.LessOrEqual(t, len(line), width, "line exceeds width")
				}
				assert.Equal(t, strings.Join(strings.Fields(input), " "), strings.Join(strings.Fields(got), " "))
			},
		},
		{name: "width 0", input: "hello world", width: 0, expected: "hello world"},
		{name: "negative width", input: "hello world", width: -5, expected: "hello world"},
		{name: "empty input", input: "", width: 10, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tui.WrapLog(tt.input, tt.width)
			if tt.verify != nil {
				tt.verify(t, tt.input, got, tt.width)
			} else {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestModel_Quit(t *testing.T) {
	m := tui.NewModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_Presence(t *testing.T) {
	m := tui.NewModel()

	m.Update(tui.MsgPresence{Event: domain.PresenceEvent{Device: pixel, Status: domain.PresenceJoin}})
	require.Len(t, m.Devices, 1)
	assert.True(t, m.Devices[0].Connected)
	assert.Equal(t, "android", m.Devices[0].Platform)

	m.Update(tui.MsgPresence{Event: domain.PresenceEvent{Device: pixel, Status: domain.PresenceLeave}})
	require.Len(t, m.Devices, 1)
	assert.False(t, m.Devices[0].Connected)
	assert.Len(t, m.Logs, 2)
}

func TestModel_DeviceErrors(t *testing.T) {
	m := tui.NewModel()

	m.Update(tui.MsgDeviceErrors{Errors: []domain.DeviceError{{Message: "boom", Device: pixel, StartLine: 3}}})
	require.Len(t, m.Devices, 1)
	assert.Len(t, m.Devices[0].Errors, 1)
	assert.Contains(t, m.Logs[0], "[Pixel] boom (3:0)")

	m.Update(tui.MsgDeviceErrors{Errors: []domain.DeviceError{}})
	assert.Empty(t, m.Devices[0].Errors)
}

func TestModel_Activities(t *testing.T) {
	m := tui.NewModel()
	start := time.Now()

	for i := range 7 {
		m.Update(tui.MsgActivityStart{SpanID: string(rune('a' + i)), Name: "publish", StartTime: start})
	}
	assert.Len(t, m.Activities, 5)

	m.Update(tui.MsgActivityComplete{SpanID: "g", EndTime: start.Add(time.Second)})
	m.Update(tui.MsgActivityComplete{SpanID: "f", EndTime: start.Add(time.Second), Err: errors.New("offline")})
	m.Update(tui.MsgActivityComplete{SpanID: "unknown", EndTime: start})

	assert.Equal(t, tui.StatusDone, m.Activities[4].Status)
	assert.Equal(t, time.Second, m.Activities[4].Duration)
	assert.Equal(t, tui.StatusError, m.Activities[3].Status)
	require.Len(t, m.Logs, 1)
	assert.Contains(t, m.Logs[0], "publish failed: offline")
}

func TestModel_Scrolling(t *testing.T) {
	m := tui.NewModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 10})
	require.Positive(t, m.LogHeight)

	for range 50 {
		m.Update(tui.MsgDeviceLog{Log: domain.DeviceLog{Device: pixel, Method: "log", Message: "tick"}})
	}
	bottom := len(m.Logs) - m.LogHeight
	assert.Equal(t, bottom, m.LogOffset)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.False(t, m.FollowMode)
	assert.Equal(t, bottom-1, m.LogOffset)

	m.Update(tui.MsgDeviceLog{Log: domain.DeviceLog{Device: pixel, Method: "warn", Message: "late"}})
	assert.Equal(t, bottom-1, m.LogOffset, "manual mode keeps the position")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.FollowMode)
	assert.Equal(t, len(m.Logs)-m.LogHeight, m.LogOffset)
}

func TestModel_LogCap(t *testing.T) {
	m := tui.NewModel()
	for range 1200 {
		m.Update(tui.MsgDeviceLog{Log: domain.DeviceLog{Device: pixel, Message: "x"}})
	}
	assert.Len(t, m.Logs, 1000)
}
