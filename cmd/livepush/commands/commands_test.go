package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/livepush/cmd/livepush/commands"
	"go.trai.ch/livepush/internal/app"
	"go.trai.ch/livepush/internal/build"
	"go.trai.ch/livepush/internal/core/domain"
)

type call struct {
	name string
	arg  string
}

type mockApp struct {
	calls     []call
	startOpts app.StartOptions
	saveOpts  app.SaveOptions
	logOpts   app.LogOptions
	err       error
}

func (m *mockApp) record(name, arg string) error {
	m.calls = append(m.calls, call{name: name, arg: arg})
	return m.err
}

func (m *mockApp) Start(_ context.Context, dir string, opts app.StartOptions) error {
	m.startOpts = opts
	return m.record("start", dir)
}

func (m *mockApp) Save(_ context.Context, dir string, opts app.SaveOptions) error {
	m.saveOpts = opts
	return m.record("save", dir)
}

func (m *mockApp) URL(_ context.Context, dir string) error {
	return m.record("url", dir)
}

func (m *mockApp) Build(_ context.Context, dir string) error {
	return m.record("build", dir)
}

func (m *mockApp) Download(_ context.Context, dir string) error {
	return m.record("download", dir)
}

func (m *mockApp) History(_ context.Context, dir string) error {
	return m.record("history", dir)
}

func (m *mockApp) Relay(_ context.Context, addr string) error {
	return m.record("relay", addr)
}

func (m *mockApp) Schema(_ context.Context) error {
	return m.record("schema", "")
}

func (m *mockApp) SetLogOptions(opts app.LogOptions) {
	m.logOpts = opts
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Start(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "start", "demo", "--channel", "abcdef", "--output-mode", "tui")
		require.NoError(t, err)
		assert.Equal(t, []call{{name: "start", arg: "demo"}}, m.calls)
		assert.Equal(t, app.StartOptions{OutputMode: "tui", Channel: "abcdef"}, m.startOpts)
	})

	t.Run("ci forces linear output", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "start", "--ci", "-o", "tui")
		require.NoError(t, err)
		assert.Equal(t, []call{{name: "start", arg: "."}}, m.calls)
		assert.Equal(t, "linear", m.startOpts.OutputMode)
	})

	t.Run("rejects extra arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "start", "a", "b")
		require.Error(t, err)
		assert.Empty(t, m.calls)
	})
}

func TestCommands_Save(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "save", "--draft")
	require.NoError(t, err)
	assert.Equal(t, []call{{name: "save", arg: "."}}, m.calls)
	assert.True(t, m.saveOpts.Draft)
}

func TestCommands_ProjectCommands(t *testing.T) {
	for _, name := range []string{"url", "build", "download", "history"} {
		t.Run(name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, name, "proj")
			require.NoError(t, err)
			assert.Equal(t, []call{{name: name, arg: "proj"}}, m.calls)
		})
	}
}

func TestCommands_Relay(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "relay")
	require.NoError(t, err)
	assert.Equal(t, []call{{name: "relay", arg: domain.DefaultRelayAddr}}, m.calls)

	m = &mockApp{}
	_, err = execute(t, m, "relay", "--addr", ":9000")
	require.NoError(t, err)
	assert.Equal(t, []call{{name: "relay", arg: ":9000"}}, m.calls)
}

func TestCommands_Schema(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "schema")
	require.NoError(t, err)
	assert.Equal(t, []call{{name: "schema"}}, m.calls)
}

func TestCommands_LogFlags(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "history", "--json", "-v")
	require.NoError(t, err)
	assert.Equal(t, app.LogOptions{JSON: true, Verbose: true}, m.logOpts)
}

func TestCommands_Error(t *testing.T) {
	m := &mockApp{err: errors.New("simulated error")}
	_, err := execute(t, m, "save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "livepush version "+build.Version)
}
