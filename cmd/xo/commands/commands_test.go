package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xo/cmd/xo/commands"
	"go.trai.ch/xo/internal/app"
	"go.trai.ch/xo/internal/build"
	"go.trai.ch/xo/internal/core/domain"
)

type mockApp struct {
	logOpts   *app.LogOptions
	logErr    error
	buildOpts *app.BuildOptions
	buildErr  error
	devOpts   *app.DevOptions
	initDir   string
	initFiles []string
	cleanOpts *app.CleanOptions
}

func (m *mockApp) ConfigureLogging(opts app.LogOptions) error {
	m.logOpts = &opts
	return m.logErr
}

func (m *mockApp) Build(_ context.Context, opts app.BuildOptions) (domain.BuildReport, error) {
	m.buildOpts = &opts
	return domain.BuildReport{}, m.buildErr
}

func (m *mockApp) Dev(_ context.Context, opts app.DevOptions) error {
	m.devOpts = &opts
	return nil
}

func (m *mockApp) Init(dir string) ([]string, error) {
	m.initDir = dir
	return m.initFiles, nil
}

func (m *mockApp) Clean(_ context.Context, opts app.CleanOptions) error {
	m.cleanOpts = &opts
	return nil
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	// A nil slice makes cobra fall back to os.Args.
	cli.SetArgs(append([]string{}, args...))
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--clean", "--force")
		require.NoError(t, err)
		require.NotNil(t, m.buildOpts)
		assert.Equal(t, app.BuildOptions{Clean: true, Force: true}, *m.buildOpts)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		m := &mockApp{buildErr: errors.New("simulated error")}
		_, err := execute(t, m, "build")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "extra")
		require.Error(t, err)
		assert.Nil(t, m.buildOpts)
	})
}

func TestCommands_Dev(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "dev", "--port", "8080", "--backend", "fsnotify", "--sync")
	require.NoError(t, err)
	require.NotNil(t, m.devOpts)
	assert.Equal(t, app.DevOptions{Port: 8080, Backend: "fsnotify", Sync: true}, *m.devOpts)
}

func TestCommands_Init(t *testing.T) {
	t.Run("defaults to the working directory", func(t *testing.T) {
		m := &mockApp{initFiles: []string{"xo.yaml", "content/index.md"}}
		out, err := execute(t, m, "init")
		require.NoError(t, err)
		assert.Equal(t, ".", m.initDir)
		assert.Equal(t, "xo.yaml\ncontent/index.md\n", out)
	})

	t.Run("accepts a directory", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "init", "blog")
		require.NoError(t, err)
		assert.Equal(t, "blog", m.initDir)
	})
}

func TestCommands_Clean(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.CleanOptions
	}{
		{name: "everything by default", args: nil, want: app.CleanOptions{Output: true, State: true}},
		{name: "output only", args: []string{"--output"}, want: app.CleanOptions{Output: true}},
		{name: "state only", args: []string{"--state"}, want: app.CleanOptions{State: true}},
		{name: "both flags", args: []string{"-o", "-s"}, want: app.CleanOptions{Output: true, State: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, append([]string{"clean"}, tt.args...)...)
			require.NoError(t, err)
			require.NotNil(t, m.cleanOpts)
			assert.Equal(t, tt.want, *m.cleanOpts)
		})
	}
}

func TestCommands_Logging(t *testing.T) {
	t.Run("passes persistent flags", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--verbose", "--log-format", "json")
		require.NoError(t, err)
		require.NotNil(t, m.logOpts)
		assert.Equal(t, app.LogOptions{Verbose: true, Format: "json"}, *m.logOpts)
	})

	t.Run("stops on invalid configuration", func(t *testing.T) {
		m := &mockApp{logErr: domain.ErrConfigInvalid}
		_, err := execute(t, m, "build", "--log-format", "xml")
		require.ErrorIs(t, err, domain.ErrConfigInvalid)
		assert.Nil(t, m.buildOpts)
	})
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "xo version "+build.Version)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit: "+build.Commit)
}

func TestCommands_NoSubcommandShowsHelp(t *testing.T) {
	m := &mockApp{}
	out, err := execute(t, m)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "dev")
	assert.Nil(t, m.buildOpts)
	assert.Nil(t, m.devOpts)
}
