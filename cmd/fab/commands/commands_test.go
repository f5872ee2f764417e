package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/cmd/fab/commands"
	"go.trai.ch/fab/internal/app"
	"go.trai.ch/fab/internal/build"
	"go.trai.ch/fab/internal/core/domain"
)

type call struct {
	method string
	args   []string
	opts   app.Options
}

type mockApp struct {
	calls    []call
	err      error
	targets  []app.TargetStatus
	commands []domain.CommandStatus
}

func (m *mockApp) record(method string, args []string, opts app.Options) error {
	m.calls = append(m.calls, call{method: method, args: args, opts: opts})
	return m.err
}

func (m *mockApp) Run(_ context.Context, targets []string, opts app.Options) error {
	return m.record("run", targets, opts)
}

func (m *mockApp) Exec(_ context.Context, args []string, opts app.Options) error {
	if len(args) == 0 && !opts.Clean {
		return domain.ErrNoCommand
	}
	return m.record("exec", args, opts)
}

func (m *mockApp) Clean(_ context.Context, opts app.Options) (domain.CleanReport, error) {
	return domain.CleanReport{}, m.record("clean", nil, opts)
}

func (m *mockApp) Status(_ context.Context, targets []string, opts app.Options) ([]app.TargetStatus, error) {
	return m.targets, m.record("status", targets, opts)
}

func (m *mockApp) Commands(_ context.Context, opts app.Options) ([]domain.CommandStatus, error) {
	return m.commands, m.record("commands", nil, opts)
}

func (m *mockApp) Watch(_ context.Context, targets []string, opts app.Options) error {
	return m.record("watch", targets, opts)
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Run(t *testing.T) {
	t.Run("passes targets and defaults", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "run", "build", "test")
		require.NoError(t, err)

		require.Len(t, m.calls, 1)
		assert.Equal(t, "run", m.calls[0].method)
		assert.Equal(t, []string{"build", "test"}, m.calls[0].args)
		assert.Equal(t, app.Options{Dirs: []string{}}, m.calls[0].opts, "defaults do not override fab.yaml")
	})

	t.Run("explicit flags", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "run", "-t", "-c", "-q", "-d", "vendor", "-d", "/opt",
			"--depth", "4", "--ignore-prefix", "_", "--deps-file", "deps.json",
			"--runner", "atime", "--hasher", "xxh64")
		require.NoError(t, err)

		opts := m.calls[0].opts
		assert.True(t, opts.Time)
		assert.True(t, opts.Clean)
		assert.Equal(t, []string{"vendor", "/opt"}, opts.Dirs)
		require.NotNil(t, opts.Quiet)
		assert.True(t, *opts.Quiet)
		require.NotNil(t, opts.Depth)
		assert.Equal(t, 4, *opts.Depth)
		assert.Equal(t, "_", *opts.IgnorePrefix)
		assert.Equal(t, "deps.json", *opts.DepsFile)
		assert.Equal(t, "atime", *opts.Runner)
		assert.Equal(t, "xxh64", *opts.Hasher)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		m := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, m, "run")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Exec(t *testing.T) {
	t.Run("passes the command line", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "exec", "-q", "--", "cc", "-c", "main.c")
		require.NoError(t, err)
		assert.Equal(t, []string{"cc", "-c", "main.c"}, m.calls[0].args)
	})

	t.Run("usage without a command", func(t *testing.T) {
		out, err := execute(t, &mockApp{}, "exec")
		var status *domain.ExitStatus
		require.ErrorAs(t, err, &status)
		assert.Equal(t, 1, status.Code)
		assert.Contains(t, out, "Usage:")
	})

	t.Run("clean only", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "exec", "-c")
		require.NoError(t, err)
		assert.True(t, m.calls[0].opts.Clean)
	})
}

func TestCommands_Clean(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "clean")
	require.NoError(t, err)
	assert.Equal(t, "clean", m.calls[0].method)

	_, err = execute(t, m, "clean", "extra")
	require.Error(t, err)
}

func TestCommands_Watch(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "watch", "build")
	require.NoError(t, err)
	assert.Equal(t, call{method: "watch", args: []string{"build"}, opts: app.Options{Dirs: []string{}}}, m.calls[0])
}

func TestCommands_StatusTargets(t *testing.T) {
	m := &mockApp{targets: []app.TargetStatus{
		{Name: "build", Stale: true},
		{Name: "docs", Stale: false},
		{Name: "release", Stale: true},
	}}
	out, err := execute(t, m, "status", "build", "docs", "release")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "status_targets", []byte(out))
}

func TestCommands_StatusCommands(t *testing.T) {
	m := &mockApp{commands: []domain.CommandStatus{
		{Command: "cc -c main.c -o main.o", Stale: false, Inputs: 12, Outputs: 1},
		{Command: "cc -o app main.o util.o", Stale: true, Inputs: 2, Outputs: 1},
	}}
	out, err := execute(t, m, "status", "--commands")
	require.NoError(t, err)
	assert.Equal(t, "commands", m.calls[0].method)

	g := goldie.New(t)
	g.Assert(t, "status_commands", []byte(out))
}

func TestCommands_StatusEmpty(t *testing.T) {
	out, err := execute(t, &mockApp{}, "status", "--commands")
	require.NoError(t, err)
	assert.Equal(t, "no commands recorded\n", out)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fab version "+build.Version)
}
