package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/fab/internal/adapters/config"
	"go.trai.ch/fab/internal/adapters/fs"
	"go.trai.ch/fab/internal/adapters/store"
	"go.trai.ch/fab/internal/adapters/telemetry"
	"go.trai.ch/fab/internal/app"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/fab/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type failingRunner struct {
	err error
}

func (r failingRunner) Kind() domain.RunnerKind { return domain.RunnerAlways }

func (r failingRunner) Run(context.Context, string) (*domain.Discovery, error) {
	return nil, r.err
}

func (r failingRunner) Resolve(context.Context, domain.Settings) (ports.Runner, error) {
	return r, nil
}

func provider(t *testing.T, runErr error, log ports.Logger) ComponentProvider {
	t.Helper()
	ctrl := gomock.NewController(t)
	dir := t.TempDir()

	application := app.New(
		config.NewLoader(log),
		store.NewOpener(log),
		fs.NewHashers(),
		failingRunner{err: runErr},
		mocks.NewMockWatcherFactory(ctrl),
		log,
		telemetry.NewOTelTracer("fab-test"),
		telemetry.NewMetrics(),
	).WithWorkingDir(dir)

	return func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: log}, func() {}, nil
	}
}

func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), provider(t, nil, log))
	assert.Equal(t, 0, exitCode)
}

func TestRun_InitializationError(t *testing.T) {
	failing := func(context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, failing)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

func TestRun_CommandStatusPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	failure := &domain.ExecutionError{Command: "cc -c main.c", ExitCode: 3, Output: "main.c:1: error\n"}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"exec", "-q", "--", "cc", "-c", "main.c"}, stderr, provider(t, failure, log))

	assert.Equal(t, 3, exitCode)
	assert.Empty(t, stderr.String())
}

func TestRun_ConfigErrorIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	})

	exitCode := run(context.Background(), []string{"run"}, new(bytes.Buffer), provider(t, nil, log))
	assert.Equal(t, 1, exitCode)
}

func TestExitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "memoized status", err: &domain.ExitStatus{Code: 7}, want: 7},
		{name: "killed command", err: &domain.ExecutionError{ExitCode: -1}, want: 1},
		{name: "trace abort", err: domain.ErrTraceAborted, want: 1},
		{name: "status out of range", err: &domain.ExitStatus{Code: 300}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err, new(bytes.Buffer), log))
		})
	}
}
