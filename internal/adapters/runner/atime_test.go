package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/adapters/fs"
	"go.trai.ch/fab/internal/adapters/runner"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestAtimeRunner_Run(t *testing.T) {
	root := t.TempDir()
	if !fs.AtimesSupported(root) {
		t.Skip("filesystem does not update atimes")
	}

	hourAgo := time.Now().Add(-time.Hour)
	old := domain.FileTimes{Atime: hourAgo, Mtime: hourAgo}
	for _, name := range []string{"main.c", "main.o", "README"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte(name), domain.PrivateFilePerm))
		require.NoError(t, fs.SetTimes(path, old))
	}

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().
		Execute(gomock.Any(), domain.ShellInvocation("cc -c main.c -o main.o")).
		DoAndReturn(func(context.Context, domain.Invocation) error {
			if _, err := os.ReadFile(filepath.Join(root, "main.c")); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(root, "main.o"), []byte("obj"), domain.PrivateFilePerm); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(root, "main.d"), []byte("dep"), domain.PrivateFilePerm)
		})

	r := runner.NewAtimeRunner(executor, domain.DefaultSettings(root))
	got, err := r.Run(t.Context(), "cc -c main.c -o main.o")
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "main.c")}, got.Deps)
	assert.Equal(t, []string{filepath.Join(root, "main.d"), filepath.Join(root, "main.o")}, got.Outputs)

	snapshot, err := fs.NewWalker(100, ".").Snapshot(t.Context(), []string{root})
	require.NoError(t, err)
	readme := snapshot[filepath.Join(root, "README")]
	assert.True(t, readme.Atime.Equal(hourAgo), "untouched files get their atime back")
}

func TestAtimeRunner_Run_Failure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.c"), nil, domain.PrivateFilePerm))

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	execErr := &domain.ExecutionError{Command: "false", ExitCode: 1}
	executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(execErr)

	r := runner.NewAtimeRunner(executor, domain.DefaultSettings(root))
	got, err := r.Run(t.Context(), "false")

	assert.Nil(t, got)
	var gotErr *domain.ExecutionError
	require.True(t, errors.As(err, &gotErr))
	assert.Equal(t, 1, gotErr.ExitCode)
}

func TestAtimeRunner_Run_SnapshotFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	settings := domain.DefaultSettings(filepath.Join(t.TempDir(), "missing"))
	r := runner.NewAtimeRunner(executor, settings)

	_, err := r.Run(t.Context(), "true")
	require.Error(t, err)
}

func TestAlwaysRunner_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().Execute(gomock.Any(), domain.ShellInvocation("make")).Return(nil)

	r := runner.NewAlwaysRunner(executor)
	got, err := r.Run(t.Context(), "make")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, domain.RunnerAlways, r.Kind())
}
