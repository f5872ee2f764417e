package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/adapters/config"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func createFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), domain.PrivateFilePerm))
}

func newLoader(t *testing.T) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return config.NewLoader(log), log
}

func TestLoader_Load_Full(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
version: "1"
default: app
roots: [".", "/usr/include"]
depth: 3
ignorePrefix: ""
hasher: mtime
depsFile: build/.deps
runner: atime
quiet: true
metricsFile: out/metrics.prom
traceFile: /tmp/trace.json
targets:
  app:
    - group: objects
    - run: cc -o app main.o util.o
  objects:
    - run: cc -c main.c -o main.o
    - call: util
  util:
    - run: cc -c util.c -o util.o
  clean:
    - clean: true
`)

	project, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, project.Root)
	assert.Equal(t, "app", project.Default)
	assert.Equal(t, domain.Settings{
		Roots:        []string{root, "/usr/include"},
		Depth:        3,
		IgnorePrefix: "",
		Hasher:       domain.HasherMtime,
		DepsFile:     filepath.Join(root, "build", ".deps"),
		Runner:       domain.RunnerAtime,
		Quiet:        true,
		MetricsFile:  filepath.Join(root, "out", "metrics.prom"),
		TraceFile:    "/tmp/trace.json",
	}, project.Settings)

	assert.Equal(t, []string{"app", "clean", "objects", "util"}, project.TargetNames())
	assert.Equal(t, []domain.Step{
		{Kind: domain.StepGroup, Arg: "objects"},
		{Kind: domain.StepRun, Arg: "cc -o app main.o util.o"},
	}, project.Targets["app"].Steps)
	assert.Equal(t, []domain.Step{{Kind: domain.StepClean}}, project.Targets["clean"].Steps)
	assert.Equal(t, domain.StepCall, project.Targets["objects"].Steps[1].Kind)
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
targets:
  build:
    - run: make
`)

	project, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(root), project.Settings)
	assert.Equal(t, domain.DefaultTarget, project.Default)
}

func TestLoader_Load_WalksUp(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "targets: {}\n")
	nested := filepath.Join(root, "src", "lib")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	project, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, root, project.Root)
	assert.Equal(t, []string{root}, project.Settings.Roots)
}

func TestLoader_Load_NotFound(t *testing.T) {
	loader, _ := newLoader(t)

	_, err := loader.Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoader_Load_WarnsOnUnknownVersion(t *testing.T) {
	loader, log := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "version: \"2\"\n")
	log.EXPECT().Warn(`fab.yaml declares version "2", expected "1"`)

	_, err := loader.Load(root)
	require.NoError(t, err)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "step with two actions",
			content: "targets:\n  build:\n    - run: make\n      call: other\n  other: []\n",
			wantErr: domain.ErrInvalidStep,
		},
		{
			name:    "empty step",
			content: "targets:\n  build:\n    - {}\n",
			wantErr: domain.ErrInvalidStep,
		},
		{
			name:    "call to unknown target",
			content: "targets:\n  build:\n    - call: missing\n",
			wantErr: domain.ErrMissingTarget,
		},
		{
			name:    "group to unknown target",
			content: "targets:\n  build:\n    - group: missing\n",
			wantErr: domain.ErrMissingTarget,
		},
		{
			name:    "unknown default",
			content: "default: release\ntargets:\n  build: []\n",
			wantErr: domain.ErrMissingTarget,
		},
		{
			name:    "cycle",
			content: "targets:\n  a:\n    - call: b\n  b:\n    - group: c\n  c:\n    - call: a\n",
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "self call",
			content: "targets:\n  a:\n    - call: a\n",
			wantErr: domain.ErrCycleDetected,
		},
		{
			name:    "invalid target name",
			content: "targets:\n  \"bad name\":\n    - run: make\n",
			wantErr: domain.ErrInvalidTargetName,
		},
		{
			name:    "unknown hasher",
			content: "hasher: sha1\n",
			wantErr: domain.ErrUnknownHasher,
		},
		{
			name:    "unknown runner",
			content: "runner: ptrace\n",
			wantErr: domain.ErrUnknownRunner,
		},
		{
			name:    "zero depth",
			content: "depth: 0\n",
			wantErr: domain.ErrInvalidDepth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newLoader(t)
			root := t.TempDir()
			createFile(t, root, domain.ConfigFileName, tt.content)

			_, err := loader.Load(root)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoader_Load_InvalidYAML(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, "targets: [unclosed\n")

	_, err := loader.Load(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_SharedCallIsNotACycle(t *testing.T) {
	loader, _ := newLoader(t)
	root := t.TempDir()
	createFile(t, root, domain.ConfigFileName, `
targets:
  build:
    - call: util
    - group: util
  util:
    - run: cc -c util.c
`)

	_, err := loader.Load(root)
	require.NoError(t, err)
}
