package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/core/domain"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    domain.Entry
		wantErr bool
	}{
		{
			name: "input",
			tag:  "input-d41d8cd98f00b204e9800998ecf8427e",
			want: domain.Entry{Direction: domain.Input, Fingerprint: "d41d8cd98f00b204e9800998ecf8427e"},
		},
		{
			name: "output keeps dashes in fingerprint",
			tag:  "output-1700000000.000000001-x",
			want: domain.Entry{Direction: domain.Output, Fingerprint: "1700000000.000000001-x"},
		},
		{
			name:    "unknown prefix",
			tag:     "source-abc",
			wantErr: true,
		},
		{
			name:    "no separator",
			tag:     "input",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseTag(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrStoreCorrupt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.tag, got.Tag())
		})
	}
}

func TestRecord_Paths(t *testing.T) {
	r := domain.Record{
		"/p/main.o": {Direction: domain.Output, Fingerprint: "b"},
		"/p/main.c": {Direction: domain.Input, Fingerprint: "a"},
		"/p/util.h": {Direction: domain.Input, Fingerprint: "c"},
	}

	assert.Equal(t, []string{"/p/main.c", "/p/util.h"}, r.Paths(domain.Input))
	assert.Equal(t, []string{"/p/main.o"}, r.Paths(domain.Output))
}

func TestExecutionError(t *testing.T) {
	var err error = &domain.ExecutionError{Command: "cc -c main.c -o main.o", ExitCode: 2}

	assert.True(t, errors.Is(err, domain.ErrExecutionFailed))
	assert.Equal(t, `command "cc" terminated with exit status 2`, err.Error())

	var execErr *domain.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 2, execErr.ExitCode)
}

func TestParseKinds(t *testing.T) {
	h, err := domain.ParseHasherKind("mtime")
	require.NoError(t, err)
	assert.Equal(t, domain.HasherMtime, h)

	_, err = domain.ParseHasherKind("sha1")
	require.ErrorIs(t, err, domain.ErrUnknownHasher)

	r, err := domain.ParseRunnerKind("atime")
	require.NoError(t, err)
	assert.Equal(t, domain.RunnerAtime, r)

	_, err = domain.ParseRunnerKind("ptrace")
	require.ErrorIs(t, err, domain.ErrUnknownRunner)
}

func TestSettings_Validate(t *testing.T) {
	valid := domain.DefaultSettings("/project")
	require.NoError(t, valid.Validate())
	assert.Equal(t, "/project/.deps", valid.DepsFile)

	shallow := valid
	shallow.Depth = 0
	require.ErrorIs(t, shallow.Validate(), domain.ErrInvalidDepth)

	relative := valid
	relative.Roots = []string{"src"}
	require.Error(t, relative.Validate())
}

func TestProject_TargetNames(t *testing.T) {
	p := domain.NewProject("/project")
	p.Targets["link"] = &domain.Target{Name: "link"}
	p.Targets["build"] = &domain.Target{Name: "build"}

	assert.Equal(t, []string{"build", "link"}, p.TargetNames())
	assert.Equal(t, domain.DefaultTarget, p.Default)
}
