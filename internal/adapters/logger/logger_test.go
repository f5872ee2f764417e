package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
// It also sets NO_COLOR=1 to ensure deterministic output without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "cc -c main.c -o main.o", goldenName: "info_basic"},
		{name: "empty message", msg: "", goldenName: "info_empty"},
		{name: "multiline message", msg: "line1\nline2", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("dependency store has format version 0, expected 1; rebuilding")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "stdlib error",
			err:        errors.New("something failed"),
			goldenName: "error_simple",
		},
		{
			name:       "zerr chain",
			err:        zerr.Wrap(zerr.Wrap(zerr.New("disk full"), "write store"), "flush failed"),
			goldenName: "error_chain_zerr",
		},
		{
			name:       "zerr wrapping stdlib",
			err:        zerr.Wrap(fmt.Errorf("open fab.yaml: %w", os.ErrNotExist), "load config"),
			goldenName: "error_chain_stdlib",
		},
		{
			name: "metadata moves onto the wrapped sentinel",
			err: zerr.With(zerr.With(
				zerr.Wrap(zerr.New("dependency store is corrupt"), ""),
				"path", "/p/.deps"), "tag", "source-x"),
			goldenName: "error_metadata",
		},
		{
			name:       "metadata values with spaces are quoted",
			err:        zerr.With(zerr.New("command failed"), "command", "cc -c main.c"),
			goldenName: "error_metadata_quoted",
		},
		{
			name:       "multiline message",
			err:        zerr.Wrap(errors.New("inner"), "line1\nline2"),
			goldenName: "error_multiline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Warn("rebuilding")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "rebuilding", record["msg"])

	buf.Reset()
	lg.Error(zerr.Wrap(errors.New("boom"), "build failed"))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "operation failed", record["msg"])
	errField, ok := record["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "build failed", errField["msg"])
	assert.Equal(t, "boom", errField["cause"])
}

func TestLogger_SetOutputKeepsFormat(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	lg.Info("hello")

	assert.True(t, json.Valid(buf.Bytes()))
}
