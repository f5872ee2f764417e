package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fab/internal/core/ports"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestRoundGate_Admit(t *testing.T) {
	dir := t.TempDir()
	own := filepath.Join(dir, "out.txt")
	edited := filepath.Join(dir, "main.c")

	gate := newRoundGate(100 * time.Millisecond)
	assert.True(t, gate.admit(ports.WatchEvent{Path: edited, Operation: ports.OpWrite}, time.Now()),
		"events before any round are admitted")

	var during bool
	gate.run(func() {
		during = gate.admit(ports.WatchEvent{Path: edited, Operation: ports.OpWrite}, time.Now())
	})
	assert.False(t, during, "events during a round are dropped")

	end := gate.end
	touch(t, own, end.Add(-time.Millisecond))
	touch(t, edited, end.Add(10*time.Millisecond))
	soon := end.Add(20 * time.Millisecond)

	assert.False(t, gate.admit(ports.WatchEvent{Path: own, Operation: ports.OpWrite}, soon),
		"late write from the round")
	assert.True(t, gate.admit(ports.WatchEvent{Path: edited, Operation: ports.OpWrite}, soon),
		"file modified after the round")
	assert.False(t, gate.admit(ports.WatchEvent{Path: own, Operation: ports.OpRemove}, soon),
		"late remove from the round")
	assert.False(t, gate.admit(ports.WatchEvent{Path: filepath.Join(dir, "gone"), Operation: ports.OpCreate}, soon),
		"vanished file from the round")

	later := end.Add(time.Second)
	assert.True(t, gate.admit(ports.WatchEvent{Path: own, Operation: ports.OpWrite}, later))
	assert.True(t, gate.admit(ports.WatchEvent{Path: own, Operation: ports.OpRemove}, later))
}
