package builder_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAutoclean_RemovesOutputsAndStore(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a.c", "a")
	f.write(t, "b.c", "b")
	build := f.program()
	b := f.open(t)

	require.NoError(t, b.Call(t.Context(), build))
	require.NoError(t, b.Flush())
	require.FileExists(t, f.path(".deps"))

	// Already gone: silently skipped.
	require.NoError(t, os.Remove(f.path("b.o")))

	report, err := b.Autoclean(t.Context())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.path("a.o"), f.path("prog"), f.path(".deps")}, report.Removed)
	assert.Empty(t, report.Failed)

	assert.NoFileExists(t, f.path("a.o"))
	assert.NoFileExists(t, f.path("prog"))
	assert.FileExists(t, f.path("a.c"), "inputs are never removed")

	require.NoError(t, b.Close())
	assert.NoFileExists(t, f.path(".deps"), "a discarded store is not written back")
}

func TestAutoclean_EchoesDeletions(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a.c", "a")
	f.compile("cc -c a.c", "a.c", "a.o")
	b := f.open(t)
	require.NoError(t, b.Run(t.Context(), "cc -c a.c"))

	f.settings.Quiet = false
	require.NoError(t, b.Close())

	t.Chdir(f.dir)
	f.logger.EXPECT().Info("deleting a.o")
	f.logger.EXPECT().Info("deleting .deps")

	loud := f.open(t)
	_, err := loud.Autoclean(t.Context())
	require.NoError(t, err)
}

func TestAutoclean_CorruptStore(t *testing.T) {
	f := newFixture(t)
	f.write(t, ".deps", "{not json")
	f.logger.EXPECT().Warn(gomock.Any())
	b := f.open(t)

	report, err := b.Autoclean(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{f.path(".deps")}, report.Removed)
	assert.NoFileExists(t, f.path(".deps"))
}

func TestAutoclean_FailureDoesNotAbort(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	f := newFixture(t)
	require.NoError(t, os.Mkdir(f.path("ro"), 0o755))
	f.write(t, "a.c", "a")
	f.compile("cc -c a.c", "a.c", "ro/a.o")
	f.compile("cc -c a.c -o a.o", "a.c", "a.o")
	b := f.open(t)

	require.NoError(t, b.Run(t.Context(), "cc -c a.c"))
	require.NoError(t, b.Run(t.Context(), "cc -c a.c -o a.o"))
	require.NoError(t, os.Chmod(f.path("ro"), 0o555))
	t.Cleanup(func() { _ = os.Chmod(f.path("ro"), 0o755) })

	f.logger.EXPECT().Warn(gomock.Any())
	report, err := b.Autoclean(t.Context())
	require.NoError(t, err)
	assert.Contains(t, report.Failed, f.path("ro/a.o"))
	assert.NoFileExists(t, f.path("a.o"))
	assert.NoFileExists(t, f.path(".deps"))
}
