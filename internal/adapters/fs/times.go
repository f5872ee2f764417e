package fs

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// AtimeAge is how far in the past atimes are pushed before a command runs,
// so that any access during the command moves them forward measurably.
const AtimeAge = 24 * time.Hour

// SetTimes sets the access and modification times of path with nanosecond
// precision. Permission errors are ignored: a file we cannot touch is a file
// we cannot build with.
func SetTimes(path string, times domain.FileTimes) error {
	ts := []unix.Timespec{
		unix.NsecToTimespec(times.Atime.UnixNano()),
		unix.NsecToTimespec(times.Mtime.UnixNano()),
	}
	if err := unix.UtimesNano(path, ts); err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to set file times"), "path", path)
	}
	return nil
}

// AgeAtimes pushes the atime of every file accessed within age of now back
// by age and returns the adjusted snapshot. Files already older are
// returned unchanged.
func AgeAtimes(snapshot domain.FileSnapshot, age time.Duration, now time.Time) (domain.FileSnapshot, error) {
	adjusted := make(domain.FileSnapshot, len(snapshot))
	for path, times := range snapshot {
		if now.Sub(times.Atime) < age {
			times.Atime = times.Atime.Add(-age)
			if err := SetTimes(path, times); err != nil {
				return nil, err
			}
		}
		adjusted[path] = times
	}
	return adjusted, nil
}

// AtimesSupported reports whether reading a file in dir advances its
// access time. It fails on noatime mounts and on relatime mounts where
// the atime is already newer than the mtime.
func AtimesSupported(dir string) bool {
	f, err := os.CreateTemp(dir, ".fab-atime-")
	if err != nil {
		return false
	}
	path := f.Name()
	defer os.Remove(path) //nolint:errcheck // Best effort cleanup

	if _, err := f.WriteString("x"); err != nil {
		_ = f.Close()
		return false
	}
	if err := f.Close(); err != nil {
		return false
	}

	before, ok := statTimes(path)
	if !ok {
		return false
	}
	before.Atime = before.Atime.Add(-AtimeAge)
	if err := unix.UtimesNano(path, []unix.Timespec{
		unix.NsecToTimespec(before.Atime.UnixNano()),
		unix.NsecToTimespec(before.Mtime.UnixNano()),
	}); err != nil {
		return false
	}

	r, err := os.Open(filepath.Clean(path))
	if err != nil {
		return false
	}
	buf := make([]byte, 1)
	_, err = r.Read(buf)
	_ = r.Close()
	if err != nil {
		return false
	}

	after, ok := statTimes(path)
	if !ok {
		return false
	}
	return after.Atime.After(before.Atime)
}

func statTimes(path string) (domain.FileTimes, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return domain.FileTimes{}, false
	}
	return timesOf(&st), true
}
