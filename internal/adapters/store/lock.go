package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sys/unix"
)

// fileLock is an exclusive advisory lock held for the lifetime of a store.
// The holder's PID is written into the lock file for error reports.
type fileLock struct {
	path string
	f    *os.File
}

func acquireLock(path string) (*fileLock, error) {
	//nolint:gosec // Path is derived from the configured store path
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create lock file"), "path", path)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		defer f.Close() //nolint:errcheck // Best effort close in defer
		if errors.Is(err, unix.EWOULDBLOCK) {
			locked := zerr.With(zerr.Wrap(domain.ErrStoreLocked, ""), "lock", path)
			if pid := readPID(f); pid > 0 {
				locked = zerr.With(locked, "pid", pid)
			}
			return nil, locked
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to acquire lock"), "path", path)
	}

	// The PID is informational; failing to record it does not lose the lock.
	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(fmt.Sprintf("%d\n", os.Getpid())), 0)
	}

	return &fileLock{path: path, f: f}, nil
}

// release drops the lock. The file itself is left in place so that a
// process blocked on the old inode never races a freshly created one.
func (l *fileLock) release() error {
	if l == nil || l.f == nil {
		return nil
	}

	err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	_ = l.f.Close()
	l.f = nil

	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to release lock"), "path", l.path)
	}
	return nil
}

func readPID(f *os.File) int {
	data, err := io.ReadAll(io.NewSectionReader(f, 0, 32))
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
