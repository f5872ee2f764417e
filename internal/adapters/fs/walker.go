// Package fs provides file system adapters for fingerprinting files and
// tracking their access times.
package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// Walker collects access and modification times below a set of roots.
type Walker struct {
	depth        int
	ignorePrefix string
}

// NewWalker creates a Walker. depth 1 covers the roots' own files only.
// Entries whose name starts with ignorePrefix are skipped; an empty prefix
// skips nothing.
func NewWalker(depth int, ignorePrefix string) *Walker {
	return &Walker{depth: depth, ignorePrefix: ignorePrefix}
}

// Snapshot returns the times of every regular file below roots. Roots are
// walked concurrently. Symlinks are followed; dangling ones are skipped.
func (w *Walker) Snapshot(ctx context.Context, roots []string) (domain.FileSnapshot, error) {
	snapshot := make(domain.FileSnapshot)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		g.Go(func() error {
			local := make(domain.FileSnapshot)
			if err := w.walk(ctx, root, w.depth, local); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrSnapshotFailed.Error()), "root", root)
			}

			mu.Lock()
			defer mu.Unlock()
			for path, times := range local {
				snapshot[path] = times
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (w *Walker) walk(ctx context.Context, dir string, depth int, out domain.FileSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if w.ignorePrefix != "" && strings.HasPrefix(name, w.ignorePrefix) {
			continue
		}

		path := filepath.Join(dir, name)
		var st unix.Stat_t
		if err := unix.Stat(path, &st); err != nil {
			if errors.Is(err, unix.ENOENT) {
				continue
			}
			return zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
		}

		switch st.Mode & unix.S_IFMT {
		case unix.S_IFDIR:
			if depth > 1 {
				if err := w.walk(ctx, path, depth-1, out); err != nil {
					return err
				}
			}
		case unix.S_IFREG:
			out[path] = timesOf(&st)
		}
	}
	return nil
}

func timesOf(st *unix.Stat_t) domain.FileTimes {
	asec, ansec := st.Atim.Unix()
	msec, mnsec := st.Mtim.Unix()
	return domain.FileTimes{
		Atime: time.Unix(asec, ansec),
		Mtime: time.Unix(msec, mnsec),
	}
}
