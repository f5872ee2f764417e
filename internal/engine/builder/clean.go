package builder

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/fab/internal/core/domain"
)

// Autoclean deletes every recorded output and the store file, then discards
// the in-memory store so Close does not write it back.
//
// A corrupt store cannot list its outputs; the store file is still removed.
func (b *Builder) Autoclean(ctx context.Context) (domain.CleanReport, error) {
	report := domain.CleanReport{Failed: make(map[string]error)}

	records, err := b.store.Records()
	if err != nil {
		if !errors.Is(err, domain.ErrStoreCorrupt) {
			return report, err
		}
		b.logger.Warn("dependency store is corrupt, outputs cannot be listed; removing " + b.shrink(b.store.Path()))
		records = nil
	}

	paths := outputsOf(records)
	paths = append(paths, b.store.Path())

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		b.remove(path, &report)
	}

	b.store.Discard()
	return report, nil
}

func (b *Builder) remove(path string, report *domain.CleanReport) {
	err := os.Remove(path)
	switch {
	case err == nil:
		report.Removed = append(report.Removed, path)
		if !b.settings.Quiet {
			b.logger.Info("deleting " + b.shrink(path))
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		report.Failed[path] = err
		reason := err
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			reason = pathErr.Err
		}
		b.logger.Warn("could not delete " + b.shrink(path) + ": " + reason.Error())
	}
}

// outputsOf collects the distinct output paths across records, sorted.
func outputsOf(records map[string]domain.Record) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		for _, path := range record.Paths(domain.Output) {
			seen[path] = struct{}{}
		}
	}
	paths := make([]string, 0, len(seen))
	for path := range seen {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// shrink shows path relative to the working directory when it lies below it.
func (b *Builder) shrink(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return path
	}
	return rel
}
