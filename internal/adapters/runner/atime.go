package runner

import (
	"context"
	"time"

	"go.trai.ch/fab/internal/adapters/fs"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
)

var _ ports.Runner = (*AtimeRunner)(nil)

// AtimeRunner infers what a command read and wrote by comparing file times
// under the roots before and after it runs. Atimes are pushed a day into the
// past first so that any read moves them forward.
type AtimeRunner struct {
	executor ports.Executor
	walker   *fs.Walker
	roots    []string
	now      func() time.Time
}

// NewAtimeRunner creates an AtimeRunner.
func NewAtimeRunner(executor ports.Executor, settings domain.Settings) *AtimeRunner {
	return &AtimeRunner{
		executor: executor,
		walker:   fs.NewWalker(settings.Depth, settings.IgnorePrefix),
		roots:    settings.Roots,
		now:      time.Now,
	}
}

// Kind reports the runner's strategy.
func (r *AtimeRunner) Kind() domain.RunnerKind {
	return domain.RunnerAtime
}

// Run executes command and classifies every file under the roots: a newer
// mtime or a new file is an output, otherwise a newer atime is a dependency.
func (r *AtimeRunner) Run(ctx context.Context, command string) (*domain.Discovery, error) {
	originals, err := r.walker.Snapshot(ctx, r.roots)
	if err != nil {
		return nil, err
	}

	befores, err := fs.AgeAtimes(originals, fs.AtimeAge, r.now())
	if err != nil {
		return nil, err
	}

	runErr := r.executor.Execute(ctx, domain.ShellInvocation(command))

	afters, err := r.walker.Snapshot(ctx, r.roots)
	if err != nil {
		return nil, err
	}

	discovery := classify(befores, afters)
	restoreUntouched(originals, befores, afters)

	if runErr != nil {
		return nil, runErr
	}
	return discovery, nil
}

func classify(befores, afters domain.FileSnapshot) *domain.Discovery {
	deps := make(map[string]struct{})
	outputs := make(map[string]struct{})

	for path, after := range afters {
		before, existed := befores[path]
		switch {
		case !existed:
			outputs[path] = struct{}{}
		case after.Mtime.After(before.Mtime):
			outputs[path] = struct{}{}
		case after.Atime.After(before.Atime):
			deps[path] = struct{}{}
		}
	}

	return &domain.Discovery{
		Deps:    sortedKeys(deps),
		Outputs: sortedKeys(outputs),
	}
}

// restoreUntouched puts back the original atime of files that were aged but
// then neither read nor written. Restoring is cosmetic, so errors are ignored.
func restoreUntouched(originals, befores, afters domain.FileSnapshot) {
	for path, before := range befores {
		original := originals[path]
		if before.Atime.Equal(original.Atime) {
			continue
		}
		after, ok := afters[path]
		if !ok || !after.Atime.Equal(before.Atime) || !after.Mtime.Equal(before.Mtime) {
			continue
		}
		_ = fs.SetTimes(path, original)
	}
}
