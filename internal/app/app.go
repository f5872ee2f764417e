// Package app implements the application layer for fab.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/fab/internal/engine/builder"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	stores       ports.StoreOpener
	hashers      ports.HasherFactory
	runners      ports.RunnerFactory
	watchers     ports.WatcherFactory
	logger       ports.Logger
	tracer       ports.Tracer
	metrics      ports.Metrics
	stderr       io.Writer
	getwd        func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	stores ports.StoreOpener,
	hashers ports.HasherFactory,
	runners ports.RunnerFactory,
	watchers ports.WatcherFactory,
	log ports.Logger,
	tracer ports.Tracer,
	metrics ports.Metrics,
) *App {
	return &App{
		configLoader: loader,
		stores:       stores,
		hashers:      hashers,
		runners:      runners,
		watchers:     watchers,
		logger:       log,
		tracer:       tracer,
		metrics:      metrics,
		stderr:       os.Stderr,
		getwd:        os.Getwd,
	}
}

// WithStderr sets where captured output of failed commands is printed.
func (a *App) WithStderr(w io.Writer) *App {
	a.stderr = w
	return a
}

// WithWorkingDir pins the directory the project is looked up from.
// This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// Options are the command line settings. Pointer fields are nil unless the
// flag was given explicitly, so they only override fab.yaml when set.
type Options struct {
	// Time selects the mtime hasher.
	Time bool
	// Dirs are extra roots appended to the configured ones.
	Dirs []string
	// Clean autocleans before building.
	Clean bool

	Quiet        *bool
	Depth        *int
	IgnorePrefix *string
	DepsFile     *string
	Runner       *string
	Hasher       *string
}

// Run builds the named targets, or the project's default target.
func (a *App) Run(ctx context.Context, targets []string, opts Options) error {
	project, err := a.loadProject(opts, true)
	if err != nil {
		return err
	}

	registry := NewRegistry(project)
	names, err := registry.Resolve(targets)
	if err != nil {
		return err
	}

	return a.withBuilder(ctx, project.Settings, func(b *builder.Builder) error {
		if opts.Clean {
			if _, err := b.Autoclean(ctx); err != nil {
				return err
			}
		}
		for _, name := range names {
			if err := b.Call(ctx, registry.Func(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Exec memoizes a single command line made of args joined by spaces.
// A non-zero status is returned as *domain.ExitStatus.
func (a *App) Exec(ctx context.Context, args []string, opts Options) error {
	if len(args) == 0 && !opts.Clean {
		return domain.ErrNoCommand
	}

	project, err := a.loadProject(opts, false)
	if err != nil {
		return err
	}

	return a.withBuilder(ctx, project.Settings, func(b *builder.Builder) error {
		if opts.Clean {
			if _, err := b.Autoclean(ctx); err != nil {
				return err
			}
		}
		if len(args) == 0 {
			return nil
		}

		status, err := b.Memoize(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if status != 0 {
			return &domain.ExitStatus{Code: status}
		}
		return nil
	})
}

// Clean removes every recorded output and the dependency store.
func (a *App) Clean(ctx context.Context, opts Options) (domain.CleanReport, error) {
	project, err := a.loadProject(opts, false)
	if err != nil {
		return domain.CleanReport{}, err
	}

	var report domain.CleanReport
	err = a.withBuilder(ctx, project.Settings, func(b *builder.Builder) error {
		var cleanErr error
		report, cleanErr = b.Autoclean(ctx)
		return cleanErr
	})
	return report, err
}

// TargetStatus tells whether a target would run anything.
type TargetStatus struct {
	Name  string
	Stale bool
}

// Status checks the named targets, or the default one, in a dry session.
func (a *App) Status(ctx context.Context, targets []string, opts Options) ([]TargetStatus, error) {
	project, err := a.loadProject(opts, true)
	if err != nil {
		return nil, err
	}

	registry := NewRegistry(project)
	names, err := registry.Resolve(targets)
	if err != nil {
		return nil, err
	}

	statuses := make([]TargetStatus, 0, len(names))
	err = a.withBuilder(ctx, project.Settings, func(b *builder.Builder) error {
		for _, name := range names {
			stale, checkErr := b.OutOfDateFunc(ctx, registry.Func(name))
			if checkErr != nil {
				return checkErr
			}
			statuses = append(statuses, TargetStatus{Name: name, Stale: stale})
		}
		return nil
	})
	return statuses, err
}

// Commands lists every command recorded in the dependency store.
func (a *App) Commands(ctx context.Context, opts Options) ([]domain.CommandStatus, error) {
	project, err := a.loadProject(opts, false)
	if err != nil {
		return nil, err
	}

	var statuses []domain.CommandStatus
	err = a.withBuilder(ctx, project.Settings, func(b *builder.Builder) error {
		var statusErr error
		statuses, statusErr = b.Status(ctx)
		return statusErr
	})
	return statuses, err
}

// ReportFailure prints the captured output of a failed command that did not
// already reach the terminal.
func ReportFailure(w io.Writer, err error) {
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) || execErr.Streamed || execErr.Output == "" {
		return
	}
	_, _ = io.WriteString(w, execErr.Output)
	if !strings.HasSuffix(execErr.Output, "\n") {
		_, _ = io.WriteString(w, "\n")
	}
}

// loadProject reads fab.yaml and applies opts on top of it. Without a
// config file, a project rooted at the working directory is used unless
// required is set.
func (a *App) loadProject(opts Options, required bool) (*domain.Project, error) {
	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}

	project, err := a.configLoader.Load(cwd)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrConfigNotFound) && !required:
		project = domain.NewProject(cwd)
	default:
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if err := applyOptions(&project.Settings, cwd, opts); err != nil {
		return nil, err
	}
	return project, nil
}

// applyOptions overlays explicitly given flags. Relative flag paths are
// resolved against cwd.
func applyOptions(s *domain.Settings, cwd string, opts Options) error {
	for _, dir := range opts.Dirs {
		s.Roots = append(s.Roots, absolute(cwd, dir))
	}
	if opts.Time {
		s.Hasher = domain.HasherMtime
	}
	if opts.Hasher != nil {
		kind, err := domain.ParseHasherKind(*opts.Hasher)
		if err != nil {
			return err
		}
		s.Hasher = kind
	}
	if opts.Runner != nil {
		kind, err := domain.ParseRunnerKind(*opts.Runner)
		if err != nil {
			return err
		}
		s.Runner = kind
	}
	if opts.Quiet != nil {
		s.Quiet = *opts.Quiet
	}
	if opts.Depth != nil {
		s.Depth = *opts.Depth
	}
	if opts.IgnorePrefix != nil {
		s.IgnorePrefix = *opts.IgnorePrefix
	}
	if opts.DepsFile != nil {
		s.DepsFile = absolute(cwd, *opts.DepsFile)
	}
	return s.Validate()
}

func absolute(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// withBuilder opens a builder for settings, runs fn, then closes the store
// and writes telemetry even when fn fails.
func (a *App) withBuilder(ctx context.Context, settings domain.Settings, fn func(*builder.Builder) error) (err error) {
	if err := a.tracer.Export(settings.TraceFile); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to export traces"), "path", settings.TraceFile)
	}

	b, err := builder.New(ctx, settings, builder.Dependencies{
		Stores:  a.stores,
		Hashers: a.hashers,
		Runners: a.runners,
		Logger:  a.logger,
		Tracer:  a.tracer,
		Metrics: a.metrics,
	})
	if err != nil {
		return errors.Join(err, a.tracer.Shutdown(context.WithoutCancel(ctx)))
	}

	defer func() {
		err = errors.Join(err, a.finish(ctx, b))
	}()

	return fn(b)
}

func (a *App) finish(ctx context.Context, b *builder.Builder) error {
	var errs []error
	if err := b.Close(); err != nil {
		errs = append(errs, err)
	}
	if path := b.Settings().MetricsFile; path != "" {
		if err := a.metrics.WriteFile(path); err != nil {
			errs = append(errs, zerr.With(zerr.Wrap(err, "failed to write metrics"), "path", path))
		}
	}
	if err := a.tracer.Shutdown(context.WithoutCancel(ctx)); err != nil {
		errs = append(errs, zerr.Wrap(err, "failed to flush traces"))
	}
	return errors.Join(errs...)
}

func (a *App) reportRound(err error) {
	if err == nil {
		return
	}
	ReportFailure(a.stderr, err)
	a.logger.Error(err)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
