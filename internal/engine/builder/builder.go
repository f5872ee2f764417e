// Package builder decides which commands are stale and runs them through the
// resolved runner, recording what they touched.
package builder

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
)

// Dependencies are the collaborators a Builder is assembled from.
// Tracer and Metrics may be nil.
type Dependencies struct {
	Stores  ports.StoreOpener
	Hashers ports.HasherFactory
	Runners ports.RunnerFactory
	Logger  ports.Logger
	Tracer  ports.Tracer
	Metrics ports.Metrics
}

// Builder runs commands only when something they depended on changed.
type Builder struct {
	settings domain.Settings
	store    ports.DependencyStore
	hasher   ports.Hasher
	runner   ports.Runner
	logger   ports.Logger
	tracer   ports.Tracer
	metrics  ports.Metrics
}

// New validates settings, opens the dependency store and resolves the runner.
// The runner probe happens here, once.
func New(ctx context.Context, settings domain.Settings, deps Dependencies) (*Builder, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	hasher, err := deps.Hashers.For(settings.Hasher)
	if err != nil {
		return nil, err
	}

	store, err := deps.Stores.Open(settings.DepsFile)
	if err != nil {
		return nil, err
	}

	runner, err := deps.Runners.Resolve(ctx, settings)
	if err != nil {
		return nil, errors.Join(err, store.Close())
	}

	b := &Builder{
		settings: settings,
		store:    store,
		hasher:   hasher,
		runner:   runner,
		logger:   deps.Logger,
		tracer:   deps.Tracer,
		metrics:  deps.Metrics,
	}
	if b.tracer == nil {
		b.tracer = nopTracer{}
	}
	if b.metrics == nil {
		b.metrics = nopMetrics{}
	}
	return b, nil
}

// Runner reports the discovery strategy chosen at construction.
func (b *Builder) Runner() domain.RunnerKind {
	return b.runner.Kind()
}

// Settings returns the settings the builder was created with.
func (b *Builder) Settings() domain.Settings {
	return b.settings
}

// OutOfDate reports whether command has no record or any recorded path
// changed or disappeared since it last ran.
func (b *Builder) OutOfDate(_ context.Context, command string) (bool, error) {
	record, ok, err := b.store.Get(command)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return b.changed(record), nil
}

func (b *Builder) changed(record domain.Record) bool {
	paths := make([]string, 0, len(record))
	for path := range record {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		fp, ok := b.hasher.Hash(path)
		if !ok || fp != record[path].Fingerprint {
			return true
		}
	}
	return false
}

// Run executes command if it is out of date and records its dependencies.
func (b *Builder) Run(ctx context.Context, command string) error {
	stale, err := b.OutOfDate(ctx, command)
	if err != nil {
		return err
	}
	if !stale {
		b.metrics.CommandSkipped()
		return nil
	}
	return b.execute(ctx, command)
}

// Memoize is Run with a command failure turned into its exit status.
func (b *Builder) Memoize(ctx context.Context, command string) (int, error) {
	err := b.Run(ctx, command)
	if err == nil {
		return 0, nil
	}
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.ExitCode, nil
	}
	return 0, err
}

func (b *Builder) execute(ctx context.Context, command string) error {
	kind := string(b.runner.Kind())

	ctx, span := b.tracer.Start(ctx, command)
	defer span.End()
	span.SetAttribute("fab.runner", kind)
	span.SetAttribute("fab.cached", false)

	if !b.settings.Quiet {
		b.logger.Info(command)
	}

	start := time.Now()
	discovery, err := b.runner.Run(ctx, command)
	if err != nil {
		span.RecordError(err)
		b.metrics.CommandFailed(kind)
		return err
	}
	b.metrics.CommandExecuted(kind, time.Since(start))

	if discovery == nil {
		return nil
	}

	record := b.fingerprint(discovery)
	inputs, outputs := len(record.Paths(domain.Input)), len(record.Paths(domain.Output))
	span.SetAttribute("fab.inputs", inputs)
	span.SetAttribute("fab.outputs", outputs)
	b.metrics.DependenciesRecorded(inputs, outputs)

	if err := b.store.Put(command, record); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// fingerprint hashes what the runner saw. A path that is both read and
// written is recorded as an output.
func (b *Builder) fingerprint(d *domain.Discovery) domain.Record {
	record := make(domain.Record, len(d.Deps)+len(d.Outputs))
	for _, path := range d.Deps {
		if fp, ok := b.hasher.Hash(path); ok {
			record[path] = domain.Entry{Direction: domain.Input, Fingerprint: fp}
		}
	}
	for _, path := range d.Outputs {
		if fp, ok := b.hasher.Hash(path); ok {
			record[path] = domain.Entry{Direction: domain.Output, Fingerprint: fp}
		} else {
			delete(record, path)
		}
	}
	return record
}

// Flush persists the store without releasing its lock.
func (b *Builder) Flush() error {
	return b.store.Flush()
}

// Close flushes the store and releases its lock.
func (b *Builder) Close() error {
	return b.store.Close()
}
