package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/fab/internal/adapters/watcher"
	"go.trai.ch/fab/internal/core/domain"
	"go.trai.ch/fab/internal/core/ports"
	"go.trai.ch/fab/internal/engine/builder"
	"go.trai.ch/zerr"
)

// Watch builds the targets, then rebuilds them whenever a file below the
// roots changes, until ctx is done. Build failures are reported and the
// watch goes on. Changes made while a round runs are attributed to the
// round and do not start another one.
func (a *App) Watch(ctx context.Context, targets []string, opts Options) error {
	project, err := a.loadProject(opts, true)
	if err != nil {
		return err
	}

	registry := NewRegistry(project)
	names, err := registry.Resolve(targets)
	if err != nil {
		return err
	}

	settings := project.Settings
	return a.withBuilder(ctx, settings, func(b *builder.Builder) error {
		w, err := a.watchers.New(settings.IgnorePrefix)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		for _, root := range settings.Roots {
			if err := w.Add(root); err != nil {
				return err
			}
		}

		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := w.Start(watchCtx); err != nil {
			return zerr.Wrap(err, domain.ErrWatchFailed.Error())
		}

		rounds := make(chan []string, 1)
		debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
			select {
			case rounds <- paths:
			default:
				// A round is already queued and will rebuild everything.
			}
		})
		defer debouncer.Stop()

		gate := newRoundGate(watcher.DefaultDebounceWindow)
		go func() {
			for event := range w.Events() {
				if !watchIgnored(settings, event.Path) && gate.admit(event, time.Now()) {
					debouncer.Add(event.Path)
				}
			}
		}()

		gate.run(func() { a.round(ctx, b, registry, names) })
		for {
			select {
			case <-ctx.Done():
				return nil
			case paths := <-rounds:
				if !settings.Quiet {
					a.logger.Info(plural(len(paths), "file") + " changed, rebuilding")
				}
				gate.run(func() { a.round(ctx, b, registry, names) })
			}
		}
	})
}

// round builds every target once and persists the store.
func (a *App) round(ctx context.Context, b *builder.Builder, registry *Registry, names []string) {
	for _, name := range names {
		if err := b.Call(ctx, registry.Func(name)); err != nil {
			if ctx.Err() != nil {
				return
			}
			a.reportRound(err)
			break
		}
	}
	a.reportRound(b.Flush())
}

// watchIgnored filters out files fab itself writes.
func watchIgnored(s domain.Settings, path string) bool {
	if strings.HasPrefix(path, s.DepsFile) {
		return true
	}
	if path == s.MetricsFile || path == s.TraceFile {
		return true
	}
	return strings.HasPrefix(filepath.Base(path), ".fab-")
}

// roundGate drops the events a round causes itself. Events arriving while a
// round runs are dropped. Within settle after a round, late events are
// dropped unless they name a file modified after the round ended.
type roundGate struct {
	mu       sync.Mutex
	settle   time.Duration
	building bool
	end      time.Time
}

func newRoundGate(settle time.Duration) *roundGate {
	return &roundGate{settle: settle}
}

func (g *roundGate) run(round func()) {
	g.mu.Lock()
	g.building = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.building = false
		g.end = time.Now()
		g.mu.Unlock()
	}()

	round()
}

func (g *roundGate) admit(event ports.WatchEvent, now time.Time) bool {
	g.mu.Lock()
	building, end := g.building, g.end
	g.mu.Unlock()

	if building {
		return false
	}
	if end.IsZero() || now.Sub(end) > g.settle {
		return true
	}
	if event.Operation == ports.OpRemove || event.Operation == ports.OpRename {
		return false
	}
	info, err := os.Stat(event.Path)
	return err == nil && info.ModTime().After(end)
}
