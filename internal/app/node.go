package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fab/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/fab/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/fab/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/fab/internal/adapters/runner"    //nolint:depguard // Wired in app layer
	"go.trai.ch/fab/internal/adapters/store"     //nolint:depguard // Wired in app layer
	"go.trai.ch/fab/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/fab/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/fab/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			store.NodeID,
			fs.HashersNodeID,
			runner.NodeID,
			watcher.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			telemetry.MetricsNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	stores, err := graft.Dep[ports.StoreOpener](ctx)
	if err != nil {
		return nil, err
	}
	hashers, err := graft.Dep[ports.HasherFactory](ctx)
	if err != nil {
		return nil, err
	}
	runners, err := graft.Dep[ports.RunnerFactory](ctx)
	if err != nil {
		return nil, err
	}
	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	metrics, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, stores, hashers, runners, watchers, log, tracer, metrics), nil
}
