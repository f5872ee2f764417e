// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/fab/internal/adapters/config"
	_ "go.trai.ch/fab/internal/adapters/fs"
	_ "go.trai.ch/fab/internal/adapters/logger"
	_ "go.trai.ch/fab/internal/adapters/runner"
	_ "go.trai.ch/fab/internal/adapters/shell"
	_ "go.trai.ch/fab/internal/adapters/store"
	_ "go.trai.ch/fab/internal/adapters/telemetry"
	_ "go.trai.ch/fab/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/fab/internal/app"
)
