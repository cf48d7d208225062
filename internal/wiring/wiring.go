// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/xo/internal/adapters/cas"
	_ "go.trai.ch/xo/internal/adapters/config"
	_ "go.trai.ch/xo/internal/adapters/fs"
	_ "go.trai.ch/xo/internal/adapters/logger"
	_ "go.trai.ch/xo/internal/adapters/pipeline"
	_ "go.trai.ch/xo/internal/adapters/server"
	_ "go.trai.ch/xo/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/xo/internal/app"
)
