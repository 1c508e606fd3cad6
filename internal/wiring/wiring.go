// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/firecast/internal/adapters/analytics"
	_ "go.trai.ch/firecast/internal/adapters/config"
	_ "go.trai.ch/firecast/internal/adapters/jobserver"
	_ "go.trai.ch/firecast/internal/adapters/jobservice"
	_ "go.trai.ch/firecast/internal/adapters/logger"
	_ "go.trai.ch/firecast/internal/adapters/metrics"
	_ "go.trai.ch/firecast/internal/adapters/notify"
	_ "go.trai.ch/firecast/internal/adapters/render"
	_ "go.trai.ch/firecast/internal/adapters/storage"
	_ "go.trai.ch/firecast/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/firecast/internal/app"
)
