// Package bootstrap initializes the shared infrastructure every bot needs
// before its handlers are wired.
package bootstrap

import (
	"fmt"

	coreconfig "github.com/m3rciful/reportbot/core/config"
	"github.com/m3rciful/reportbot/core/logger"
	"github.com/m3rciful/reportbot/core/metrics"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	NewMetrics func() *metrics.Metrics
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Metrics *metrics.Metrics
}

// Run initializes the logger and the metrics registry.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	newMetrics := opts.NewMetrics
	if newMetrics == nil {
		newMetrics = metrics.New
	}
	return &Result{Metrics: newMetrics()}, nil
}
