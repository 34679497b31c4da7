// Package telemetry wires gauge.Hooks to log/slog so determination rebuilds
// and invalidation cascades are visible during interactive use, the way the
// teacher's HTTP example installs a tint-backed slog.Default before doing
// anything else.
package telemetry

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/hartwell/gauge"
)

// NewLogger builds the same tint-backed development logger the teacher's
// example installs via slog.SetDefault, without mutating the package-level
// default — callers decide whether to install it globally.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
}

// Hooks builds a gauge.Hooks that logs every determination rebuild and
// invalidation through logger, tagged with name so multiple gauges can
// share one logger without their lines being ambiguous.
func Hooks(logger *slog.Logger, name string) gauge.Hooks {
	return gauge.Hooks{
		OnDetermine: func(g *gauge.Gauge, vertexCount int) {
			logger.Info("determination rebuilt", "gauge", name, "vertices", vertexCount)
		},
		OnInvalidate: func(g *gauge.Gauge) {
			logger.Debug("determination invalidated", "gauge", name)
		},
	}
}
