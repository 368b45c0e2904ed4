package ctxdump

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/google/wire"

	"github.com/hayeah/ctxdump/ignore"
	"github.com/hayeah/ctxdump/internal/metrics"
	"github.com/hayeah/ctxdump/internal/selection"
)

// ProvideLogger builds the stderr logger.
func ProvideLogger(cfg *Config) *slog.Logger {
	return NewLogger(os.Stderr, cfg.Verbose)
}

// ProvideFilter builds the exclusion filter from the config.
func ProvideFilter(cfg *Config) (*ignore.Filter, error) {
	return cfg.Filter()
}

// ProvideIndex scans the root once.
func ProvideIndex(cfg *Config, filter *ignore.Filter, logger *slog.Logger) (*selection.Index, error) {
	idx, err := selection.BuildIndexWithLogger(cfg.Root, filter, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("indexed files", "root", cfg.Root, "count", idx.Len())
	return idx, nil
}

// ProvideCounter selects the token estimator.
func ProvideCounter(cfg *Config) (metrics.Counter, error) {
	return metrics.NewCounter(cfg.TokenEstimator)
}

// ProvideMetrics constructs OutputMetrics with the given counter.
func ProvideMetrics(counter metrics.Counter) *metrics.OutputMetrics {
	return metrics.NewOutputMetrics(counter, runtime.NumCPU())
}

// ProvideDumper builds a Dumper that records metrics.
func ProvideDumper(cfg *Config, m *metrics.OutputMetrics, logger *slog.Logger) *Dumper {
	return &Dumper{
		Root:    cfg.Root,
		Metrics: m,
		Logger:  logger,
	}
}

// Wires collects the providers for a Session.
var Wires = wire.NewSet(
	ProvideLogger,
	ProvideFilter,
	ProvideIndex,
	ProvideCounter,
	ProvideMetrics,
	ProvideDumper,
	NewSession,
)
