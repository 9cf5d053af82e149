package observability

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/pitchsync/internal/config"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
)

// Shutdown flushes exporters and stops the profiler. It is safe to call once.
type Shutdown func(context.Context) error

// Setup starts tracing and profiling according to config. Disabled parts are
// skipped; the returned Shutdown always succeeds for them.
func Setup(cfg config.Config, logger *logging.Logger) (Shutdown, error) {
	logger = logging.OrDefault(logger).Named("observability")
	var stops []Shutdown

	switch {
	case !cfg.UptraceEnabled:
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Info("uptrace disabled", "reason", "UPTRACE_DSN empty")
	default:
		stops = append(stops, startTracing(cfg))
		logger.Info("uptrace enabled",
			"service_name", cfg.ServiceName,
			"service_version", cfg.ServiceVersion,
			"environment", cfg.AppEnv,
			"logs_enabled", cfg.UptraceLogsEnabled,
		)
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
	} else {
		stop, err := startProfiler(cfg)
		if err != nil {
			_ = shutdownAll(stops)(context.Background())
			return nil, fmt.Errorf("start pyroscope: %w", err)
		}
		stops = append(stops, func(context.Context) error { return stop() })
		logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress)
	}

	return shutdownAll(stops), nil
}

func shutdownAll(stops []Shutdown) Shutdown {
	return func(ctx context.Context) error {
		var errs error
		for i := len(stops) - 1; i >= 0; i-- {
			if err := stops[i](ctx); err != nil {
				errs = errors.CombineErrors(errs, err)
			}
		}
		return errs
	}
}
