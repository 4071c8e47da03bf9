package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/grafana/pyroscope-go"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// profileTypes leaves out mutex and block profiles, which need runtime
// sampling rates set.
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler pushes continuous profiles to Pyroscope. A disabled Profiler is
// a valid no-op.
type Profiler struct {
	session  *pyroscope.Profiler
	logger   *zap.Logger
	stopOnce sync.Once
	stopErr  error
}

func NewProfiler(cfg config.ProfilingConfig, applicationName string, logger *zap.Logger) (*Profiler, error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return &Profiler{logger: logger}, nil
	}
	switch {
	case cfg.ServerAddress == "":
		return nil, errors.New("profiling enabled but server address is required")
	case applicationName == "":
		return nil, errors.New("profiling enabled but application name is required")
	}

	tags := map[string]string{"version": ServiceVersion}
	if host, err := os.Hostname(); err == nil && host != "" {
		tags["hostname"] = host
	}

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: applicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", applicationName))
	return &Profiler{session: session, logger: logger}, nil
}

// IsEnabled reports whether profiles are being pushed
func (p *Profiler) IsEnabled() bool {
	return p.session != nil
}

// Stop flushes the last profiles. Later calls return the first result.
func (p *Profiler) Stop() error {
	p.stopOnce.Do(func() {
		if p.session == nil {
			return
		}
		if err := p.session.Stop(); err != nil {
			p.logger.Error("Stopping profiler failed", zap.Error(err))
			p.stopErr = fmt.Errorf("stop pyroscope: %w", err)
		}
	})
	return p.stopErr
}

type pyroscopeLogger struct {
	*zap.SugaredLogger
}

// WithProfilingLabels runs fn with pprof labels on its goroutine so CPU
// samples can be split by GraphQL operation. Empty values are skipped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		fn(ctx)
		return
	}

	slices.Sort(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, labels[k])
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}
