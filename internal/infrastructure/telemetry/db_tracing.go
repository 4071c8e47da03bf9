package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks a statement as slow on its span.
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// DBTracingPlugin registers otelgorm plus the slow query callbacks.
type DBTracingPlugin struct {
	enabled         bool
	logFullSQL      bool
	dbSystem        string
	slowQueryThresh time.Duration
	logger          *zap.Logger
}

// NewDBTracingPlugin creates a plugin from the telemetry settings.
// Tracing is active only when both telemetry and DB tracing are enabled.
func NewDBTracingPlugin(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		enabled:         cfg.Enabled && cfg.DBTraceEnabled,
		logFullSQL:      cfg.DBLogFullSQL,
		dbSystem:        "postgresql",
		slowQueryThresh: DefaultSlowQueryThreshold,
		logger:          logger,
	}
}

// Register installs the otelgorm plugin and the timing callbacks on db.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.dbSystem)}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("otel_timing:before_create", markQueryStart),
		cb.Query().Before("gorm:query").Register("otel_timing:before_query", markQueryStart),
		cb.Update().Before("gorm:update").Register("otel_timing:before_update", markQueryStart),
		cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", markQueryStart),
		cb.Row().Before("gorm:row").Register("otel_timing:before_row", markQueryStart),
		cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", markQueryStart),
		cb.Create().After("gorm:create").Register("otel_slow_query:create", p.afterQuery),
		cb.Query().After("gorm:query").Register("otel_slow_query:query", p.afterQuery),
		cb.Update().After("gorm:update").Register("otel_slow_query:update", p.afterQuery),
		cb.Delete().After("gorm:delete").Register("otel_slow_query:delete", p.afterQuery),
		cb.Row().After("gorm:row").Register("otel_slow_query:row", p.afterQuery),
		cb.Raw().After("gorm:raw").Register("otel_slow_query:raw", p.afterQuery),
	)
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = WithQueryStartTime(db.Statement.Context)
	}
}

// WithQueryStartTime records the statement start time on ctx.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// afterQuery annotates the active span with table, row count, errors and slowness.
func (p *DBTracingPlugin) afterQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// A missing row is an expected outcome for lookups.
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	startTime, ok := ctx.Value(queryStartTimeKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(startTime); elapsed > p.slowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", p.slowQueryThresh.Milliseconds()),
		))
	}
}
