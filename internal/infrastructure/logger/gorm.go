package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold flags catalog queries that take longer than a
// filtered listing should
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLogger routes GORM statements through zap, tagged with the request,
// trace and user ids of the resolver that issued them.
type GormLogger struct {
	logger        *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logNotFound   bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged as slow.
// Zero disables slow statement warnings.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowThreshold = threshold
	}
}

// WithIgnoreRecordNotFoundError controls whether lookups that miss are
// logged as errors. Misses are normal for pokemon(name:) so they are ignored
// by default.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) {
		l.logNotFound = !ignore
	}
}

// NewGormLogger creates a GORM logger named "gorm" under zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:        zapLogger.Named("gorm"),
		level:         level,
		slowThreshold: DefaultSlowQueryThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, msg, data...)
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, msg, data...)
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, msg, data...)
}

func (l *GormLogger) printf(ctx context.Context, level gormlogger.LogLevel, msg string, data ...any) {
	if l.level < level {
		return
	}
	line := fmt.Sprintf(msg, data...)
	fields := contextFields(ctx)
	switch level {
	case gormlogger.Error:
		l.logger.Error(line, fields...)
	case gormlogger.Warn:
		l.logger.Warn(line, fields...)
	default:
		l.logger.Info(line, fields...)
	}
}

// Trace implements gormlogger.Interface. Failed statements log at error,
// slow ones at warn, and everything else at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && (l.logNotFound || !errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slowThreshold > 0 && elapsed > l.slowThreshold

	switch {
	case failed && l.level >= gormlogger.Error:
		l.logger.Error("SQL Error", append(statementFields(ctx, fc, elapsed), zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		l.logger.Warn(fmt.Sprintf("SLOW SQL >= %v", l.slowThreshold), statementFields(ctx, fc, elapsed)...)
	case !failed && err == nil && l.level >= gormlogger.Info:
		l.logger.Debug("SQL Query", statementFields(ctx, fc, elapsed)...)
	}
}

func statementFields(ctx context.Context, fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("statement", statementVerb(sql)),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	return append(fields, contextFields(ctx)...)
}

func contextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetTraceID(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id))
	}
	if id := GetUserID(ctx); id != "" {
		fields = append(fields, zap.String("user_id", id))
	}
	return fields
}

// statementVerb returns the leading SQL keyword, e.g. SELECT or INSERT
func statementVerb(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \n\t"); i > 0 {
		sql = sql[:i]
	}
	return strings.ToUpper(sql)
}

// MapGormLogLevel maps the application log level to a GORM log level.
// Only debug logging surfaces individual statements.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
