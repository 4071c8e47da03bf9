package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is everything a request carries for logging. It is copied on every
// change so a derived context never mutates its parent.
type scope struct {
	logger    *zap.Logger
	requestID string
	userID    string
	email     string
	tokenID   string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, update func(*scope)) context.Context {
	s := scopeFrom(ctx)
	update(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return withScope(ctx, func(s *scope) { s.logger = logger })
}

// FromContext returns the logger attached to ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records requestID on ctx and tags logger with it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	tagged := logger.With(zap.String("request_id", requestID))
	return withScope(ctx, func(s *scope) {
		s.requestID = requestID
		s.logger = tagged
	}), tagged
}

// WithUser records the signed-in trainer on ctx. tokenID may be empty.
func WithUser(ctx context.Context, logger *zap.Logger, userID, email, tokenID string) (context.Context, *zap.Logger) {
	tagged := logger.With(zap.String("user_id", userID))
	return withScope(ctx, func(s *scope) {
		s.userID, s.email, s.logger = userID, email, tagged
		if tokenID != "" {
			s.tokenID = tokenID
		}
	}), tagged
}

func GetRequestID(ctx context.Context) string { return scopeFrom(ctx).requestID }

// GetUserID is empty for anonymous requests
func GetUserID(ctx context.Context) string { return scopeFrom(ctx).userID }

func GetUserEmail(ctx context.Context) string { return scopeFrom(ctx).email }

// GetTokenID returns the jti of the bearer token that authenticated ctx
func GetTokenID(ctx context.Context) string { return scopeFrom(ctx).tokenID }

// GetTraceID returns the id of the span active on ctx, if any
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// ContextLogger writes entries tagged with whatever trace, request and user
// ids ctx carries at the time of the call.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger over the logger attached to ctx
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger returns a ContextLogger over an explicit base logger, typically
// a service's named logger.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: logger}
}

// Zap returns the tagged logger
func (cl *ContextLogger) Zap() *zap.Logger {
	base := cl.logger
	if base == nil {
		base = zap.NewNop()
	}
	s := scopeFrom(cl.ctx)
	fields := make([]zap.Field, 0, 4)
	if sc := trace.SpanContextFromContext(cl.ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()))
	}
	if s.requestID != "" {
		fields = append(fields, zap.String("request_id", s.requestID))
	}
	if s.userID != "" {
		fields = append(fields, zap.String("user_id", s.userID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) { cl.Zap().Debug(msg, fields...) }
func (cl *ContextLogger) Info(msg string, fields ...zap.Field)  { cl.Zap().Info(msg, fields...) }
func (cl *ContextLogger) Warn(msg string, fields ...zap.Field)  { cl.Zap().Warn(msg, fields...) }
func (cl *ContextLogger) Error(msg string, fields ...zap.Field) { cl.Zap().Error(msg, fields...) }
