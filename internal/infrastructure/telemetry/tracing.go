package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans
const TracerName = "pokedex-backend"

const (
	SpanAttrPokemonID   = "pokemon.id"
	SpanAttrPokemonName = "pokemon.name"
	SpanAttrUserID      = "user.id"
	SpanAttrOperation   = "graphql.operation.name"
	SpanAttrErrorCode   = "error.code"
)

// WithAttribute is a span start option carrying one loosely typed attribute
func WithAttribute(key string, value any) trace.SpanStartOption {
	return trace.WithAttributes(attr(key, value))
}

// StartSpan starts an internal span from the global provider. The caller
// ends it.
//
//	ctx, span := telemetry.StartSpan(ctx, "pokemon.create")
//	defer span.End()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}

// SetAttributes sets key/value pairs on span. Pairs whose key is not a
// string are dropped, as is a trailing key without a value.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span != nil {
		span.SetAttributes(attrs(keyValues)...)
	}
}

// RecordError marks span failed with err. A nil err leaves the status unset.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent adds a named event with key/value attributes
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span != nil {
		span.AddEvent(name, trace.WithAttributes(attrs(keyValues)...))
	}
}

// GetTraceID returns the trace id active on ctx, or ""
func GetTraceID(ctx context.Context) string {
	if id := trace.SpanContextFromContext(ctx).TraceID(); id.IsValid() {
		return id.String()
	}
	return ""
}

func attrs(keyValues []any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 1; i < len(keyValues); i += 2 {
		if key, ok := keyValues[i-1].(string); ok {
			out = append(out, attr(key, keyValues[i]))
		}
	}
	return out
}

func attr(key string, value any) attribute.KeyValue {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v)
	case bool:
		return k.Bool(v)
	case int:
		return k.Int(v)
	case int32:
		return k.Int64(int64(v))
	case int64:
		return k.Int64(v)
	case float64:
		return k.Float64(v)
	case []string:
		return k.StringSlice(v)
	case fmt.Stringer:
		return k.String(v.String())
	}
	return k.String(fmt.Sprint(value))
}
