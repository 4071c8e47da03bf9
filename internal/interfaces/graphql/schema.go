// Package graphql exposes the catalog and account services over GraphQL.
//
// The schema is embedded from schema.graphql and executed with
// graph-gophers/graphql-go. Resolvers translate between GraphQL types and the
// application DTOs; domain errors surface with their message and an
// extensions.code, everything else is logged and reported as an internal error.
package graphql

import (
	"context"
	_ "embed"
	"fmt"

	gqlgo "github.com/graph-gophers/graphql-go"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var schemaSDL string

// DefaultMaxDepth bounds query nesting when no explicit depth is configured
const DefaultMaxDepth = 10

// SDL returns the schema definition served by the endpoint
func SDL() string {
	return schemaSDL
}

// NewSchema parses the embedded SDL and binds it to resolver
func NewSchema(resolver *Resolver, maxDepth int, log *zap.Logger) (*gqlgo.Schema, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if log == nil {
		log = zap.NewNop()
	}

	schema, err := gqlgo.ParseSchema(schemaSDL, resolver,
		gqlgo.MaxDepth(maxDepth),
		gqlgo.Logger(&panicLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger records resolver panics. graphql-go recovers them and reports
// the failing field as an error in the response.
type panicLogger struct {
	log *zap.Logger
}

// LogPanic implements the graphql-go log.Logger interface
func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger.WithLogger(ctx, l.log).Error("GraphQL resolver panic",
		zap.Any("panic", value),
		zap.Stack("stacktrace"),
	)
}
