package graphql

import (
	"context"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"github.com/pokedex/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// CodeValidationFailed labels syntax, validation and variable errors that
// never reached a resolver
const CodeValidationFailed = "GRAPHQL_VALIDATION_FAILED"

const internalErrorMessage = "Internal server error"

// clientCodes are the domain error codes whose message is safe to show as is
var clientCodes = map[string]struct{}{
	dto.ErrCodeNotFound:           {},
	dto.ErrCodeAlreadyExists:      {},
	dto.ErrCodeInvalidInput:       {},
	dto.ErrCodeUnauthorized:       {},
	dto.ErrCodeInvalidCredentials: {},
	dto.ErrCodeForbidden:          {},
}

// Error is a resolver error carrying a stable code in extensions.code
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Extensions implements the graphql-go ResolverError interface
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// toGraphQLError maps err to the error returned from a resolver.
// Domain errors keep their message; anything else is logged with the field
// name and replaced by a generic internal error.
func (r *Resolver) toGraphQLError(ctx context.Context, field string, err error) error {
	if err == nil {
		return nil
	}
	if de, ok := shared.AsDomainError(err); ok {
		if _, known := clientCodes[de.Code]; known {
			return &Error{Code: de.Code, Message: de.Message}
		}
	}

	logger.WithLogger(ctx, r.logger).Error("GraphQL resolver failed",
		zap.String("field", field),
		zap.Error(err),
	)
	return &Error{Code: dto.ErrCodeInternal, Message: internalErrorMessage}
}

// errorCodes extracts one code per response error for metrics and tracing
func errorCodes(errs []*gqlerrors.QueryError) []string {
	if len(errs) == 0 {
		return nil
	}
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		if code, ok := e.Extensions["code"].(string); ok && code != "" {
			codes = append(codes, code)
			continue
		}
		if e.ResolverError == nil {
			codes = append(codes, CodeValidationFailed)
			continue
		}
		codes = append(codes, dto.ErrCodeInternal)
	}
	return codes
}
