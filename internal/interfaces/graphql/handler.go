package graphql

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gqlgo "github.com/graph-gophers/graphql-go"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"github.com/pokedex/backend/internal/infrastructure/telemetry"
	"github.com/pokedex/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DefaultPath is where the endpoint is mounted when no path is configured
const DefaultPath = "/api/graphql"

// HandlerConfig configures the HTTP endpoint
type HandlerConfig struct {
	Path       string
	Playground bool
	Metrics    *telemetry.Metrics
	Logger     *zap.Logger
}

// Handler serves GraphQL over HTTP: POST with a JSON body, or GET with
// query, operationName and variables in the URL.
type Handler struct {
	schema     *gqlgo.Schema
	path       string
	playground bool
	metrics    *telemetry.Metrics
	logger     *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(schema *gqlgo.Schema, cfg HandlerConfig) *Handler {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{
		schema:     schema,
		path:       cfg.Path,
		playground: cfg.Playground,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// RegisterRoutes mounts the endpoint on rg
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST(h.path, h.Serve)
	rg.GET(h.path, h.Serve)
}

// Request is a single GraphQL operation
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

var errMissingQuery = errors.New("query is required")

// Serve executes one operation. Execution errors are reported inside the
// GraphQL response with status 200; only unreadable requests get a 400.
func (h *Handler) Serve(c *gin.Context) {
	req, err := h.parseRequest(c)
	if err == nil && req.Query == "" {
		if c.Request.Method == http.MethodGet && h.playground {
			c.Data(http.StatusOK, "text/html; charset=utf-8", playgroundPage(h.path))
			return
		}
		err = errMissingQuery
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, transportError(err.Error()))
		return
	}

	if req.OperationName != "" {
		c.Set(logger.GinOperationKey, req.OperationName)
	}

	ctx, span := telemetry.StartSpan(c.Request.Context(), "graphql.execute",
		telemetry.WithAttribute(telemetry.SpanAttrOperation, req.OperationName),
	)
	defer span.End()

	start := time.Now()
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	elapsed := time.Since(start)

	codes := errorCodes(resp.Errors)
	if len(codes) > 0 {
		telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, codes[0])
		telemetry.AddEvent(span, "graphql.errors", "count", len(codes))
	}
	h.metrics.ObserveGraphQLOperation(req.OperationName, elapsed, codes)

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) parseRequest(c *gin.Context) (Request, error) {
	var req Request
	switch c.Request.Method {
	case http.MethodGet:
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return req, errors.New("variables must be a JSON object")
			}
		}
	default:
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.GetGinLogger(c).Debug("Unreadable GraphQL request body", zap.Error(err))
			return req, errors.New("request body must be a JSON object with a query")
		}
	}
	return req, nil
}

// transportError shapes request-level failures like GraphQL errors so
// clients can handle both the same way
func transportError(message string) gin.H {
	return gin.H{
		"errors": []gin.H{{
			"message":    message,
			"extensions": gin.H{"code": dto.ErrCodeBadRequest},
		}},
	}
}
