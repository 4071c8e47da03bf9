package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pokedex/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DefaultReadinessTimeout bounds the whole /ready probe
const DefaultReadinessTimeout = 2 * time.Second

// DependencyCheck probes one backing service for the readiness endpoint
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	startTime time.Time
	version   string
	timeout   time.Duration
	checks    []DependencyCheck
	logger    *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string, logger *zap.Logger, checks ...DependencyCheck) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		startTime: time.Now(),
		version:   version,
		timeout:   DefaultReadinessTimeout,
		checks:    checks,
		logger:    logger,
	}
}

// WithTimeout overrides the readiness probe deadline
func (h *HealthHandler) WithTimeout(timeout time.Duration) *HealthHandler {
	if timeout > 0 {
		h.timeout = timeout
	}
	return h
}

// LivenessResponse is returned by GET /health
type LivenessResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	Uptime    string `json:"uptime"`
}

// ReadinessResponse is returned by GET /ready when every dependency answers
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// RegisterRoutes mounts the probes at the root of rg
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Live)
	rg.GET("/ready", h.Ready)
}

// Live reports that the process is up. It never touches dependencies.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(LivenessResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// Ready pings every dependency in order and fails on the first one that does not answer
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			h.logger.Warn("Readiness check failed",
				zap.String("dependency", check.Name),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				dto.ErrCodeServiceUnavailable,
				check.Name+" is unavailable",
			))
			return
		}
		results[check.Name] = "ok"
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(ReadinessResponse{
		Status: "ready",
		Checks: results,
	}))
}
