// Package api exposes the lineup engine over HTTP. Each request runs its own
// generator, so concurrent optimizations share no mutable state.
package api

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/galactusaurus/roster-opt/internal/config"
	"github.com/galactusaurus/roster-opt/internal/contest"
	"github.com/galactusaurus/roster-opt/internal/generate"
	"github.com/galactusaurus/roster-opt/internal/pool"
	"github.com/galactusaurus/roster-opt/internal/solver"
	"github.com/galactusaurus/roster-opt/internal/ws"
	"github.com/galactusaurus/roster-opt/pkg/cache"
)

// OptimizeRequest is the request body for POST /api/v1/optimize. Either a
// built-in format name or a full configuration must be supplied.
type OptimizeRequest struct {
	Format        string                 `json:"format,omitempty"`
	Configuration *contest.Configuration `json:"configuration,omitempty"`
	Players       []pool.Record          `json:"players"`
	Request       generate.Request       `json:"request"`
}

// OptimizeResponse carries a finished batch.
type OptimizeResponse struct {
	Lineups []generate.Lineup `json:"lineups"`
	Cached  bool              `json:"cached"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// OptimizationHandler serves the optimization endpoints.
type OptimizationHandler struct {
	cache  *cache.LineupCache // nil disables caching
	hub    *ws.Hub            // nil disables progress broadcasts
	config *config.Config
	logger *logrus.Logger
}

// NewOptimizationHandler wires the handler's collaborators.
func NewOptimizationHandler(c *cache.LineupCache, hub *ws.Hub, cfg *config.Config, logger *logrus.Logger) *OptimizationHandler {
	return &OptimizationHandler{cache: c, hub: hub, config: cfg, logger: logger}
}

func (h *OptimizationHandler) resolve(req *OptimizeRequest) (*contest.Configuration, *pool.Pool, error) {
	cfg := req.Configuration
	if cfg == nil {
		var err error
		cfg, err = contest.ByName(req.Format)
		if err != nil {
			return nil, nil, err
		}
	}

	records := req.Players
	if cfg.CaptainRole != "" && !hasRole(records, cfg.CaptainRole) {
		records = pool.ExpandCaptain(records, cfg.CaptainRole, cfg.UtilityRole)
	}
	p, err := pool.New(records)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

// OptimizeLineups handles POST /api/v1/optimize.
func (h *OptimizationHandler) OptimizeLineups(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format",
			Code:  "INVALID_REQUEST",
			Details: map[string]string{
				"validation_error": err.Error(),
			},
		})
		return
	}

	cacheKey := requestDigest(req)
	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), cacheKey); err == nil {
			h.logger.WithField("cache_key", cacheKey).Info("Returning cached lineup batch")
			c.JSON(http.StatusOK, OptimizeResponse{Lineups: cached, Cached: true})
			return
		}
	}

	cfg, p, err := h.resolve(&req)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	gen, err := generate.New(cfg, p, solver.NewBranchBound(), h.logger.WithField("component", "api"))
	if err != nil {
		h.badRequest(c, err)
		return
	}
	gen.SolveTimeout = h.config.SolveTimeout
	if h.hub != nil {
		gen.OnProgress = h.hub.Publish
	}

	lineups, err := gen.Generate(c.Request.Context(), req.Request)
	if err != nil {
		if errors.Is(err, generate.ErrNoLineups) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: "No feasible lineup for the request",
				Code:  "INFEASIBLE",
			})
			return
		}
		var cfgErr *contest.ConfigurationError
		if errors.As(err, &cfgErr) {
			h.badRequest(c, err)
			return
		}
		h.logger.WithError(err).Error("Optimization failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Optimization failed",
			Code:  "SOLVER_ERROR",
			Details: map[string]string{
				"error": err.Error(),
			},
		})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), cacheKey, lineups, h.config.CacheTTL); err != nil {
			h.logger.WithError(err).Warn("Failed to cache lineup batch")
		}
	}

	h.logger.WithFields(logrus.Fields{
		"lineups_generated": len(lineups),
		"format":            cfg.Name,
	}).Info("Optimization completed")
	c.JSON(http.StatusOK, OptimizeResponse{Lineups: lineups})
}

// ValidateRequest handles POST /api/v1/optimize/validate: it runs every
// pre-solve check without solving.
func (h *OptimizationHandler) ValidateRequest(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	cfg, p, err := h.resolve(&req)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if _, err := generate.New(cfg, p, solver.NewBranchBound(), h.logger.WithField("component", "api")); err != nil {
		h.badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"format":    cfg.Name,
		"pool_size": p.Len(),
		"teams":     p.TeamCount(),
	})
}

func (h *OptimizationHandler) badRequest(c *gin.Context, err error) {
	code := "INVALID_REQUEST"
	var cfgErr *contest.ConfigurationError
	var dataErr *pool.DataError
	switch {
	case errors.As(err, &cfgErr):
		code = "CONFIGURATION_ERROR"
	case errors.As(err, &dataErr):
		code = "DATA_ERROR"
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: code})
}

func hasRole(records []pool.Record, role string) bool {
	for _, r := range records {
		if r.Role == role {
			return true
		}
	}
	return false
}

func requestDigest(req OptimizeRequest) string {
	data, _ := json.Marshal(req)
	return fmt.Sprintf("%x", md5.Sum(data))
}
