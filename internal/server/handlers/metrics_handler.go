package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrarwerk/stallbuch/internal/repository/supabase"
	"github.com/agrarwerk/stallbuch/internal/service/evaluation"
	"github.com/agrarwerk/stallbuch/internal/service/metrics"
)

// MetricsHandler exposes the KPI calculations over HTTP.
type MetricsHandler struct {
	svc    *evaluation.Service
	logger *zap.Logger
}

// NewMetricsHandler constructs the HTTP handler adapter.
func NewMetricsHandler(svc *evaluation.Service, logger *zap.Logger) *MetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsHandler{svc: svc, logger: logger}
}

// GetCycleMetrics serves the full KPI record of a cycle. With ?cached=1 the
// latest stored snapshot is served when one exists; otherwise the metrics are
// computed live.
func (h *MetricsHandler) GetCycleMetrics(c *gin.Context) {
	id := c.Param("id")

	if c.Query("cached") == "1" {
		snapshot, err := h.svc.CachedMetrics(c.Request.Context(), id)
		if err != nil {
			h.logger.Error("failed loading cached metrics", zap.String("cycle_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cached metrics"})
			return
		}
		if snapshot != nil {
			c.JSON(http.StatusOK, snapshot.Metrics)
			return
		}
	}

	m, err := h.svc.CycleMetrics(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GetAreaMetrics serves the per-location KPI records of a cycle. Repeated
// ?area= parameters restrict the result to the listed location keys.
func (h *MetricsHandler) GetAreaMetrics(c *gin.Context) {
	id := c.Param("id")

	areas, err := h.svc.AreaMetrics(c.Request.Context(), id, c.QueryArray("area"))
	if err != nil {
		h.respondError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

// GetFeedComponents serves the per-feed-type consumption summary of a cycle.
func (h *MetricsHandler) GetFeedComponents(c *gin.Context) {
	id := c.Param("id")

	components, err := h.svc.FeedComponents(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, components)
}

// Estimate previews a cycle's profit/loss from aggregate form inputs. A null
// profit_loss means no preview is possible for the given inputs.
func (h *MetricsHandler) Estimate(c *gin.Context) {
	var params metrics.EstimateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		h.logger.Warn("invalid estimate payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profit_loss": metrics.EstimateProfitLoss(params)})
}

// EvaluateFarm triggers a full evaluation run for a farm, the same routine
// the scheduler executes nightly.
func (h *MetricsHandler) EvaluateFarm(c *gin.Context) {
	id := c.Param("id")

	evaluated, err := h.svc.EvaluateFarm(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("farm evaluation failed", zap.String("farm_id", id), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "evaluation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluated_cycles": evaluated})
}

func (h *MetricsHandler) respondError(c *gin.Context, cycleID string, err error) {
	if errors.Is(err, supabase.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cycle not found"})
		return
	}
	h.logger.Error("failed computing metrics", zap.String("cycle_id", cycleID), zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load cycle data"})
}
