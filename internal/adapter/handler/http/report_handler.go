package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/ports"
	"github.com/sm8ta/webike_rental_manager/internal/core/services"

	"github.com/gin-gonic/gin"
)

const defaultTopRiders = 5

type ReportHandler struct {
	reportService    *services.ReportService
	reconcileService *services.ReconcileService
	logger           ports.LoggerPort
	metrics          ports.MetricsPort
}

func NewReportHandler(
	reportService *services.ReportService,
	reconcileService *services.ReconcileService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *ReportHandler {
	return &ReportHandler{
		reportService:    reportService,
		reconcileService: reconcileService,
		logger:           logger,
		metrics:          metrics,
	}
}

// @Summary Dashboard
// @Description Fleet, rental and revenue summary. Served from the read cache until the next write.
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Param top query int false "Top riders to include" default(5)
// @Success 200 {object} successResponse{data=domain.DashboardStats}
// @Router /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	stats, err := h.reportService.Dashboard(c.Request.Context(), queryInt(c, "top", defaultTopRiders))
	if err != nil {
		handleError(c, h.logger, "Failed to build dashboard", err, nil)
		return
	}

	newSuccessResponse(c, http.StatusOK, "", stats)
}

// @Summary Analytics
// @Description Period-over-period revenue, rentals and signups with growth rates.
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Param period query string false "7d, 30d, 90d or 365d" default(30d)
// @Param top query int false "Top riders to include" default(5)
// @Success 200 {object} successResponse{data=domain.Analytics}
// @Failure 400 {object} errorResponse
// @Router /analytics [get]
func (h *ReportHandler) Analytics(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	period := c.DefaultQuery("period", "30d")
	analytics, err := h.reportService.Analytics(c.Request.Context(), period, queryInt(c, "top", defaultTopRiders))
	if err != nil {
		handleError(c, h.logger, "Failed to build analytics", err, map[string]interface{}{
			"period": period,
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "", analytics)
}

// @Summary Reconcile
// @Description Checks stored balances, bike holders and rider counters against assignments and payments, repairing drift unless dry_run is set.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param dry_run query bool false "Report without repairing"
// @Success 200 {object} successResponse{data=domain.ReconcileReport}
// @Router /admin/reconcile [post]
func (h *ReportHandler) Reconcile(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	dryRun, _ := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))

	report, err := h.reconcileService.Reconcile(c.Request.Context(), dryRun)
	if err != nil {
		handleError(c, h.logger, "Failed to reconcile", err, nil)
		return
	}

	h.logger.Info("Reconciliation requested", map[string]interface{}{
		"dry_run":  dryRun,
		"issues":   len(report.Issues),
		"operator": operatorID(c),
	})
	newSuccessResponse(c, http.StatusOK, "", report)
}
