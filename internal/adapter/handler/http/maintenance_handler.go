package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"
	"github.com/sm8ta/webike_rental_manager/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
	logger             ports.LoggerPort
	metrics            ports.MetricsPort
}

type MaintenanceRequest struct {
	BikeID        uuid.UUID                  `json:"bike_id" binding:"required" example:"123e4567-e89b-12d3-a456-426614174000"`
	Type          domain.MaintenanceType     `json:"type" binding:"required" example:"repair"`
	Category      domain.MaintenanceCategory `json:"category" binding:"required" example:"brakes"`
	Priority      domain.Priority            `json:"priority,omitempty" example:"critical"`
	Description   string                     `json:"description" binding:"required" example:"Front brake pads worn"`
	ScheduledDate *time.Time                 `json:"scheduled_date,omitempty"`
	Cost          domain.Cost                `json:"cost"`
	Technician    string                     `json:"technician,omitempty" example:"Ravi"`
	Notes         string                     `json:"notes,omitempty"`
}

func NewMaintenanceHandler(
	maintenanceService *services.MaintenanceService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
		metrics:            metrics,
	}
}

// @Summary Schedule maintenance
// @Description A critical job takes an available bike out of the rentable pool.
// @Tags maintenance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body MaintenanceRequest true "Maintenance job"
// @Success 201 {object} successResponse{data=domain.Maintenance}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "Bike is retired"
// @Router /maintenance [post]
func (h *MaintenanceHandler) ScheduleMaintenance(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in schedule maintenance", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	m := &domain.Maintenance{
		BikeID:      req.BikeID,
		Type:        req.Type,
		Category:    req.Category,
		Priority:    req.Priority,
		Description: req.Description,
		Cost:        req.Cost,
		Technician:  req.Technician,
		Notes:       req.Notes,
	}
	if req.ScheduledDate != nil {
		m.ScheduledDate = *req.ScheduledDate
	}

	scheduled, err := h.maintenanceService.ScheduleMaintenance(c.Request.Context(), m)
	if err != nil {
		handleError(c, h.logger, "Failed to schedule maintenance", err, map[string]interface{}{
			"bike_id":  req.BikeID,
			"operator": operatorID(c),
		})
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Maintenance scheduled", scheduled)
}

// @Summary Get maintenance job
// @Tags maintenance
// @Security BearerAuth
// @Produce json
// @Param id path string true "Maintenance ID"
// @Success 200 {object} successResponse{data=domain.Maintenance}
// @Failure 404 {object} errorResponse
// @Router /maintenance/{id} [get]
func (h *MaintenanceHandler) GetMaintenance(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	m, err := h.maintenanceService.GetMaintenance(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to get maintenance", err, map[string]interface{}{
			"maintenance_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "", m)
}

// @Summary List maintenance jobs
// @Tags maintenance
// @Security BearerAuth
// @Produce json
// @Param bike_id query string false "Bike ID"
// @Param status query string false "scheduled, in_progress, completed, cancelled or on_hold"
// @Param priority query string false "low, medium, high or critical"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sortBy query string false "created_at, scheduled_date, priority or cost"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} successResponse{data=[]domain.Maintenance}
// @Failure 400 {object} errorResponse
// @Router /maintenance [get]
func (h *MaintenanceHandler) ListMaintenance(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID, err := queryUUID(c, "bike_id")
	if err != nil {
		handleError(c, h.logger, "Invalid maintenance filter", err, nil)
		return
	}

	filter := domain.MaintenanceFilter{
		BikeID:   bikeID,
		Status:   domain.MaintenanceStatus(c.Query("status")),
		Priority: domain.Priority(c.Query("priority")),
	}

	jobs, page, err := h.maintenanceService.ListMaintenance(c.Request.Context(), filter, parseListParams(c))
	if err != nil {
		handleError(c, h.logger, "Failed to list maintenance", err, nil)
		return
	}

	newListResponse(c, jobs, page)
}

// @Summary Move maintenance job
// @Description scheduled→in_progress|cancelled|on_hold, in_progress→completed|cancelled|on_hold, on_hold→scheduled|in_progress|cancelled.
// @Tags maintenance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Maintenance ID"
// @Param request body domain.MaintenanceUpdate true "New status"
// @Success 200 {object} successResponse{data=domain.Maintenance}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /maintenance/{id}/status [patch]
func (h *MaintenanceHandler) UpdateMaintenanceStatus(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var upd domain.MaintenanceUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.logger.Error("Failed JSON parse in update maintenance", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	m, err := h.maintenanceService.UpdateMaintenanceStatus(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		handleError(c, h.logger, "Failed to update maintenance", err, map[string]interface{}{
			"maintenance_id": c.Param("id"),
			"status":         upd.Status,
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "Maintenance updated", m)
}
