package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"
	"github.com/sm8ta/webike_rental_manager/internal/core/services"

	"github.com/gin-gonic/gin"
)

type RiderHandler struct {
	riderService *services.RiderService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

type RiderRequest struct {
	Name             string                  `json:"name" binding:"required" example:"Asha Rao"`
	Email            string                  `json:"email" binding:"required" example:"asha@example.com"`
	Phone            string                  `json:"phone" binding:"required" example:"+919800000001"`
	LicenseNumber    string                  `json:"license_number" binding:"required" example:"KA0120240001"`
	LicenseExpiry    time.Time               `json:"license_expiry" binding:"required" example:"2028-01-01T00:00:00Z"`
	DateOfBirth      *time.Time              `json:"date_of_birth,omitempty"`
	Address          domain.Address          `json:"address"`
	EmergencyContact domain.EmergencyContact `json:"emergency_contact"`
	Rating           float64                 `json:"rating,omitempty" example:"4.5"`
}

func NewRiderHandler(
	riderService *services.RiderService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *RiderHandler {
	return &RiderHandler{
		riderService: riderService,
		logger:       logger,
		metrics:      metrics,
	}
}

// @Summary Create rider
// @Tags riders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RiderRequest true "Rider"
// @Success 201 {object} successResponse{data=domain.Rider}
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse "Email or license already registered"
// @Router /riders [post]
func (h *RiderHandler) CreateRider(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req RiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create rider", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	rider, err := h.riderService.CreateRider(c.Request.Context(), &domain.Rider{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		LicenseNumber:    req.LicenseNumber,
		LicenseExpiry:    req.LicenseExpiry,
		DateOfBirth:      req.DateOfBirth,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Rating:           req.Rating,
	})
	if err != nil {
		handleError(c, h.logger, "Failed to create rider", err, map[string]interface{}{
			"operator": operatorID(c),
		})
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Rider created", rider)
}

// @Summary Get rider
// @Tags riders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Rider ID"
// @Success 200 {object} successResponse{data=domain.Rider}
// @Failure 404 {object} errorResponse
// @Router /riders/{id} [get]
func (h *RiderHandler) GetRider(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rider, err := h.riderService.GetRider(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to get rider", err, map[string]interface{}{
			"rider_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "", rider)
}

// @Summary List riders
// @Tags riders
// @Security BearerAuth
// @Produce json
// @Param status query string false "active, inactive or suspended"
// @Param search query string false "Matches name, email, phone or license"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sortBy query string false "created_at, name, rating or total_assignments"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} successResponse{data=[]domain.Rider}
// @Router /riders [get]
func (h *RiderHandler) ListRiders(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	filter := domain.RiderFilter{
		Status: domain.RiderStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	riders, page, err := h.riderService.ListRiders(c.Request.Context(), filter, parseListParams(c))
	if err != nil {
		handleError(c, h.logger, "Failed to list riders", err, nil)
		return
	}

	newListResponse(c, riders, page)
}

// @Summary Update rider
// @Tags riders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Rider ID"
// @Param request body domain.RiderPatch true "Fields to change"
// @Success 200 {object} successResponse{data=domain.Rider}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /riders/{id} [put]
func (h *RiderHandler) UpdateRider(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var patch domain.RiderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Error("Failed JSON parse in update rider", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	rider, err := h.riderService.UpdateRider(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		handleError(c, h.logger, "Failed to update rider", err, map[string]interface{}{
			"rider_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "Rider updated", rider)
}

// @Summary Deactivate rider
// @Description Soft-deletes the rider. Blocked while the rider holds active assignments.
// @Tags riders
// @Security BearerAuth
// @Produce json
// @Param id path string true "Rider ID"
// @Success 200 {object} successResponse{data=domain.Rider}
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /riders/{id} [delete]
func (h *RiderHandler) DeactivateRider(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rider, err := h.riderService.DeactivateRider(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to deactivate rider", err, map[string]interface{}{
			"rider_id": c.Param("id"),
		})
		return
	}

	h.logger.Info("Rider deactivated", map[string]interface{}{
		"rider_id": rider.ID,
		"operator": operatorID(c),
	})
	newSuccessResponse(c, http.StatusOK, "Rider deactivated", rider)
}
