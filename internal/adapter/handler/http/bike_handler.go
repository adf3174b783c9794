package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"
	"github.com/sm8ta/webike_rental_manager/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BikeHandler struct {
	bikeService *services.BikeService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

type BikeRequest struct {
	Make               string            `json:"make" binding:"required" example:"Ather"`
	Model              string            `json:"model" binding:"required" example:"450X"`
	BikeNumber         string            `json:"bike_number" binding:"required" example:"WB-0042"`
	RegistrationNumber string            `json:"registration_number" binding:"required" example:"KA01AB1234"`
	ChassisNumber      string            `json:"chassis_number" binding:"required" example:"MA1AB2CD3EF456789"`
	EngineNumber       string            `json:"engine_number" binding:"required" example:"EM450X00123"`
	Type               domain.BikeType   `json:"type" binding:"required" example:"electric"`
	Year               int               `json:"year" binding:"required" example:"2024"`
	Color              string            `json:"color,omitempty" example:"grey"`
	Mileage            int               `json:"mileage" example:"1200"`
	Status             domain.BikeStatus `json:"status,omitempty" example:"available"`
	PurchasePrice      decimal.Decimal   `json:"purchase_price" swaggertype:"string" example:"145000"`
	PurchaseDate       time.Time         `json:"purchase_date" binding:"required" example:"2024-04-01T00:00:00Z"`
}

func NewBikeHandler(
	bikeService *services.BikeService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BikeHandler {
	return &BikeHandler{
		bikeService: bikeService,
		logger:      logger,
		metrics:     metrics,
	}
}

// @Summary Register bike
// @Tags bikes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BikeRequest true "Bike"
// @Success 201 {object} successResponse{data=domain.Bike}
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse "Number, registration, chassis or engine already in use"
// @Router /bikes [post]
func (h *BikeHandler) CreateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req BikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create bike", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike, err := h.bikeService.CreateBike(c.Request.Context(), &domain.Bike{
		Make:               req.Make,
		Model:              req.Model,
		BikeNumber:         req.BikeNumber,
		RegistrationNumber: req.RegistrationNumber,
		ChassisNumber:      req.ChassisNumber,
		EngineNumber:       req.EngineNumber,
		Type:               req.Type,
		Year:               req.Year,
		Color:              req.Color,
		Mileage:            req.Mileage,
		Status:             req.Status,
		PurchasePrice:      req.PurchasePrice,
		PurchaseDate:       req.PurchaseDate,
	})
	if err != nil {
		handleError(c, h.logger, "Failed to create bike", err, map[string]interface{}{
			"bike_number": req.BikeNumber,
			"operator":    operatorID(c),
		})
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Bike created", bike)
}

// @Summary Get bike
// @Tags bikes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bike ID"
// @Success 200 {object} successResponse{data=domain.Bike}
// @Failure 404 {object} errorResponse
// @Router /bikes/{id} [get]
func (h *BikeHandler) GetBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bike, err := h.bikeService.GetBike(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to get bike", err, map[string]interface{}{
			"bike_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "", bike)
}

// @Summary List bikes
// @Tags bikes
// @Security BearerAuth
// @Produce json
// @Param status query string false "available, assigned, maintenance or retired"
// @Param type query string false "electric, petrol or pedal"
// @Param search query string false "Matches make, model, number or registration"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sortBy query string false "created_at, bike_number, year, mileage or purchase_price"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} successResponse{data=[]domain.Bike}
// @Router /bikes [get]
func (h *BikeHandler) ListBikes(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	filter := domain.BikeFilter{
		Status: domain.BikeStatus(c.Query("status")),
		Type:   domain.BikeType(c.Query("type")),
		Search: c.Query("search"),
	}

	bikes, page, err := h.bikeService.ListBikes(c.Request.Context(), filter, parseListParams(c))
	if err != nil {
		handleError(c, h.logger, "Failed to list bikes", err, nil)
		return
	}

	newListResponse(c, bikes, page)
}

// @Summary Update bike
// @Description Status may move between available and maintenance, or to retired.
// @Tags bikes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Bike ID"
// @Param request body domain.BikePatch true "Fields to change"
// @Success 200 {object} successResponse{data=domain.Bike}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /bikes/{id} [put]
func (h *BikeHandler) UpdateBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var patch domain.BikePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Error("Failed JSON parse in update bike", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike, err := h.bikeService.UpdateBike(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		handleError(c, h.logger, "Failed to update bike", err, map[string]interface{}{
			"bike_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "Bike updated", bike)
}

// @Summary Retire bike
// @Description Blocked while the bike is on an active assignment.
// @Tags bikes
// @Security BearerAuth
// @Produce json
// @Param id path string true "Bike ID"
// @Success 200 {object} successResponse{data=domain.Bike}
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /bikes/{id} [delete]
func (h *BikeHandler) RetireBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bike, err := h.bikeService.RetireBike(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to retire bike", err, map[string]interface{}{
			"bike_id": c.Param("id"),
		})
		return
	}

	h.logger.Info("Bike retired", map[string]interface{}{
		"bike_id":  bike.ID,
		"operator": operatorID(c),
	})
	newSuccessResponse(c, http.StatusOK, "Bike retired", bike)
}
