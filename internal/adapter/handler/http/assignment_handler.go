package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"
	"github.com/sm8ta/webike_rental_manager/internal/core/services"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	logger            ports.LoggerPort
	metrics           ports.MetricsPort
}

func NewAssignmentHandler(
	assignmentService *services.AssignmentService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		logger:            logger,
		metrics:           metrics,
	}
}

// @Summary Create assignment
// @Description Rents an available bike to an eligible rider. Bike, rider and assignment are written together.
// @Tags assignments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.AssignmentTerms true "Rental terms"
// @Success 201 {object} successResponse{data=domain.Assignment}
// @Failure 400 {object} errorResponse "Invalid terms, rider not eligible, bike not available or limit exceeded"
// @Router /assignments [post]
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var terms domain.AssignmentTerms
	if err := c.ShouldBindJSON(&terms); err != nil {
		h.logger.Error("Failed JSON parse in create assignment", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(c.Request.Context(), terms)
	if err != nil {
		handleError(c, h.logger, "Failed to create assignment", err, map[string]interface{}{
			"rider_id": terms.RiderID,
			"bike_id":  terms.BikeID,
			"operator": operatorID(c),
		})
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Assignment created", assignment)
}

// @Summary Get assignment
// @Description Payment status is re-evaluated on read, so an unpaid rental past its end date reads as overdue.
// @Tags assignments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} successResponse{data=domain.Assignment}
// @Failure 404 {object} errorResponse
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	assignment, err := h.assignmentService.GetAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to get assignment", err, map[string]interface{}{
			"assignment_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "", assignment)
}

// @Summary List assignments
// @Tags assignments
// @Security BearerAuth
// @Produce json
// @Param status query string false "active, completed or terminated"
// @Param payment_status query string false "pending, partial, paid or overdue"
// @Param rider_id query string false "Rider ID"
// @Param bike_id query string false "Bike ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sortBy query string false "created_at, start_date, end_date, total_amount or pending_amount"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} successResponse{data=[]domain.Assignment}
// @Failure 400 {object} errorResponse
// @Router /assignments [get]
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	riderID, err := queryUUID(c, "rider_id")
	if err != nil {
		handleError(c, h.logger, "Invalid assignment filter", err, nil)
		return
	}
	bikeID, err := queryUUID(c, "bike_id")
	if err != nil {
		handleError(c, h.logger, "Invalid assignment filter", err, nil)
		return
	}

	filter := domain.AssignmentFilter{
		Status:        domain.AssignmentStatus(c.Query("status")),
		PaymentStatus: domain.PaymentStatus(c.Query("payment_status")),
		RiderID:       riderID,
		BikeID:        bikeID,
	}

	assignments, page, err := h.assignmentService.ListAssignments(c.Request.Context(), filter, parseListParams(c))
	if err != nil {
		handleError(c, h.logger, "Failed to list assignments", err, nil)
		return
	}

	newListResponse(c, assignments, page)
}

// @Summary Terminate assignment
// @Description Ends the rental now and frees the bike. Terminating a closed assignment returns it unchanged.
// @Tags assignments
// @Security BearerAuth
// @Produce json
// @Param id query string true "Assignment ID"
// @Success 200 {object} successResponse{data=domain.Assignment}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /assignments [delete]
func (h *AssignmentHandler) TerminateAssignment(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	id := c.Query("id")
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "Assignment id is required")
		return
	}

	assignment, err := h.assignmentService.TerminateAssignment(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.logger, "Failed to terminate assignment", err, map[string]interface{}{
			"assignment_id": id,
		})
		return
	}

	h.logger.Info("Assignment terminated", map[string]interface{}{
		"assignment_id": assignment.ID,
		"operator":      operatorID(c),
	})
	newSuccessResponse(c, http.StatusOK, "Assignment terminated", assignment)
}

// @Summary Complete assignment
// @Description Closes a rental that ran its full tenure. Idempotent like terminate.
// @Tags assignments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} successResponse{data=domain.Assignment}
// @Failure 404 {object} errorResponse
// @Router /assignments/{id}/complete [post]
func (h *AssignmentHandler) CompleteAssignment(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	assignment, err := h.assignmentService.CompleteAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to complete assignment", err, map[string]interface{}{
			"assignment_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "Assignment completed", assignment)
}
