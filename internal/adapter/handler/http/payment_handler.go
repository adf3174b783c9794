package http

import (
	"net/http"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"
	"github.com/sm8ta/webike_rental_manager/internal/core/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	billingService *services.BillingService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

type PayRequest struct {
	Method         domain.PaymentMethod `json:"payment_method" binding:"required" example:"upi"`
	TransactionRef string               `json:"transaction_ref,omitempty" example:"UPI-884213"`
}

func NewPaymentHandler(
	billingService *services.BillingService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *PaymentHandler {
	return &PaymentHandler{
		billingService: billingService,
		logger:         logger,
		metrics:        metrics,
	}
}

// @Summary Record payment
// @Description A payment recorded as paid is applied to the assignment balance in the same write.
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.PaymentInput true "Payment"
// @Success 201 {object} successResponse{data=domain.PaymentReceipt}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var in domain.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Error("Failed JSON parse in record payment", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	receipt, err := h.billingService.RecordPayment(c.Request.Context(), in)
	if err != nil {
		handleError(c, h.logger, "Failed to record payment", err, map[string]interface{}{
			"assignment_id": in.AssignmentID,
			"operator":      operatorID(c),
		})
		return
	}

	newSuccessResponse(c, http.StatusCreated, "Payment recorded", receipt)
}

// @Summary Get payment
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} successResponse{data=domain.Payment}
// @Failure 404 {object} errorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payment, err := h.billingService.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to get payment", err, map[string]interface{}{
			"payment_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "", payment)
}

// @Summary List payments
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param assignment_id query string false "Assignment ID"
// @Param rider_id query string false "Rider ID"
// @Param status query string false "pending, paid, overdue, partial or refunded"
// @Param type query string false "rent, deposit, maintenance, late_fee, penalty, refund or other"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param sortBy query string false "created_at, due_date or amount"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} successResponse{data=[]domain.Payment}
// @Failure 400 {object} errorResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	assignmentID, err := queryUUID(c, "assignment_id")
	if err != nil {
		handleError(c, h.logger, "Invalid payment filter", err, nil)
		return
	}
	riderID, err := queryUUID(c, "rider_id")
	if err != nil {
		handleError(c, h.logger, "Invalid payment filter", err, nil)
		return
	}

	filter := domain.PaymentFilter{
		AssignmentID: assignmentID,
		RiderID:      riderID,
		Status:       domain.PaymentStatus(c.Query("status")),
		Type:         domain.PaymentType(c.Query("type")),
	}

	payments, page, err := h.billingService.ListPayments(c.Request.Context(), filter, parseListParams(c))
	if err != nil {
		handleError(c, h.logger, "Failed to list payments", err, nil)
		return
	}

	newListResponse(c, payments, page)
}

// @Summary Settle payment
// @Description Marks an open payment paid. Settling a paid payment returns it unchanged.
// @Tags payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body PayRequest true "Settlement"
// @Success 200 {object} successResponse{data=domain.PaymentReceipt}
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /payments/{id}/pay [post]
func (h *PaymentHandler) MarkPaymentPaid(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in settle payment", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	receipt, err := h.billingService.MarkPaymentPaid(c.Request.Context(), c.Param("id"), req.Method, req.TransactionRef)
	if err != nil {
		handleError(c, h.logger, "Failed to settle payment", err, map[string]interface{}{
			"payment_id": c.Param("id"),
		})
		return
	}

	newSuccessResponse(c, http.StatusOK, "Payment settled", receipt)
}

// @Summary Refund payment
// @Description Reverses a paid payment's contribution. Refunding twice is a no-op.
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} successResponse{data=domain.PaymentReceipt}
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "Payment was never paid"
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	receipt, err := h.billingService.RefundPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.logger, "Failed to refund payment", err, map[string]interface{}{
			"payment_id": c.Param("id"),
		})
		return
	}

	h.logger.Info("Payment refunded", map[string]interface{}{
		"payment_id": c.Param("id"),
		"operator":   operatorID(c),
	})
	newSuccessResponse(c, http.StatusOK, "Payment refunded", receipt)
}

// @Summary Assess late fees
// @Description Persists overdue status and late fees for open payments past due. Safe to repeat.
// @Tags payments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} successResponse{data=domain.LateFeeReport}
// @Router /payments/assess-late-fees [post]
func (h *PaymentHandler) AssessLateFees(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	report, err := h.billingService.AssessLateFees(c.Request.Context())
	if err != nil {
		handleError(c, h.logger, "Failed to assess late fees", err, nil)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Late fees assessed", report)
}
