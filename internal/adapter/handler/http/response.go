package http

import (
	"errors"
	"net/http"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string              `json:"error" example:"bike not available"`
	Details []domain.FieldError `json:"details,omitempty"`
}

type successResponse struct {
	Message    string             `json:"message,omitempty" example:"Assignment created"`
	Data       interface{}        `json:"data"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Error: message})
}

func newSuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, successResponse{Message: message, Data: data})
}

func newListResponse(c *gin.Context, data interface{}, page domain.Pagination) {
	c.JSON(http.StatusOK, successResponse{Data: data, Pagination: &page})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrNotAvailable),
		errors.Is(err, domain.ErrLimitExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError logs a failed service call and writes the matching response.
// Internal failures never leak their cause to the client.
func handleError(c *gin.Context, logger ports.LoggerPort, msg string, err error, fields map[string]interface{}) {
	status := statusFor(err)

	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["error"] = err.Error()
	fields["status"] = status
	if status == http.StatusInternalServerError {
		logger.Error(msg, fields)
		newErrorResponse(c, status, "Internal server error")
		return
	}
	logger.Warn(msg, fields)

	resp := errorResponse{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Details = verr.Fields
	}
	c.AbortWithStatusJSON(status, resp)
}
