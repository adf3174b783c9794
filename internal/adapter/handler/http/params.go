package http

import (
	"strconv"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parseListParams(c *gin.Context) domain.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultPageLimit)))
	return domain.ListParams{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: domain.SortOrder(c.DefaultQuery("sortOrder", string(domain.SortDesc))),
	}
}

// queryUUID reads an optional id filter. A malformed value is a
// validation error rather than an ignored filter.
func queryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   name,
			Message: "must be a valid UUID",
		})
	}
	return &id, nil
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}
