package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DashboardEndpoint = "dashboard"
	AnalyticsEndpoint = "analytics"
)

// Aggregate read models that any write can make stale.
var aggregatePatterns = []string{DashboardEndpoint + ":*", AnalyticsEndpoint + ":*"}

// Policy holds the business terms that come from configuration.
type Policy struct {
	MaxActiveAssignments int
	DefaultLateFeePerDay decimal.Decimal
	DepreciationRate     decimal.Decimal
	ReportCacheTTL       time.Duration
	EntityCacheTTL       time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxActiveAssignments: 3,
		DefaultLateFeePerDay: decimal.NewFromInt(50),
		DepreciationRate:     decimal.NewFromFloat(0.15),
		ReportCacheTTL:       5 * time.Minute,
		EntityCacheTTL:       15 * time.Minute,
	}
}

// base carries the dependencies every service shares.
type base struct {
	store    ports.Store
	logger   ports.LoggerPort
	validate *validator.Validate
	cache    ports.CachePort
	events   ports.EventRecorder
	policy   Policy
	now      func() time.Time
}

func newBase(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) base {
	if events == nil {
		events = nopEvents{}
	}
	return base{
		store:    store,
		logger:   logger,
		validate: validate,
		cache:    cache,
		events:   events,
		policy:   policy,
		now:      time.Now,
	}
}

// invalidateAggregates drops cached reports plus any extra keys or patterns.
func (b *base) invalidateAggregates(ctx context.Context, extra ...string) {
	patterns := append(append([]string{}, aggregatePatterns...), extra...)
	for _, p := range patterns {
		if err := b.cache.Invalidate(ctx, p); err != nil {
			b.logger.Warn("Failed to invalidate cache", map[string]interface{}{
				"error":   err.Error(),
				"pattern": p,
			})
		}
	}
}

func (b *base) validateStruct(s interface{}) error {
	if err := b.validate.Struct(s); err != nil {
		return validationError(err)
	}
	return nil
}

// CacheKey builds a deterministic key from an endpoint and its query
// parameters. Parameter order never changes the key and empty values are
// dropped.
func CacheKey(endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return endpoint + ":" + strings.Join(parts, "&")
}

func bikeCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("bike:%s", id)
}

func parseID(kind, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(domain.FieldError{
			Field:   kind + "_id",
			Message: "must be a valid UUID",
		})
	}
	return parsed, nil
}

// NewValidator returns a validator that reports json field names and
// understands decimal amounts in numeric tags like gt and gte.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	ve := domain.NewValidationError()
	for _, fe := range verrs {
		ve.Add(fe.Field(), fieldMessage(fe))
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

type nopEvents struct{}

func (nopEvents) RecordEvent(string) {}

func (nopEvents) RecordCacheLookup(bool) {}

// sortItems orders items by less, reversed for descending order. Equal
// items keep their incoming order.
func sortItems[T any](items []T, order domain.SortOrder, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if order == domain.SortAsc {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}
