package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var assignmentSortFields = []string{"created_at", "start_date", "end_date", "total_amount", "pending_amount"}

// AssignmentService owns the rental lifecycle. Every operation that touches
// an assignment together with its bike and rider runs in one transaction.
type AssignmentService struct {
	base
}

func NewAssignmentService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) *AssignmentService {
	return &AssignmentService{base: newBase(store, logger, validate, cache, events, policy)}
}

func (s *AssignmentService) CreateAssignment(ctx context.Context, terms domain.AssignmentTerms) (*domain.Assignment, error) {
	const op = "services.CreateAssignment"

	if err := s.validateStruct(terms); err != nil {
		s.logger.Error("Assignment validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	now := s.now()
	assignment := s.draftAssignment(terms, now)
	if !assignment.EndDate.After(assignment.StartDate) {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "end_date",
			Message: "must be after start_date",
		})
	}

	var scheduled int
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		// Bike before rider, the same order close takes its locks in.
		bike, bikeErr := tx.Bikes().GetForUpdate(ctx, terms.BikeID)
		if bikeErr != nil && !errors.Is(bikeErr, domain.ErrNotFound) {
			return bikeErr
		}

		rider, err := tx.Riders().GetForUpdate(ctx, terms.RiderID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: rider %s does not exist", domain.ErrNotEligible, terms.RiderID)
		}
		if err != nil {
			return err
		}
		if rider.Status != domain.RiderActive {
			return fmt.Errorf("%w: rider status is %s", domain.ErrNotEligible, rider.Status)
		}
		if !rider.LicenseValid(now) {
			return fmt.Errorf("%w: driving license expired on %s", domain.ErrNotEligible, rider.LicenseExpiry.Format("2006-01-02"))
		}

		if bikeErr != nil {
			return fmt.Errorf("%w: bike %s does not exist", domain.ErrNotAvailable, terms.BikeID)
		}
		if bike.Status != domain.BikeAvailable {
			return fmt.Errorf("%w: bike status is %s", domain.ErrNotAvailable, bike.Status)
		}

		active, err := tx.Assignments().CountActiveByRider(ctx, rider.ID)
		if err != nil {
			return err
		}
		if active >= s.policy.MaxActiveAssignments {
			return fmt.Errorf("%w: rider already holds %d active assignments", domain.ErrLimitExceeded, active)
		}

		if err := tx.Assignments().Create(ctx, assignment); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("%w: %v", domain.ErrNotAvailable, err)
			}
			return err
		}

		bike.Assign(rider.ID)
		bike.UpdatedAt = now
		if err := tx.Bikes().Update(ctx, bike); err != nil {
			return err
		}

		rider.TotalAssignments++
		rider.CurrentAssignments++
		rider.UpdatedAt = now
		if err := tx.Riders().Update(ctx, rider); err != nil {
			return err
		}

		if terms.GenerateSchedule {
			payments, err := domain.BuildPaymentSchedule(assignment, now)
			if err != nil {
				return err
			}
			for _, p := range payments {
				if err := tx.Payments().Create(ctx, p); err != nil {
					return err
				}
			}
			scheduled = len(payments)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create assignment", map[string]interface{}{
			"error":    err.Error(),
			"rider_id": terms.RiderID,
			"bike_id":  terms.BikeID,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateAggregates(ctx, bikeCacheKey(terms.BikeID))
	s.events.RecordEvent("assignment_created")

	s.logger.Info("Assignment created successfully", map[string]interface{}{
		"assignment_id":      assignment.ID,
		"rider_id":           assignment.RiderID,
		"bike_id":            assignment.BikeID,
		"total_amount":       assignment.TotalAmount.String(),
		"scheduled_payments": scheduled,
	})
	return assignment, nil
}

func (s *AssignmentService) draftAssignment(terms domain.AssignmentTerms, now time.Time) *domain.Assignment {
	start := now
	if terms.StartDate != nil {
		start = *terms.StartDate
	}
	end := domain.DefaultEndDate(start, terms.TenureMonths)
	if terms.EndDate != nil {
		end = *terms.EndDate
	}

	a := &domain.Assignment{
		ID:              uuid.New(),
		RiderID:         terms.RiderID,
		BikeID:          terms.BikeID,
		TenureMonths:    terms.TenureMonths,
		MonthlyCharge:   terms.MonthlyCharge,
		SecurityDeposit: terms.SecurityDeposit,
		LateFeePerDay:   lateFeeOrDefault(terms.LateFeePerDay, s.policy.DefaultLateFeePerDay),
		PaidAmount:      decimal.Zero,
		Status:          domain.AssignmentActive,
		StartDate:       start,
		EndDate:         end,
		Notes:           terms.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	a.Recalculate(now)
	return a
}

// TerminateAssignment ends an active rental early and frees the bike.
// Calling it on an assignment that is already closed changes nothing.
func (s *AssignmentService) TerminateAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	return s.close(ctx, assignmentID, domain.AssignmentTerminated)
}

// CompleteAssignment closes a rental at the end of its tenure.
func (s *AssignmentService) CompleteAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	return s.close(ctx, assignmentID, domain.AssignmentCompleted)
}

func (s *AssignmentService) close(ctx context.Context, assignmentID string, status domain.AssignmentStatus) (*domain.Assignment, error) {
	const op = "services.CloseAssignment"

	id, err := parseID("assignment", assignmentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		assignment *domain.Assignment
		changed    bool
	)
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		a, err := tx.Assignments().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		assignment = a
		if !a.Close(status, now) {
			return nil
		}
		changed = true
		a.UpdatedAt = now
		if err := tx.Assignments().Update(ctx, a); err != nil {
			return err
		}

		bike, err := tx.Bikes().GetForUpdate(ctx, a.BikeID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("Assignment references missing bike", map[string]interface{}{
				"assignment_id": a.ID,
				"bike_id":       a.BikeID,
			})
		case err != nil:
			return err
		case bike.Release(a.RiderID):
			bike.UpdatedAt = now
			if err := tx.Bikes().Update(ctx, bike); err != nil {
				return err
			}
		}

		rider, err := tx.Riders().GetForUpdate(ctx, a.RiderID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("Assignment references missing rider", map[string]interface{}{
				"assignment_id": a.ID,
				"rider_id":      a.RiderID,
			})
		case err != nil:
			return err
		default:
			rider.Release()
			rider.UpdatedAt = now
			if err := tx.Riders().Update(ctx, rider); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to close assignment", map[string]interface{}{
			"error":         err.Error(),
			"assignment_id": assignmentID,
			"status":        status,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	assignment.Recalculate(now)
	if !changed {
		s.logger.Info("Assignment already closed", map[string]interface{}{
			"assignment_id": assignmentID,
			"status":        assignment.Status,
		})
		return assignment, nil
	}

	s.invalidateAggregates(ctx, bikeCacheKey(assignment.BikeID))
	s.events.RecordEvent("assignment_" + string(status))

	s.logger.Info("Assignment closed", map[string]interface{}{
		"assignment_id": assignmentID,
		"status":        status,
	})
	return assignment, nil
}

func (s *AssignmentService) GetAssignment(ctx context.Context, assignmentID string) (*domain.Assignment, error) {
	id, err := parseID("assignment", assignmentID)
	if err != nil {
		return nil, err
	}

	a, err := s.store.Assignments().GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get assignment", map[string]interface{}{
			"error":         err.Error(),
			"assignment_id": assignmentID,
		})
		return nil, fmt.Errorf("services.GetAssignment: %w", err)
	}
	a.Recalculate(s.now())
	return a, nil
}

// ListAssignments evaluates payment status at read time, so the payment
// status filter sees overdue rentals even if nothing was written since.
func (s *AssignmentService) ListAssignments(ctx context.Context, filter domain.AssignmentFilter, params domain.ListParams) ([]*domain.Assignment, domain.Pagination, error) {
	params.Normalize(assignmentSortFields, "created_at")

	stored := filter
	stored.PaymentStatus = ""
	all, err := s.store.Assignments().List(ctx, stored)
	if err != nil {
		s.logger.Error("Failed to list assignments", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.Pagination{}, fmt.Errorf("services.ListAssignments: %w", err)
	}

	now := s.now()
	list := make([]*domain.Assignment, 0, len(all))
	for _, a := range all {
		a.Recalculate(now)
		if filter.PaymentStatus != "" && a.PaymentStatus != filter.PaymentStatus {
			continue
		}
		list = append(list, a)
	}

	sortItems(list, params.SortOrder, func(a, b *domain.Assignment) bool {
		switch params.SortBy {
		case "start_date":
			return a.StartDate.Before(b.StartDate)
		case "end_date":
			return a.EndDate.Before(b.EndDate)
		case "total_amount":
			return a.TotalAmount.LessThan(b.TotalAmount)
		case "pending_amount":
			return a.PendingAmount.LessThan(b.PendingAmount)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return domain.Paginate(list, params), domain.NewPagination(params, len(list)), nil
}

func lateFeeOrDefault(fee *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if fee == nil {
		return def
	}
	return *fee
}
