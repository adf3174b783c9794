package services

import (
	"context"
	"fmt"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var paymentSortFields = []string{"created_at", "due_date", "amount"}

// BillingService records payments and keeps assignment balances in step
// with them.
type BillingService struct {
	base
}

func NewBillingService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) *BillingService {
	return &BillingService{base: newBase(store, logger, validate, cache, events, policy)}
}

func (s *BillingService) RecordPayment(ctx context.Context, in domain.PaymentInput) (*domain.PaymentReceipt, error) {
	const op = "services.RecordPayment"

	if err := s.validateStruct(in); err != nil {
		s.logger.Error("Payment validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.PaymentPending
	}
	if in.Status == domain.PaymentPaid && in.Method == "" {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "payment_method",
			Message: "is required for paid payments",
		})
	}

	now := s.now()
	due := now
	if in.DueDate != nil {
		due = *in.DueDate
	}
	payment := &domain.Payment{
		ID:             uuid.New(),
		AssignmentID:   in.AssignmentID,
		RiderID:        in.RiderID,
		Type:           in.Type,
		Amount:         in.Amount,
		DueDate:        due,
		Status:         domain.PaymentPending,
		Method:         in.Method,
		TransactionRef: in.TransactionRef,
		LateFee:        decimal.Zero,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.Status == domain.PaymentPaid {
		payment.MarkPaid(in.Method, in.TransactionRef, now)
	}

	var assignment *domain.Assignment
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		a, err := tx.Assignments().GetForUpdate(ctx, in.AssignmentID)
		if err != nil {
			return err
		}
		if _, err := tx.Riders().GetByID(ctx, in.RiderID); err != nil {
			return err
		}
		if a.RiderID != in.RiderID {
			return domain.NewValidationError(domain.FieldError{
				Field:   "rider_id",
				Message: "does not match the assignment's rider",
			})
		}

		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		if payment.IsPaid() {
			a.ApplyPayment(payment, now)
			a.UpdatedAt = now
			if err := tx.Assignments().Update(ctx, a); err != nil {
				return err
			}
		}
		assignment = a
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to record payment", map[string]interface{}{
			"error":         err.Error(),
			"assignment_id": in.AssignmentID,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	assignment.Recalculate(now)
	s.invalidateAggregates(ctx)
	s.events.RecordEvent("payment_recorded")

	s.logger.Info("Payment recorded", map[string]interface{}{
		"payment_id":     payment.ID,
		"assignment_id":  assignment.ID,
		"amount":         payment.Amount.String(),
		"status":         payment.Status,
		"payment_status": assignment.PaymentStatus,
	})
	return &domain.PaymentReceipt{Payment: payment, Assignment: assignment}, nil
}

// MarkPaymentPaid settles an open payment. Settling an already paid
// payment changes nothing.
func (s *BillingService) MarkPaymentPaid(ctx context.Context, paymentID string, method domain.PaymentMethod, ref string) (*domain.PaymentReceipt, error) {
	const op = "services.MarkPaymentPaid"

	id, err := parseID("payment", paymentID)
	if err != nil {
		return nil, err
	}
	if method == "" {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "payment_method",
			Message: "is required",
		})
	}
	if err := s.validate.Var(string(method), "oneof=cash card upi bank_transfer wallet"); err != nil {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "payment_method",
			Message: "must be one of: cash card upi bank_transfer wallet",
		})
	}

	now := s.now()
	var receipt domain.PaymentReceipt
	changed := false
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		p, err := tx.Payments().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		a, err := tx.Assignments().GetForUpdate(ctx, p.AssignmentID)
		if err != nil {
			return err
		}
		receipt = domain.PaymentReceipt{Payment: p, Assignment: a}

		if p.IsPaid() {
			return nil
		}
		if !p.MarkPaid(method, ref, now) {
			return fmt.Errorf("%w: payment is %s", domain.ErrConflict, p.Status)
		}
		changed = true
		p.UpdatedAt = now
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}

		a.ApplyPayment(p, now)
		a.UpdatedAt = now
		return tx.Assignments().Update(ctx, a)
	})
	if err != nil {
		s.logger.Error("Failed to mark payment paid", map[string]interface{}{
			"error":      err.Error(),
			"payment_id": paymentID,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	receipt.Assignment.Recalculate(now)
	if changed {
		s.invalidateAggregates(ctx)
		s.events.RecordEvent("payment_settled")
		s.logger.Info("Payment settled", map[string]interface{}{
			"payment_id":    paymentID,
			"assignment_id": receipt.Assignment.ID,
		})
	}
	return &receipt, nil
}

// RefundPayment reverses a paid payment and removes it from the
// assignment's paid amount. Refunding twice changes nothing.
func (s *BillingService) RefundPayment(ctx context.Context, paymentID string) (*domain.PaymentReceipt, error) {
	const op = "services.RefundPayment"

	id, err := parseID("payment", paymentID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var receipt domain.PaymentReceipt
	changed := false
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		p, err := tx.Payments().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		a, err := tx.Assignments().GetForUpdate(ctx, p.AssignmentID)
		if err != nil {
			return err
		}
		receipt = domain.PaymentReceipt{Payment: p, Assignment: a}

		if p.Status == domain.PaymentRefunded {
			return nil
		}
		if !p.Refund() {
			return fmt.Errorf("%w: only paid payments can be refunded, payment is %s", domain.ErrConflict, p.Status)
		}
		changed = true
		p.UpdatedAt = now
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}

		a.RevertPayment(p, now)
		a.UpdatedAt = now
		return tx.Assignments().Update(ctx, a)
	})
	if err != nil {
		s.logger.Error("Failed to refund payment", map[string]interface{}{
			"error":      err.Error(),
			"payment_id": paymentID,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	receipt.Assignment.Recalculate(now)
	if changed {
		s.invalidateAggregates(ctx)
		s.events.RecordEvent("payment_refunded")
		s.logger.Info("Payment refunded", map[string]interface{}{
			"payment_id":    paymentID,
			"assignment_id": receipt.Assignment.ID,
		})
	}
	return &receipt, nil
}

// AssessLateFees persists the overdue state and late fee of every open
// payment past its due date. Fees are derived from the due date, so
// running it repeatedly never charges the same days twice.
func (s *BillingService) AssessLateFees(ctx context.Context) (*domain.LateFeeReport, error) {
	const op = "services.AssessLateFees"

	now := s.now()
	report := &domain.LateFeeReport{TotalLateFees: decimal.Zero, AssessedAt: now}
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		payments, err := tx.Payments().List(ctx, domain.PaymentFilter{})
		if err != nil {
			return err
		}
		fees := newFeeLookup(tx)
		for _, p := range payments {
			if !p.IsOpen() {
				continue
			}
			report.Evaluated++
			fee, err := fees.perDay(ctx, p.AssignmentID)
			if err != nil {
				return err
			}
			if p.EvaluateOverdue(now, fee) {
				p.UpdatedAt = now
				if err := tx.Payments().Update(ctx, p); err != nil {
					return err
				}
				report.Updated++
			}
			report.TotalLateFees = report.TotalLateFees.Add(p.LateFee)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to assess late fees", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if report.Updated > 0 {
		s.invalidateAggregates(ctx)
	}
	s.logger.Info("Late fees assessed", map[string]interface{}{
		"evaluated": report.Evaluated,
		"updated":   report.Updated,
		"total":     report.TotalLateFees.String(),
	})
	return report, nil
}

func (s *BillingService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	id, err := parseID("payment", paymentID)
	if err != nil {
		return nil, err
	}

	p, err := s.store.Payments().GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get payment", map[string]interface{}{
			"error":      err.Error(),
			"payment_id": paymentID,
		})
		return nil, fmt.Errorf("services.GetPayment: %w", err)
	}

	fee, err := newFeeLookup(s.store).perDay(ctx, p.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("services.GetPayment: %w", err)
	}
	p.EvaluateOverdue(s.now(), fee)
	return p, nil
}

func (s *BillingService) ListPayments(ctx context.Context, filter domain.PaymentFilter, params domain.ListParams) ([]*domain.Payment, domain.Pagination, error) {
	params.Normalize(paymentSortFields, "created_at")

	stored := filter
	stored.Status = ""
	all, err := s.store.Payments().List(ctx, stored)
	if err != nil {
		s.logger.Error("Failed to list payments", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.Pagination{}, fmt.Errorf("services.ListPayments: %w", err)
	}

	now := s.now()
	fees := newFeeLookup(s.store)
	list := make([]*domain.Payment, 0, len(all))
	for _, p := range all {
		fee, err := fees.perDay(ctx, p.AssignmentID)
		if err != nil {
			return nil, domain.Pagination{}, fmt.Errorf("services.ListPayments: %w", err)
		}
		p.EvaluateOverdue(now, fee)
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		list = append(list, p)
	}

	sortItems(list, params.SortOrder, func(a, b *domain.Payment) bool {
		switch params.SortBy {
		case "due_date":
			return a.DueDate.Before(b.DueDate)
		case "amount":
			return a.Amount.LessThan(b.Amount)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return domain.Paginate(list, params), domain.NewPagination(params, len(list)), nil
}

// feeLookup memoizes the per-day late fee of each assignment. The fee is
// the stored term; the policy default was applied when the assignment was
// created, so a stored zero means the fee is waived.
type feeLookup struct {
	store ports.Store
	fees  map[uuid.UUID]decimal.Decimal
}

func newFeeLookup(store ports.Store) *feeLookup {
	return &feeLookup{store: store, fees: make(map[uuid.UUID]decimal.Decimal)}
}

func (l *feeLookup) perDay(ctx context.Context, assignmentID uuid.UUID) (decimal.Decimal, error) {
	if fee, ok := l.fees[assignmentID]; ok {
		return fee, nil
	}
	a, err := l.store.Assignments().GetByID(ctx, assignmentID)
	if err != nil {
		return decimal.Zero, err
	}
	l.fees[assignmentID] = a.LateFeePerDay
	return a.LateFeePerDay, nil
}
