package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type Store struct {
	db *sql.DB
	q  querier
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Riders() ports.RiderRepository {
	return &RiderRepository{q: s.q}
}

func (s *Store) Bikes() ports.BikeRepository {
	return &BikeRepository{q: s.q}
}

func (s *Store) Assignments() ports.AssignmentRepository {
	return &AssignmentRepository{q: s.q}
}

func (s *Store) Payments() ports.PaymentRepository {
	return &PaymentRepository{q: s.q}
}

func (s *Store) Maintenance() ports.MaintenanceRepository {
	return &MaintenanceRepository{q: s.q}
}

// WithinTx runs fn in a database transaction. Nested calls join the
// outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError translates driver errors into domain errors.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, entity)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s violates %s", domain.ErrConflict, entity, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s references a missing row", domain.ErrNotFound, entity)
		case "23502":
			return fmt.Errorf("%w: %s required field %s is missing", domain.ErrInvalidInput, entity, pqErr.Column)
		case "23514":
			return fmt.Errorf("%w: %s fails check %s", domain.ErrInvalidInput, entity, pqErr.Constraint)
		case "40P01", "40001":
			return fmt.Errorf("%w: %s lost a concurrent update, retry", domain.ErrConflict, entity)
		}
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// expectOne reports ErrNotFound when an update touched no rows.
func expectOne(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, entity)
	}
	return nil
}

// where accumulates filter clauses with positional arguments.
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

// search matches the same argument against several columns.
func (w *where) search(term string, columns ...string) {
	if term == "" {
		return
	}
	w.args = append(w.args, "%"+term+"%")
	n := len(w.args)
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", c, n))
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}
