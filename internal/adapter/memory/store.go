package memory

import (
	"context"
	"sync"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/google/uuid"
)

// table keeps rows by id plus insertion order, so listings are stable.
type table[T any] struct {
	rows  map[uuid.UUID]T
	order []uuid.UUID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

func (t *table[T]) get(id uuid.UUID) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id uuid.UUID, row T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) each(fn func(row T) bool) {
	for _, id := range t.order {
		if !fn(t.rows[id]) {
			return
		}
	}
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{
		rows:  make(map[uuid.UUID]T, len(t.rows)),
		order: make([]uuid.UUID, len(t.order)),
	}
	copy(c.order, t.order)
	for id, row := range t.rows {
		c.rows[id] = row
	}
	return c
}

type state struct {
	riders      *table[domain.Rider]
	bikes       *table[domain.Bike]
	assignments *table[domain.Assignment]
	payments    *table[domain.Payment]
	maintenance *table[domain.Maintenance]
}

func newState() *state {
	return &state{
		riders:      newTable[domain.Rider](),
		bikes:       newTable[domain.Bike](),
		assignments: newTable[domain.Assignment](),
		payments:    newTable[domain.Payment](),
		maintenance: newTable[domain.Maintenance](),
	}
}

func (s *state) clone() *state {
	return &state{
		riders:      s.riders.clone(),
		bikes:       s.bikes.clone(),
		assignments: s.assignments.clone(),
		payments:    s.payments.clone(),
		maintenance: s.maintenance.clone(),
	}
}

// Store is an in-process ports.Store. Transactions are serialized and
// rolled back by restoring a snapshot taken when they began.
type Store struct {
	mu   *sync.RWMutex
	txMu *sync.Mutex
	data *state
	inTx bool
}

func NewStore() *Store {
	return &Store{
		mu:   &sync.RWMutex{},
		txMu: &sync.Mutex{},
		data: newState(),
	}
}

func (s *Store) Riders() ports.RiderRepository {
	return &RiderRepository{store: s}
}

func (s *Store) Bikes() ports.BikeRepository {
	return &BikeRepository{store: s}
}

func (s *Store) Assignments() ports.AssignmentRepository {
	return &AssignmentRepository{store: s}
}

func (s *Store) Payments() ports.PaymentRepository {
	return &PaymentRepository{store: s}
}

func (s *Store) Maintenance() ports.MaintenanceRepository {
	return &MaintenanceRepository{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	tx := &Store{mu: s.mu, txMu: s.txMu, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		*s.data = *snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) read(fn func(d *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write applies fn under the write lock. Outside a transaction it also
// waits for any running transaction to finish.
func (s *Store) write(fn func(d *state) error) error {
	if !s.inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}
