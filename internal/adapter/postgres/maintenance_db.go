package postgres

import (
	"context"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type MaintenanceRepository struct {
	q querier
}

const maintenanceColumns = `id, bike_id, type, category, priority, status, description,
	scheduled_date, completed_date, labor_cost, parts_cost, other_cost, total_cost,
	technician, notes, created_at, updated_at`

func scanMaintenance(row rowScanner) (*domain.Maintenance, error) {
	var m domain.Maintenance
	err := row.Scan(
		&m.ID,
		&m.BikeID,
		&m.Type,
		&m.Category,
		&m.Priority,
		&m.Status,
		&m.Description,
		&m.ScheduledDate,
		&m.CompletedDate,
		&m.Cost.Labor,
		&m.Cost.Parts,
		&m.Cost.Other,
		&m.Cost.Total,
		&m.Technician,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	query := `INSERT INTO maintenance (id, bike_id, type, category, priority, status, description,
		scheduled_date, completed_date, labor_cost, parts_cost, other_cost, total_cost,
		technician, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.q.ExecContext(ctx, query,
		m.ID,
		m.BikeID,
		m.Type,
		m.Category,
		m.Priority,
		m.Status,
		m.Description,
		m.ScheduledDate,
		m.CompletedDate,
		m.Cost.Labor,
		m.Cost.Parts,
		m.Cost.Other,
		m.Cost.Total,
		m.Technician,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return mapError(err, "maintenance")
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance WHERE id = $1`
	m, err := scanMaintenance(r.q.QueryRowContext(ctx, query, id))
	return m, mapError(err, "maintenance")
}

func (r *MaintenanceRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance WHERE id = $1 FOR UPDATE`
	m, err := scanMaintenance(r.q.QueryRowContext(ctx, query, id))
	return m, mapError(err, "maintenance")
}

func (r *MaintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) error {
	query := `UPDATE maintenance
		SET
			type = $1,
			category = $2,
			priority = $3,
			status = $4,
			description = $5,
			scheduled_date = $6,
			completed_date = $7,
			labor_cost = $8,
			parts_cost = $9,
			other_cost = $10,
			total_cost = $11,
			technician = $12,
			notes = $13,
			updated_at = $14
		WHERE id = $15`

	res, err := r.q.ExecContext(ctx, query,
		m.Type,
		m.Category,
		m.Priority,
		m.Status,
		m.Description,
		m.ScheduledDate,
		m.CompletedDate,
		m.Cost.Labor,
		m.Cost.Parts,
		m.Cost.Other,
		m.Cost.Total,
		m.Technician,
		m.Notes,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		return mapError(err, "maintenance")
	}
	return expectOne(res, "maintenance")
}

func (r *MaintenanceRepository) List(ctx context.Context, filter domain.MaintenanceFilter) ([]*domain.Maintenance, error) {
	var w where
	if filter.BikeID != nil {
		w.add("bike_id = $%d", *filter.BikeID)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Priority != "" {
		w.add("priority = $%d", filter.Priority)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+maintenanceColumns+` FROM maintenance`+w.String()+` ORDER BY seq`, w.args...)
	if err != nil {
		return nil, mapError(err, "maintenance")
	}
	defer rows.Close()

	list := []*domain.Maintenance{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
