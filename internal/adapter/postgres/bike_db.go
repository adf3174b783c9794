package postgres

import (
	"context"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type BikeRepository struct {
	q querier
}

const bikeColumns = `id, make, model, bike_number, registration_number, chassis_number, engine_number,
	type, year, color, mileage, status, assigned_to, total_assignments, purchase_price, purchase_date,
	current_value, last_service_date, created_at, updated_at`

func scanBike(row rowScanner) (*domain.Bike, error) {
	var bike domain.Bike
	err := row.Scan(
		&bike.ID,
		&bike.Make,
		&bike.Model,
		&bike.BikeNumber,
		&bike.RegistrationNumber,
		&bike.ChassisNumber,
		&bike.EngineNumber,
		&bike.Type,
		&bike.Year,
		&bike.Color,
		&bike.Mileage,
		&bike.Status,
		&bike.AssignedTo,
		&bike.TotalAssignments,
		&bike.PurchasePrice,
		&bike.PurchaseDate,
		&bike.CurrentValue,
		&bike.LastServiceDate,
		&bike.CreatedAt,
		&bike.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bike, nil
}

func (r *BikeRepository) Create(ctx context.Context, bike *domain.Bike) error {
	query := `INSERT INTO bikes (id, make, model, bike_number, registration_number, chassis_number,
		engine_number, type, year, color, mileage, status, assigned_to, total_assignments,
		purchase_price, purchase_date, current_value, last_service_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.q.ExecContext(ctx, query,
		bike.ID,
		bike.Make,
		bike.Model,
		bike.BikeNumber,
		bike.RegistrationNumber,
		bike.ChassisNumber,
		bike.EngineNumber,
		bike.Type,
		bike.Year,
		bike.Color,
		bike.Mileage,
		bike.Status,
		bike.AssignedTo,
		bike.TotalAssignments,
		bike.PurchasePrice,
		bike.PurchaseDate,
		bike.CurrentValue,
		bike.LastServiceDate,
		bike.CreatedAt,
		bike.UpdatedAt,
	)
	return mapError(err, "bike")
}

func (r *BikeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes WHERE id = $1`
	bike, err := scanBike(r.q.QueryRowContext(ctx, query, id))
	return bike, mapError(err, "bike")
}

func (r *BikeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Bike, error) {
	query := `SELECT ` + bikeColumns + ` FROM bikes WHERE id = $1 FOR UPDATE`
	bike, err := scanBike(r.q.QueryRowContext(ctx, query, id))
	return bike, mapError(err, "bike")
}

func (r *BikeRepository) Update(ctx context.Context, bike *domain.Bike) error {
	query := `UPDATE bikes
		SET
			make = $1,
			model = $2,
			bike_number = $3,
			registration_number = $4,
			chassis_number = $5,
			engine_number = $6,
			type = $7,
			year = $8,
			color = $9,
			mileage = $10,
			status = $11,
			assigned_to = $12,
			total_assignments = $13,
			purchase_price = $14,
			purchase_date = $15,
			current_value = $16,
			last_service_date = $17,
			updated_at = $18
		WHERE id = $19`

	res, err := r.q.ExecContext(ctx, query,
		bike.Make,
		bike.Model,
		bike.BikeNumber,
		bike.RegistrationNumber,
		bike.ChassisNumber,
		bike.EngineNumber,
		bike.Type,
		bike.Year,
		bike.Color,
		bike.Mileage,
		bike.Status,
		bike.AssignedTo,
		bike.TotalAssignments,
		bike.PurchasePrice,
		bike.PurchaseDate,
		bike.CurrentValue,
		bike.LastServiceDate,
		bike.UpdatedAt,
		bike.ID,
	)
	if err != nil {
		return mapError(err, "bike")
	}
	return expectOne(res, "bike")
}

func (r *BikeRepository) List(ctx context.Context, filter domain.BikeFilter) ([]*domain.Bike, error) {
	var w where
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Type != "" {
		w.add("type = $%d", filter.Type)
	}
	w.search(filter.Search, "make", "model", "bike_number", "registration_number")

	rows, err := r.q.QueryContext(ctx, `SELECT `+bikeColumns+` FROM bikes`+w.String()+` ORDER BY seq`, w.args...)
	if err != nil {
		return nil, mapError(err, "bike")
	}
	defer rows.Close()

	bikes := []*domain.Bike{}
	for rows.Next() {
		bike, err := scanBike(rows)
		if err != nil {
			return nil, err
		}
		bikes = append(bikes, bike)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bikes, nil
}
