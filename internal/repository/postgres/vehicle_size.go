package postgres

import (
	"context"
	"database/sql"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type vehicleSizeRepository struct {
	db *sql.DB
}

func NewVehicleSizeRepository(db *sql.DB) repository.VehicleSizeRepository {
	return &vehicleSizeRepository{db: db}
}

func (r *vehicleSizeRepository) List(ctx context.Context) ([]domain.VehicleSize, error) {
	query := `SELECT id, code, name, example_vehicles, multiplier, display_order FROM vehicle_sizes ORDER BY display_order, name`
	logger.DatabaseCall("SELECT", "table", "vehicle_sizes")
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("SELECT", err, "table", "vehicle_sizes")
		return nil, err
	}
	defer rows.Close()

	sizes := []domain.VehicleSize{}
	for rows.Next() {
		var v domain.VehicleSize
		if err := rows.Scan(&v.ID, &v.Code, &v.Name, pq.Array(&v.ExampleVehicles), &v.Multiplier, &v.DisplayOrder); err != nil {
			return nil, err
		}
		sizes = append(sizes, v)
	}
	return sizes, rows.Err()
}

func (r *vehicleSizeRepository) GetByID(ctx context.Context, id string) (*domain.VehicleSize, error) {
	v := &domain.VehicleSize{}
	query := `SELECT id, code, name, example_vehicles, multiplier, display_order FROM vehicle_sizes WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Code, &v.Name, pq.Array(&v.ExampleVehicles), &v.Multiplier, &v.DisplayOrder)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func (r *vehicleSizeRepository) Create(ctx context.Context, v *domain.VehicleSize) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	query := `INSERT INTO vehicle_sizes (id, code, name, example_vehicles, multiplier, display_order) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, v.ID, v.Code, v.Name, pq.Array(v.ExampleVehicles), v.Multiplier, v.DisplayOrder)
	return err
}

func (r *vehicleSizeRepository) Update(ctx context.Context, v *domain.VehicleSize) error {
	query := `UPDATE vehicle_sizes SET code=$1, name=$2, example_vehicles=$3, multiplier=$4, display_order=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, v.Code, v.Name, pq.Array(v.ExampleVehicles), v.Multiplier, v.DisplayOrder, v.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *vehicleSizeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicle_sizes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
