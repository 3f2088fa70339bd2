package postgres

import (
	"context"
	"database/sql"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const serviceColumns = `id, name, COALESCE(description, ''), COALESCE(category, ''), duration_minutes, base_price_pence,
	price_small_pence, price_medium_pence, price_large_pence, price_extra_large_pence,
	active, display_order, created_on, updated_on`

type serviceRepository struct {
	db *sql.DB
}

func NewServiceRepository(db *sql.DB) repository.ServiceRepository {
	return &serviceRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (domain.Service, error) {
	var s domain.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.DurationMinutes, &s.BasePricePence,
		&s.Prices.SmallPence, &s.Prices.MediumPence, &s.Prices.LargePence, &s.Prices.ExtraLargePence,
		&s.Active, &s.DisplayOrder, &s.CreatedOn, &s.UpdatedOn)
	return s, err
}

func (r *serviceRepository) List(ctx context.Context, includeInactive bool) ([]domain.Service, error) {
	logger.EnterMethod("serviceRepository.List", "includeInactive", includeInactive)

	query := `SELECT ` + serviceColumns + ` FROM services`
	if !includeInactive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY display_order, name`

	logger.DatabaseCall("SELECT", "table", "services")
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.ExitMethodWithError("serviceRepository.List", err)
		return nil, err
	}
	defer rows.Close()

	services := []domain.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			logger.ExitMethodWithError("serviceRepository.List", err)
			return nil, err
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("serviceRepository.List", "count", len(services))
	return services, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	s, err := scanService(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// GetByIDs returns the services that exist among ids, in the order the ids were given.
func (r *serviceRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}

	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = ANY($1)`
	logger.DatabaseCall("SELECT", "table", "services", "ids", len(ids))
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.DatabaseResult("SELECT", err, "table", "services")
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]domain.Service, len(ids))
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Service, 0, len(byID))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *serviceRepository) Create(ctx context.Context, s *domain.Service) error {
	logger.EnterMethod("serviceRepository.Create", "name", s.Name)

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedOn = now
	s.UpdatedOn = now

	query := `INSERT INTO services (id, name, description, category, duration_minutes, base_price_pence,
	          price_small_pence, price_medium_pence, price_large_pence, price_extra_large_pence,
	          active, display_order, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Description, s.Category, s.DurationMinutes, s.BasePricePence,
		s.Prices.SmallPence, s.Prices.MediumPence, s.Prices.LargePence, s.Prices.ExtraLargePence,
		s.Active, s.DisplayOrder, s.CreatedOn, s.UpdatedOn)
	if err != nil {
		logger.ExitMethodWithError("serviceRepository.Create", err, "name", s.Name)
		return err
	}

	logger.ExitMethod("serviceRepository.Create", "serviceID", s.ID)
	return nil
}

func (r *serviceRepository) Update(ctx context.Context, s *domain.Service) error {
	s.UpdatedOn = time.Now().UTC()
	query := `UPDATE services SET name=$1, description=$2, category=$3, duration_minutes=$4, base_price_pence=$5,
	          price_small_pence=$6, price_medium_pence=$7, price_large_pence=$8, price_extra_large_pence=$9,
	          active=$10, display_order=$11, updated_on=$12 WHERE id=$13`
	res, err := r.db.ExecContext(ctx, query, s.Name, s.Description, s.Category, s.DurationMinutes, s.BasePricePence,
		s.Prices.SmallPence, s.Prices.MediumPence, s.Prices.LargePence, s.Prices.ExtraLargePence,
		s.Active, s.DisplayOrder, s.UpdatedOn, s.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Deactivate hides a service from the catalog. Past bookings keep referencing it.
func (r *serviceRepository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE services SET active = false, updated_on = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
