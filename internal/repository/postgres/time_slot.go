package postgres

import (
	"context"
	"database/sql"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/repository"

	"github.com/google/uuid"
)

type timeSlotRepository struct {
	db *sql.DB
}

func NewTimeSlotRepository(db *sql.DB) repository.TimeSlotRepository {
	return &timeSlotRepository{db: db}
}

func (r *timeSlotRepository) GetByID(ctx context.Context, id string) (*domain.TimeSlot, error) {
	t := &domain.TimeSlot{}
	query := `SELECT id, to_char(slot_date, 'YYYY-MM-DD'), start_time, end_time, capacity, booked_count FROM time_slots WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Date, &t.StartTime, &t.EndTime, &t.Capacity, &t.BookedCount)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// ListByDateRange returns slots dated from..to inclusive, ordered by date and start time.
func (r *timeSlotRepository) ListByDateRange(ctx context.Context, from, to string) ([]domain.TimeSlot, error) {
	query := `SELECT id, to_char(slot_date, 'YYYY-MM-DD'), start_time, end_time, capacity, booked_count
	          FROM time_slots WHERE slot_date BETWEEN $1 AND $2 ORDER BY slot_date, start_time`
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []domain.TimeSlot{}
	for rows.Next() {
		var t domain.TimeSlot
		if err := rows.Scan(&t.ID, &t.Date, &t.StartTime, &t.EndTime, &t.Capacity, &t.BookedCount); err != nil {
			return nil, err
		}
		slots = append(slots, t)
	}
	return slots, rows.Err()
}

func (r *timeSlotRepository) Create(ctx context.Context, t *domain.TimeSlot) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `INSERT INTO time_slots (id, slot_date, start_time, end_time, capacity, booked_count) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.Date, t.StartTime, t.EndTime, t.Capacity, t.BookedCount)
	return err
}
