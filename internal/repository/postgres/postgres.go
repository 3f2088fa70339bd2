package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
	repository.ServiceRepository
	repository.VehicleSizeRepository
	repository.CustomerRepository
	repository.TimeSlotRepository
	repository.BookingRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ServiceRepository:     NewServiceRepository(db),
		VehicleSizeRepository: NewVehicleSizeRepository(db),
		CustomerRepository:    NewCustomerRepository(db),
		TimeSlotRepository:    NewTimeSlotRepository(db),
		BookingRepository:     NewBookingRepository(db),
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
