package repository

import (
	"context"
	"time"

	"mobile-detailing-backend/internal/domain"
)

type ServiceRepository interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Service, error)
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Service, error)
	Create(ctx context.Context, svc *domain.Service) error
	Update(ctx context.Context, svc *domain.Service) error
	Deactivate(ctx context.Context, id string) error
}

type VehicleSizeRepository interface {
	List(ctx context.Context) ([]domain.VehicleSize, error)
	GetByID(ctx context.Context, id string) (*domain.VehicleSize, error)
	Create(ctx context.Context, size *domain.VehicleSize) error
	Update(ctx context.Context, size *domain.VehicleSize) error
	Delete(ctx context.Context, id string) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error)
}

type TimeSlotRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TimeSlot, error)
	ListByDateRange(ctx context.Context, from, to string) ([]domain.TimeSlot, error)
	Create(ctx context.Context, slot *domain.TimeSlot) error
}

type BookingRepository interface {
	// Create stores the booking with its lines and reserves one place in its
	// time slot, all in a single transaction.
	Create(ctx context.Context, b *domain.Booking) error
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	GetByClientRequestID(ctx context.Context, clientRequestID string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	List(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByDate(ctx context.Context, date string, status domain.BookingStatus) ([]domain.Booking, error)
	// UpdateStatus changes a booking's status, releasing its slot place on cancellation.
	UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) error
	MarkCompletedBefore(ctx context.Context, date string) (int64, error)
}

type FlowSnapshotRepository interface {
	Save(ctx context.Context, snap *domain.FlowSnapshot, ttl time.Duration) error
	Get(ctx context.Context, id string) (*domain.FlowSnapshot, error)
	Delete(ctx context.Context, id string) error
}
