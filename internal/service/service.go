package service

import (
	"context"
	"time"

	"mobile-detailing-backend/internal/domain"
)

type CatalogService interface {
	ListServices(ctx context.Context) ([]domain.Service, error)
	ListVehicleSizes(ctx context.Context) ([]domain.VehicleSize, error)
	ListAvailableSlots(ctx context.Context, from, to string) ([]domain.TimeSlot, error)

	// Back-office
	ListAllServices(ctx context.Context) ([]domain.Service, error)
	CreateService(ctx context.Context, svc *domain.Service) error
	UpdateService(ctx context.Context, svc *domain.Service) error
	DeactivateService(ctx context.Context, id string) error
	CreateVehicleSize(ctx context.Context, size *domain.VehicleSize) error
	UpdateVehicleSize(ctx context.Context, size *domain.VehicleSize) error
	DeleteVehicleSize(ctx context.Context, id string) error
	ListTimeSlots(ctx context.Context, from, to string) ([]domain.TimeSlot, error)
	CreateTimeSlot(ctx context.Context, slot *domain.TimeSlot) error
}

type PricingService interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
	GetBooking(ctx context.Context, requesterID string, isAdmin bool, reference string) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListBookings(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)
	UpdateBookingStatus(ctx context.Context, reference string, status domain.BookingStatus) error

	// Scheduled work
	SendReminders(ctx context.Context, date string) (int, error)
	MarkCompleted(ctx context.Context, today string) (int64, error)
}

type CustomerService interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error)
	UpdateCustomer(ctx context.Context, id string, contact domain.Contact) (*domain.Customer, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Customer, string, time.Time, error)
	CurrentUser(ctx context.Context, customerID string) (*domain.Customer, error)
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error
	SendBookingReminder(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error
	SendAdminBookingNotice(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error
}

// DistanceCalculator measures travel distance from the business base to a postcode.
type DistanceCalculator interface {
	DistanceMiles(ctx context.Context, postcode string) (float64, error)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
