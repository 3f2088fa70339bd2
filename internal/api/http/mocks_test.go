package http

import (
	"context"
	"time"

	"mobile-detailing-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockCatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Service), args.Error(1)
}
func (m *MockCatalogService) ListVehicleSizes(ctx context.Context) ([]domain.VehicleSize, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VehicleSize), args.Error(1)
}
func (m *MockCatalogService) ListAvailableSlots(ctx context.Context, from, to string) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}
func (m *MockCatalogService) ListAllServices(ctx context.Context) ([]domain.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Service), args.Error(1)
}
func (m *MockCatalogService) CreateService(ctx context.Context, svc *domain.Service) error {
	return m.Called(ctx, svc).Error(0)
}
func (m *MockCatalogService) UpdateService(ctx context.Context, svc *domain.Service) error {
	return m.Called(ctx, svc).Error(0)
}
func (m *MockCatalogService) DeactivateService(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCatalogService) CreateVehicleSize(ctx context.Context, size *domain.VehicleSize) error {
	return m.Called(ctx, size).Error(0)
}
func (m *MockCatalogService) UpdateVehicleSize(ctx context.Context, size *domain.VehicleSize) error {
	return m.Called(ctx, size).Error(0)
}
func (m *MockCatalogService) DeleteVehicleSize(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCatalogService) ListTimeSlots(ctx context.Context, from, to string) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}
func (m *MockCatalogService) CreateTimeSlot(ctx context.Context, slot *domain.TimeSlot) error {
	return m.Called(ctx, slot).Error(0)
}

// MockPricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceBreakdown), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) GetBooking(ctx context.Context, requesterID string, isAdmin bool, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, requesterID, isAdmin, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListMyBookings(ctx context.Context, customerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookings(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, reference string, status domain.BookingStatus) error {
	return m.Called(ctx, reference, status).Error(0)
}
func (m *MockBookingService) SendReminders(ctx context.Context, date string) (int, error) {
	args := m.Called(ctx, date)
	return args.Int(0), args.Error(1)
}
func (m *MockBookingService) MarkCompleted(ctx context.Context, today string) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

// MockCustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerService) ListCustomers(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}
func (m *MockCustomerService) UpdateCustomer(ctx context.Context, id string, contact domain.Contact) (*domain.Customer, error) {
	args := m.Called(ctx, id, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.Customer, string, time.Time, error) {
	args := m.Called(ctx, email, password)
	var c *domain.Customer
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Customer)
	}
	return c, args.String(1), args.Get(2).(time.Time), args.Error(3)
}
func (m *MockAuthService) CurrentUser(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
