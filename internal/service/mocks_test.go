package service

import (
	"context"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/security"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/mock"
)

// MockServiceRepo
type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) List(ctx context.Context, includeInactive bool) ([]domain.Service, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]domain.Service), args.Error(1)
}
func (m *MockServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}
func (m *MockServiceRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Service, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Service), args.Error(1)
}
func (m *MockServiceRepo) Create(ctx context.Context, svc *domain.Service) error {
	return m.Called(ctx, svc).Error(0)
}
func (m *MockServiceRepo) Update(ctx context.Context, svc *domain.Service) error {
	return m.Called(ctx, svc).Error(0)
}
func (m *MockServiceRepo) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockVehicleSizeRepo
type MockVehicleSizeRepo struct {
	mock.Mock
}

func (m *MockVehicleSizeRepo) List(ctx context.Context) ([]domain.VehicleSize, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VehicleSize), args.Error(1)
}
func (m *MockVehicleSizeRepo) GetByID(ctx context.Context, id string) (*domain.VehicleSize, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleSize), args.Error(1)
}
func (m *MockVehicleSizeRepo) Create(ctx context.Context, size *domain.VehicleSize) error {
	return m.Called(ctx, size).Error(0)
}
func (m *MockVehicleSizeRepo) Update(ctx context.Context, size *domain.VehicleSize) error {
	return m.Called(ctx, size).Error(0)
}
func (m *MockVehicleSizeRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCustomerRepo) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}

// MockTimeSlotRepo
type MockTimeSlotRepo struct {
	mock.Mock
}

func (m *MockTimeSlotRepo) GetByID(ctx context.Context, id string) (*domain.TimeSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeSlot), args.Error(1)
}
func (m *MockTimeSlotRepo) ListByDateRange(ctx context.Context, from, to string) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}
func (m *MockTimeSlotRepo) Create(ctx context.Context, slot *domain.TimeSlot) error {
	return m.Called(ctx, slot).Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *MockBookingRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetByClientRequestID(ctx context.Context, clientRequestID string) (*domain.Booking, error) {
	args := m.Called(ctx, clientRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) List(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByDate(ctx context.Context, date string, status domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, date, status)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, reference string, status domain.BookingStatus) error {
	return m.Called(ctx, reference, status).Error(0)
}
func (m *MockBookingRepo) MarkCompletedBefore(ctx context.Context, date string) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
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

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	return m.Called(ctx, customer, booking).Error(0)
}
func (m *MockEmailService) SendBookingReminder(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	return m.Called(ctx, customer, booking).Error(0)
}
func (m *MockEmailService) SendAdminBookingNotice(ctx context.Context, customer *domain.Customer, booking *domain.Booking) error {
	return m.Called(ctx, customer, booking).Error(0)
}

// MockDistance
type MockDistance struct {
	mock.Mock
}

func (m *MockDistance) DistanceMiles(ctx context.Context, postcode string) (float64, error) {
	args := m.Called(ctx, postcode)
	return args.Get(0).(float64), args.Error(1)
}

// MockMailSender
type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rest.Response), args.Error(1)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(customer *domain.Customer) (string, time.Time, error) {
	args := m.Called(customer)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenManager) ValidateToken(token string) (*security.CustomerClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.CustomerClaims), args.Error(1)
}
