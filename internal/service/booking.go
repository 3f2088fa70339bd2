package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const referencePrefix = "DT-"

type bookingService struct {
	bookingRepo  repository.BookingRepository
	customerRepo repository.CustomerRepository
	slotRepo     repository.TimeSlotRepository
	pricing      PricingService
	emailSvc     EmailService
	now          func() time.Time
}

func NewBookingService(bookingRepo repository.BookingRepository, customerRepo repository.CustomerRepository, slotRepo repository.TimeSlotRepository, pricing PricingService, emailSvc EmailService) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		slotRepo:     slotRepo,
		pricing:      pricing,
		emailSvc:     emailSvc,
		now:          time.Now,
	}
}

// CreateBooking validates the request, prices it, and stores the booking with
// its slot reservation. A request carrying a client request ID that was
// already processed returns the original booking.
func (s *bookingService) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "clientRequestID", req.ClientRequestID, "customerID", req.CustomerID, "slotID", req.TimeSlotID)

	req.Address.Postcode = domain.NormalizePostcode(req.Address.Postcode)
	req.Contact.Email = strings.TrimSpace(req.Contact.Email)
	if errs := domain.ValidateBookingRequest(req, s.now()); len(errs) > 0 {
		err := domain.NewValidationError(errs)
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}

	if existing, err := s.findProcessed(ctx, req); err != nil || existing != nil {
		if err != nil {
			logger.ExitMethodWithError("bookingService.CreateBooking", err, "clientRequestID", req.ClientRequestID)
			return nil, err
		}
		logger.Info("Duplicate booking request answered with original booking", "clientRequestID", req.ClientRequestID, "reference", existing.Reference)
		return existing, nil
	}

	slot, err := s.slotRepo.GetByID(ctx, req.TimeSlotID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldTimeSlot: "choose a time slot"})
	}
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "slot lookup")
		return nil, err
	}
	if slot.Date != req.ScheduledDate {
		return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldTimeSlot: "that time slot is not on the chosen date"})
	}
	if !slot.Available() {
		logger.ExitMethodWithError("bookingService.CreateBooking", domain.ErrSlotUnavailable, "slotID", slot.ID)
		return nil, domain.ErrSlotUnavailable
	}

	breakdown, err := s.pricing.Quote(ctx, domain.QuoteRequest{
		ServiceIDs:    req.ServiceIDs,
		VehicleSizeID: req.Vehicle.SizeID,
		Postcode:      req.Address.Postcode,
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "pricing")
		return nil, err
	}

	customer, err := s.resolveCustomer(ctx, req)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "customer")
		return nil, err
	}

	booking := &domain.Booking{
		Reference:            newReference(),
		CustomerID:           customer.ID,
		ClientRequestID:      req.ClientRequestID,
		Lines:                make([]domain.BookingLine, 0, len(breakdown.Lines)),
		Vehicle:              req.Vehicle,
		Address:              req.Address,
		ScheduledDate:        req.ScheduledDate,
		TimeSlotID:           req.TimeSlotID,
		CustomerNotes:        strings.TrimSpace(req.CustomerNotes),
		ServiceSubtotalPence: breakdown.ServiceSubtotalPence,
		TravelDistanceMiles:  breakdown.TravelDistanceMiles,
		TravelSurchargePence: breakdown.TravelSurchargePence,
		TotalPence:           breakdown.TotalPence,
		Status:               domain.BookingStatusConfirmed,
	}
	for _, l := range breakdown.Lines {
		booking.Lines = append(booking.Lines, domain.BookingLine{ServiceID: l.ServiceID, ServiceName: l.ServiceName, PricePence: l.PricePence})
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateRequest) {
			// A concurrent retry won the insert.
			return s.replayFor(ctx, req.ClientRequestID, customer.ID)
		}
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "reason", "persist")
		return nil, err
	}

	s.notify(ctx, customer, booking)

	logger.ExitMethod("bookingService.CreateBooking", "reference", booking.Reference, "totalPence", booking.TotalPence)
	return booking, nil
}

// findProcessed returns the booking already stored under the request's client
// request ID. A stored booking that belongs to someone else is never handed
// back; the key is reported as taken instead.
func (s *bookingService) findProcessed(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if req.ClientRequestID == "" {
		return nil, nil
	}
	b, err := s.bookingRepo.GetByClientRequestID(ctx, req.ClientRequestID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if req.CustomerID != "" {
		if b.CustomerID != req.CustomerID {
			return nil, foreignReplay(req.ClientRequestID)
		}
		return b, nil
	}

	owner, err := s.customerRepo.GetByID(ctx, b.CustomerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, foreignReplay(req.ClientRequestID)
	}
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(owner.Email, req.Contact.Email) {
		return nil, foreignReplay(req.ClientRequestID)
	}
	return b, nil
}

// replayFor loads the booking that won a concurrent insert under the same key.
func (s *bookingService) replayFor(ctx context.Context, clientRequestID, customerID string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByClientRequestID(ctx, clientRequestID)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, foreignReplay(clientRequestID)
	}
	return b, nil
}

func foreignReplay(clientRequestID string) error {
	logger.Warn("Client request ID reused by a different customer", "clientRequestID", clientRequestID)
	return domain.ErrDuplicateRequest
}

// resolveCustomer returns the signed-in customer, the customer already known by
// the contact email, or a new guest account.
func (s *bookingService) resolveCustomer(ctx context.Context, req domain.BookingRequest) (*domain.Customer, error) {
	if req.CustomerID != "" {
		return s.customerRepo.GetByID(ctx, req.CustomerID)
	}

	existing, err := s.customerRepo.GetByEmail(ctx, req.Contact.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := randomPasswordHash()
	if err != nil {
		return nil, err
	}
	guest := &domain.Customer{
		Email:        req.Contact.Email,
		FullName:     strings.TrimSpace(req.Contact.FullName),
		Phone:        strings.TrimSpace(req.Contact.Phone),
		PasswordHash: hash,
		Role:         domain.CustomerRoleCustomer,
		IsGuest:      true,
	}
	if err := s.customerRepo.Create(ctx, guest); err != nil {
		if errors.Is(err, domain.ErrEmailInUse) {
			return s.customerRepo.GetByEmail(ctx, req.Contact.Email)
		}
		return nil, err
	}
	logger.Info("Guest account created for booking", "customerID", guest.ID)
	return guest, nil
}

// randomPasswordHash gives guest accounts an unguessable password until they set their own.
func randomPasswordHash() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(base64.RawURLEncoding.EncodeToString(buf)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func newReference() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return referencePrefix + id[:8]
}

// notify sends booking emails. Failures are logged and never fail the booking.
func (s *bookingService) notify(ctx context.Context, customer *domain.Customer, booking *domain.Booking) {
	if err := s.emailSvc.SendBookingConfirmation(ctx, customer, booking); err != nil {
		logger.Warn("Failed to send booking confirmation", "reference", booking.Reference, "error", err)
	}
	if err := s.emailSvc.SendAdminBookingNotice(ctx, customer, booking); err != nil {
		logger.Warn("Failed to send admin booking notice", "reference", booking.Reference, "error", err)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, requesterID string, isAdmin bool, reference string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.CustomerID != requesterID {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return s.bookingRepo.ListByCustomer(ctx, customerID)
}

func (s *bookingService) ListBookings(ctx context.Context, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	if status != "" && !status.Valid() {
		return nil, 0, domain.NewValidationError(domain.FieldErrors{"status": "unknown booking status"})
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.bookingRepo.List(ctx, status, page, pageSize)
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, reference string, status domain.BookingStatus) error {
	logger.EnterMethod("bookingService.UpdateBookingStatus", "reference", reference, "status", status)
	if !status.Valid() {
		return domain.NewValidationError(domain.FieldErrors{"status": "unknown booking status"})
	}
	if err := s.bookingRepo.UpdateStatus(ctx, reference, status); err != nil {
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "reference", reference)
		return err
	}
	logger.ExitMethod("bookingService.UpdateBookingStatus", "reference", reference)
	return nil
}

// SendReminders emails every customer with a confirmed booking on date. It
// keeps going past individual failures and returns how many were sent.
func (s *bookingService) SendReminders(ctx context.Context, date string) (int, error) {
	bookings, err := s.bookingRepo.ListByDate(ctx, date, domain.BookingStatusConfirmed)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range bookings {
		b := &bookings[i]
		customer, err := s.customerRepo.GetByID(ctx, b.CustomerID)
		if err != nil {
			logger.Warn("Reminder skipped, customer lookup failed", "reference", b.Reference, "error", err)
			continue
		}
		if err := s.emailSvc.SendBookingReminder(ctx, customer, b); err != nil {
			logger.Warn("Reminder email failed", "reference", b.Reference, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *bookingService) MarkCompleted(ctx context.Context, today string) (int64, error) {
	return s.bookingRepo.MarkCompletedBefore(ctx, today)
}
