package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/repository"
)

const maxSlotWindowDays = 62

var clockTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type catalogService struct {
	serviceRepo repository.ServiceRepository
	sizeRepo    repository.VehicleSizeRepository
	slotRepo    repository.TimeSlotRepository
	now         func() time.Time
}

func NewCatalogService(serviceRepo repository.ServiceRepository, sizeRepo repository.VehicleSizeRepository, slotRepo repository.TimeSlotRepository) CatalogService {
	return &catalogService{
		serviceRepo: serviceRepo,
		sizeRepo:    sizeRepo,
		slotRepo:    slotRepo,
		now:         time.Now,
	}
}

func (s *catalogService) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.serviceRepo.List(ctx, false)
}

func (s *catalogService) ListAllServices(ctx context.Context) ([]domain.Service, error) {
	return s.serviceRepo.List(ctx, true)
}

func (s *catalogService) ListVehicleSizes(ctx context.Context) ([]domain.VehicleSize, error) {
	return s.sizeRepo.List(ctx)
}

// ListAvailableSlots returns slots with room left between from and to. Past
// dates are never offered.
func (s *catalogService) ListAvailableSlots(ctx context.Context, from, to string) ([]domain.TimeSlot, error) {
	today := s.now().UTC().Format(domain.DateLayout)
	if from == "" || from < today {
		from = today
	}
	all, err := s.ListTimeSlots(ctx, from, to)
	if err != nil {
		return nil, err
	}
	open := make([]domain.TimeSlot, 0, len(all))
	for _, slot := range all {
		if slot.Available() {
			open = append(open, slot)
		}
	}
	return open, nil
}

func (s *catalogService) ListTimeSlots(ctx context.Context, from, to string) ([]domain.TimeSlot, error) {
	if from == "" {
		from = s.now().UTC().Format(domain.DateLayout)
	}
	start, err := time.Parse(domain.DateLayout, from)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldErrors{"from": "enter a valid date"})
	}
	if to == "" {
		to = start.AddDate(0, 0, 14).Format(domain.DateLayout)
	}
	end, err := time.Parse(domain.DateLayout, to)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldErrors{"to": "enter a valid date"})
	}
	if end.Before(start) {
		return nil, domain.NewValidationError(domain.FieldErrors{"to": "must not be before from"})
	}
	if end.Sub(start) > maxSlotWindowDays*24*time.Hour {
		return nil, domain.NewValidationError(domain.FieldErrors{"to": "date range is too long"})
	}
	return s.slotRepo.ListByDateRange(ctx, from, to)
}

func (s *catalogService) CreateService(ctx context.Context, svc *domain.Service) error {
	if errs := validateService(svc); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return err
	}
	logger.Info("Service created", "serviceID", svc.ID, "name", svc.Name)
	return nil
}

func (s *catalogService) UpdateService(ctx context.Context, svc *domain.Service) error {
	if errs := validateService(svc); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}
	return s.serviceRepo.Update(ctx, svc)
}

func (s *catalogService) DeactivateService(ctx context.Context, id string) error {
	if err := s.serviceRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	logger.Info("Service deactivated", "serviceID", id)
	return nil
}

func (s *catalogService) CreateVehicleSize(ctx context.Context, size *domain.VehicleSize) error {
	if errs := validateVehicleSize(size); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}
	return s.sizeRepo.Create(ctx, size)
}

func (s *catalogService) UpdateVehicleSize(ctx context.Context, size *domain.VehicleSize) error {
	if errs := validateVehicleSize(size); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}
	return s.sizeRepo.Update(ctx, size)
}

func (s *catalogService) DeleteVehicleSize(ctx context.Context, id string) error {
	return s.sizeRepo.Delete(ctx, id)
}

func (s *catalogService) CreateTimeSlot(ctx context.Context, slot *domain.TimeSlot) error {
	if errs := validateTimeSlot(slot); len(errs) > 0 {
		return domain.NewValidationError(errs)
	}
	slot.BookedCount = 0
	return s.slotRepo.Create(ctx, slot)
}

func validateService(svc *domain.Service) domain.FieldErrors {
	errs := domain.FieldErrors{}
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		errs["name"] = "name is required"
	}
	if svc.DurationMinutes < 0 {
		errs["duration_minutes"] = "duration must not be negative"
	}
	p := svc.Prices
	for field, v := range map[string]int32{
		"base_price_pence":         svc.BasePricePence,
		"prices.small_pence":       p.SmallPence,
		"prices.medium_pence":      p.MediumPence,
		"prices.large_pence":       p.LargePence,
		"prices.extra_large_pence": p.ExtraLargePence,
	} {
		if v < 0 {
			errs[field] = "price must not be negative"
		}
	}
	if svc.BasePricePence <= 0 && p.SmallPence <= 0 && p.MediumPence <= 0 && p.LargePence <= 0 && p.ExtraLargePence <= 0 {
		errs["prices"] = "set at least one price"
	}
	return errs
}

func validateVehicleSize(size *domain.VehicleSize) domain.FieldErrors {
	errs := domain.FieldErrors{}
	size.Name = strings.TrimSpace(size.Name)
	if size.Name == "" {
		errs["name"] = "name is required"
	}
	if !size.Code.Valid() {
		errs["code"] = "code must be one of small, medium, large, extra_large"
	}
	if size.Multiplier <= 0 {
		errs["multiplier"] = "multiplier must be positive"
	}
	return errs
}

func validateTimeSlot(slot *domain.TimeSlot) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if _, err := time.Parse(domain.DateLayout, slot.Date); err != nil {
		errs["date"] = "enter a valid date"
	}
	if !clockTimeRegex.MatchString(slot.StartTime) {
		errs["start_time"] = "use HH:MM"
	}
	if !clockTimeRegex.MatchString(slot.EndTime) {
		errs["end_time"] = "use HH:MM"
	}
	if len(errs) == 0 && slot.EndTime <= slot.StartTime {
		errs["end_time"] = "must be after the start time"
	}
	if slot.Capacity <= 0 {
		errs["capacity"] = "capacity must be positive"
	}
	return errs
}
