package service

import (
	"context"
	"errors"
	"fmt"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/geo"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/pricing"
	"mobile-detailing-backend/internal/repository"
)

type pricingService struct {
	serviceRepo repository.ServiceRepository
	sizeRepo    repository.VehicleSizeRepository
	distance    DistanceCalculator
	calculator  *pricing.Calculator
}

func NewPricingService(serviceRepo repository.ServiceRepository, sizeRepo repository.VehicleSizeRepository, distance DistanceCalculator, calculator *pricing.Calculator) PricingService {
	return &pricingService{
		serviceRepo: serviceRepo,
		sizeRepo:    sizeRepo,
		distance:    distance,
		calculator:  calculator,
	}
}

// Quote prices services for a vehicle size at a postcode. This is the
// authoritative price; booking creation recomputes it the same way.
func (s *pricingService) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error) {
	logger.EnterMethod("pricingService.Quote", "services", len(req.ServiceIDs), "sizeID", req.VehicleSizeID, "postcode", req.Postcode)

	errs := domain.FieldErrors{}
	if req.VehicleSizeID == "" {
		errs[domain.FieldVehicleSize] = "choose a vehicle size"
	}
	if !domain.IsValidPostcode(req.Postcode) {
		errs[domain.FieldAddressPostcode] = "enter a valid UK postcode"
	}
	if len(errs) > 0 {
		err := domain.NewValidationError(errs)
		logger.ExitMethodWithError("pricingService.Quote", err)
		return nil, err
	}

	size, err := s.sizeRepo.GetByID(ctx, req.VehicleSizeID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldVehicleSize: "unknown vehicle size"})
	}
	if err != nil {
		logger.ExitMethodWithError("pricingService.Quote", err, "reason", "vehicle size lookup")
		return nil, err
	}

	services, err := s.activeServices(ctx, req.ServiceIDs)
	if err != nil {
		logger.ExitMethodWithError("pricingService.Quote", err, "reason", "service lookup")
		return nil, err
	}

	miles, err := s.distance.DistanceMiles(ctx, req.Postcode)
	if err != nil {
		logger.ExitMethodWithError("pricingService.Quote", err, "reason", "distance lookup")
		if errors.Is(err, geo.ErrPostcodeNotFound) {
			return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldAddressPostcode: "we couldn't find that postcode"})
		}
		if !errors.Is(err, domain.ErrDistanceLookup) {
			err = fmt.Errorf("%w: %v", domain.ErrDistanceLookup, err)
		}
		return nil, err
	}

	breakdown, err := s.calculator.Calculate(services, *size, miles)
	if err != nil {
		if errors.Is(err, domain.ErrNoPriceForSize) {
			return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldServices: err.Error()})
		}
		logger.ExitMethodWithError("pricingService.Quote", err)
		return nil, err
	}

	logger.ExitMethod("pricingService.Quote", "totalPence", breakdown.TotalPence, "miles", breakdown.TravelDistanceMiles)
	return breakdown, nil
}

// activeServices loads the requested services and rejects any that are unknown or withdrawn.
func (s *pricingService) activeServices(ctx context.Context, ids []string) ([]domain.Service, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	services, err := s.serviceRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(services) != len(unique) {
		return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldServices: "one or more services are not available"})
	}
	for _, svc := range services {
		if !svc.Active {
			return nil, domain.NewValidationError(domain.FieldErrors{domain.FieldServices: fmt.Sprintf("%s is no longer offered", svc.Name)})
		}
	}
	return services, nil
}
