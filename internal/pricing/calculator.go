package pricing

import (
	"errors"
	"fmt"
	"math"

	"mobile-detailing-backend/internal/domain"
)

const (
	DefaultFreeRadiusMiles = 17.5
	DefaultPerMilePence    = 50
)

var ErrNegativeDistance = errors.New("distance must not be negative")

// Config holds the travel surcharge parameters.
type Config struct {
	FreeRadiusMiles float64
	PerMilePence    int32
}

func DefaultConfig() Config {
	return Config{FreeRadiusMiles: DefaultFreeRadiusMiles, PerMilePence: DefaultPerMilePence}
}

// Calculator turns selected services, a vehicle size and a travel distance into a PriceBreakdown.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() Config {
	return c.cfg
}

// TravelSurcharge returns the surcharge in pence for a distance and whether the
// distance is inside the free radius. The boundary itself is free.
func (c *Calculator) TravelSurcharge(distanceMiles float64) (int32, bool) {
	if distanceMiles <= c.cfg.FreeRadiusMiles {
		return 0, true
	}
	excess := distanceMiles - c.cfg.FreeRadiusMiles
	return int32(math.Round(excess * float64(c.cfg.PerMilePence))), false
}

// Calculate prices each service at its size-indexed rate and adds the travel surcharge.
// An empty service list is priced at zero rather than rejected.
func (c *Calculator) Calculate(services []domain.Service, size domain.VehicleSize, distanceMiles float64) (*domain.PriceBreakdown, error) {
	if distanceMiles < 0 || math.IsNaN(distanceMiles) {
		return nil, ErrNegativeDistance
	}

	lines := make([]domain.PriceLine, 0, len(services))
	var subtotal int32
	for _, svc := range services {
		price, ok := svc.PriceFor(size)
		if !ok {
			return nil, fmt.Errorf("%w: %s (%s)", domain.ErrNoPriceForSize, svc.Name, size.Code)
		}
		lines = append(lines, domain.PriceLine{ServiceID: svc.ID, ServiceName: svc.Name, PricePence: price})
		subtotal += price
	}

	surcharge, within := c.TravelSurcharge(distanceMiles)

	return &domain.PriceBreakdown{
		Lines:                lines,
		ServiceSubtotalPence: subtotal,
		TravelDistanceMiles:  math.Round(distanceMiles*100) / 100,
		WithinFreeRadius:     within,
		TravelSurchargePence: surcharge,
		TotalPence:           subtotal + surcharge,
	}, nil
}
