package domain

import (
	"math"
	"time"
)

type VehicleSizeCode string

const (
	VehicleSizeSmall      VehicleSizeCode = "small"
	VehicleSizeMedium     VehicleSizeCode = "medium"
	VehicleSizeLarge      VehicleSizeCode = "large"
	VehicleSizeExtraLarge VehicleSizeCode = "extra_large"
)

// Valid reports whether the code is one of the fixed size categories.
func (c VehicleSizeCode) Valid() bool {
	switch c {
	case VehicleSizeSmall, VehicleSizeMedium, VehicleSizeLarge, VehicleSizeExtraLarge:
		return true
	}
	return false
}

type VehicleSize struct {
	ID              string          `json:"id"`
	Code            VehicleSizeCode `json:"code"`
	Name            string          `json:"name"`
	ExampleVehicles []string        `json:"example_vehicles"`
	Multiplier      float64         `json:"multiplier"`
	DisplayOrder    int32           `json:"display_order"`
}

// SizePrices is the per-size price table of a service, in pence.
type SizePrices struct {
	SmallPence      int32 `json:"small_pence"`
	MediumPence     int32 `json:"medium_pence"`
	LargePence      int32 `json:"large_pence"`
	ExtraLargePence int32 `json:"extra_large_pence"`
}

// Column returns the table entry for a size code. Zero means the column is unset.
func (p SizePrices) Column(code VehicleSizeCode) int32 {
	switch code {
	case VehicleSizeSmall:
		return p.SmallPence
	case VehicleSizeMedium:
		return p.MediumPence
	case VehicleSizeLarge:
		return p.LargePence
	case VehicleSizeExtraLarge:
		return p.ExtraLargePence
	}
	return 0
}

type Service struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	DurationMinutes int32      `json:"duration_minutes"`
	BasePricePence  int32      `json:"base_price_pence"`
	Prices          SizePrices `json:"prices"`
	Active          bool       `json:"active"`
	DisplayOrder    int32      `json:"display_order"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// PriceFor returns the price of the service for a vehicle size.
// The size column wins; an unset column falls back to base price times the size multiplier.
func (s Service) PriceFor(size VehicleSize) (int32, bool) {
	if p := s.Prices.Column(size.Code); p > 0 {
		return p, true
	}
	if s.BasePricePence > 0 && size.Multiplier > 0 {
		return int32(math.Round(float64(s.BasePricePence) * size.Multiplier)), true
	}
	return 0, false
}
