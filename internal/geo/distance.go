package geo

import (
	"context"
	"fmt"
	"math"
	"sync"

	"mobile-detailing-backend/internal/domain"
)

const earthRadiusMiles = 3958.8

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HaversineMiles returns the great-circle distance between two points in miles.
func HaversineMiles(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// PostcodeLookup resolves a normalized UK postcode to coordinates.
type PostcodeLookup interface {
	Lookup(ctx context.Context, postcode string) (Coordinates, error)
}

// DistanceService measures straight-line distance from the business base postcode.
type DistanceService struct {
	lookup       PostcodeLookup
	basePostcode string

	mu    sync.RWMutex
	cache map[string]Coordinates
}

func NewDistanceService(lookup PostcodeLookup, basePostcode string) *DistanceService {
	return &DistanceService{
		lookup:       lookup,
		basePostcode: domain.NormalizePostcode(basePostcode),
		cache:        make(map[string]Coordinates),
	}
}

// DistanceMiles returns the distance in miles between the base postcode and postcode.
func (s *DistanceService) DistanceMiles(ctx context.Context, postcode string) (float64, error) {
	base, err := s.coordinates(ctx, s.basePostcode)
	if err != nil {
		return 0, fmt.Errorf("%w: base postcode: %v", domain.ErrDistanceLookup, err)
	}
	dest, err := s.coordinates(ctx, domain.NormalizePostcode(postcode))
	if err != nil {
		return 0, err
	}
	return HaversineMiles(base, dest), nil
}

func (s *DistanceService) coordinates(ctx context.Context, postcode string) (Coordinates, error) {
	s.mu.RLock()
	c, ok := s.cache[postcode]
	s.mu.RUnlock()
	if ok {
		return c, nil
	}

	c, err := s.lookup.Lookup(ctx, postcode)
	if err != nil {
		return Coordinates{}, err
	}

	s.mu.Lock()
	s.cache[postcode] = c
	s.mu.Unlock()
	return c, nil
}
