package pricing

import "mobile-detailing-backend/internal/domain"

// Calculation is one service line of the pricing summary, in pounds.
type Calculation struct {
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	TotalPrice  float64 `json:"totalPrice"`
}

// Summary is the display shape returned by the price calculation endpoint.
type Summary struct {
	TotalPrice             float64       `json:"totalPrice"`
	ServiceSubtotal        float64       `json:"serviceSubtotal"`
	TotalDistanceSurcharge float64       `json:"totalDistanceSurcharge"`
	DistanceMiles          float64       `json:"distanceMiles"`
	WithinFreeRadius       bool          `json:"withinFreeRadius"`
	Calculations           []Calculation `json:"calculations"`
}

// PenceToPounds converts an amount in pence to pounds.
func PenceToPounds(p int32) float64 {
	return float64(p) / 100
}

// Summarize maps a breakdown to its display summary.
func Summarize(b *domain.PriceBreakdown) Summary {
	if b == nil {
		return Summary{Calculations: []Calculation{}}
	}
	calcs := make([]Calculation, 0, len(b.Lines))
	for _, l := range b.Lines {
		calcs = append(calcs, Calculation{
			ServiceID:   l.ServiceID,
			ServiceName: l.ServiceName,
			TotalPrice:  PenceToPounds(l.PricePence),
		})
	}
	return Summary{
		TotalPrice:             PenceToPounds(b.TotalPence),
		ServiceSubtotal:        PenceToPounds(b.ServiceSubtotalPence),
		TotalDistanceSurcharge: PenceToPounds(b.TravelSurchargePence),
		DistanceMiles:          b.TravelDistanceMiles,
		WithinFreeRadius:       b.WithinFreeRadius,
		Calculations:           calcs,
	}
}
