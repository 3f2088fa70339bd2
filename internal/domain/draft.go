package domain

import "time"

// PriceLine is the price of one selected service for the chosen vehicle size.
type PriceLine struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	PricePence  int32  `json:"price_pence"`
}

// PriceBreakdown is derived from the pricing inputs and never edited in place.
// TotalPence == ServiceSubtotalPence + TravelSurchargePence, and the surcharge
// is zero whenever WithinFreeRadius holds.
type PriceBreakdown struct {
	Lines                []PriceLine `json:"lines"`
	ServiceSubtotalPence int32       `json:"service_subtotal_pence"`
	TravelDistanceMiles  float64     `json:"travel_distance_miles"`
	WithinFreeRadius     bool        `json:"within_free_radius"`
	TravelSurchargePence int32       `json:"travel_surcharge_pence"`
	TotalPence           int32       `json:"total_pence"`
}

type QuoteRequest struct {
	ServiceIDs    []string `json:"service_ids"`
	VehicleSizeID string   `json:"vehicle_size_id"`
	Postcode      string   `json:"postcode"`
}

// BookingDraft holds what a customer has entered so far in the booking wizard.
type BookingDraft struct {
	ServiceIDs    []string        `json:"service_ids"`
	Vehicle       Vehicle         `json:"vehicle"`
	Address       Address         `json:"address"`
	ScheduledDate string          `json:"scheduled_date"`
	TimeSlotID    string          `json:"time_slot_id"`
	CustomerNotes string          `json:"customer_notes"`
	Contact       Contact         `json:"contact"`
	Pricing       *PriceBreakdown `json:"pricing"`
}

// Clone returns a copy that shares no mutable state with d.
func (d BookingDraft) Clone() BookingDraft {
	out := d
	if d.ServiceIDs != nil {
		out.ServiceIDs = append([]string(nil), d.ServiceIDs...)
	}
	return out
}

// HasService reports whether the service is selected.
func (d BookingDraft) HasService(id string) bool {
	for _, s := range d.ServiceIDs {
		if s == id {
			return true
		}
	}
	return false
}

// QuoteRequest builds the pricing request for the draft's current inputs.
func (d BookingDraft) QuoteRequest() QuoteRequest {
	return QuoteRequest{
		ServiceIDs:    append([]string(nil), d.ServiceIDs...),
		VehicleSizeID: d.Vehicle.SizeID,
		Postcode:      NormalizePostcode(d.Address.Postcode),
	}
}

// BookingRequest packages the draft into the booking-creation payload.
func (d BookingDraft) BookingRequest(clientRequestID, customerID string) BookingRequest {
	addr := d.Address
	addr.Postcode = NormalizePostcode(addr.Postcode)
	return BookingRequest{
		ClientRequestID: clientRequestID,
		CustomerID:      customerID,
		ServiceIDs:      append([]string(nil), d.ServiceIDs...),
		Vehicle:         d.Vehicle,
		Address:         addr,
		ScheduledDate:   d.ScheduledDate,
		TimeSlotID:      d.TimeSlotID,
		CustomerNotes:   d.CustomerNotes,
		Contact:         d.Contact,
	}
}

type FlowStatus string

const (
	FlowStatusInProgress FlowStatus = "in_progress"
	FlowStatusSubmitted  FlowStatus = "submitted"
)

// FlowSnapshot is the persisted form of a booking flow session.
type FlowSnapshot struct {
	ID              string       `json:"id"`
	StepIndex       int          `json:"step_index"`
	Status          FlowStatus   `json:"status"`
	Draft           BookingDraft `json:"draft"`
	CustomerID      string       `json:"customer_id,omitempty"`
	Prefill         Contact      `json:"prefill"`
	ClientRequestID string       `json:"client_request_id,omitempty"`
	Reference       string       `json:"reference,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
