package domain

import (
	"encoding/json"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether the status is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

type Vehicle struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int32  `json:"year,omitempty"`
	Color        string `json:"color,omitempty"`
	SizeID       string `json:"size_id"`
	Registration string `json:"registration,omitempty"`
}

type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	County   string `json:"county,omitempty"`
	Postcode string `json:"postcode"`
}

// UnmarshalJSON accepts the zipCode/zip_code spelling some clients send for postcode.
func (a *Address) UnmarshalJSON(data []byte) error {
	type plain Address
	var aux struct {
		plain
		ZipCode  string `json:"zipCode"`
		ZipCode2 string `json:"zip_code"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Address(aux.plain)
	if a.Postcode == "" {
		a.Postcode = aux.ZipCode
	}
	if a.Postcode == "" {
		a.Postcode = aux.ZipCode2
	}
	return nil
}

type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type TimeSlot struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int32  `json:"capacity"`
	BookedCount int32  `json:"booked_count"`
}

// Available reports whether the slot can take another booking.
func (t *TimeSlot) Available() bool {
	return t.BookedCount < t.Capacity
}

type BookingLine struct {
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	PricePence  int32  `json:"price_pence"`
}

type Booking struct {
	ID                   string        `json:"id"`
	Reference            string        `json:"booking_reference"`
	CustomerID           string        `json:"customer_id"`
	ClientRequestID      string        `json:"client_request_id,omitempty"`
	Lines                []BookingLine `json:"lines"`
	Vehicle              Vehicle       `json:"vehicle"`
	Address              Address       `json:"address"`
	ScheduledDate        string        `json:"scheduled_date"`
	TimeSlotID           string        `json:"time_slot_id"`
	CustomerNotes        string        `json:"customer_notes,omitempty"`
	ServiceSubtotalPence int32         `json:"service_subtotal_pence"`
	TravelDistanceMiles  float64       `json:"travel_distance_miles"`
	TravelSurchargePence int32         `json:"travel_surcharge_pence"`
	TotalPence           int32         `json:"total_pence"`
	Status               BookingStatus `json:"status"`
	CreatedOn            time.Time     `json:"created_on"`
	UpdatedOn            time.Time     `json:"updated_on"`
}

// BookingRequest is the booking-creation payload.
type BookingRequest struct {
	ClientRequestID string   `json:"client_request_id"`
	CustomerID      string   `json:"-"`
	ServiceIDs      []string `json:"services"`
	Vehicle         Vehicle  `json:"vehicle"`
	Address         Address  `json:"address"`
	ScheduledDate   string   `json:"scheduled_date"`
	TimeSlotID      string   `json:"time_slot_id"`
	CustomerNotes   string   `json:"customer_notes"`
	Contact         Contact  `json:"contact"`
}
