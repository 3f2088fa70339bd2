package domain

import (
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Canonical field paths shared by the booking flow and the booking API.
const (
	FieldServices            = "services"
	FieldVehicleMake         = "vehicle.make"
	FieldVehicleModel        = "vehicle.model"
	FieldVehicleYear         = "vehicle.year"
	FieldVehicleColor        = "vehicle.color"
	FieldVehicleSize         = "vehicle.sizeId"
	FieldVehicleRegistration = "vehicle.registration"
	FieldAddressLine1        = "address.line1"
	FieldAddressLine2        = "address.line2"
	FieldAddressCity         = "address.city"
	FieldAddressCounty       = "address.county"
	FieldAddressPostcode     = "address.postcode"
	FieldScheduledDate       = "scheduledDate"
	FieldTimeSlot            = "timeSlotId"
	FieldCustomerNotes       = "customerNotes"
	FieldContactName         = "contact.fullName"
	FieldContactEmail        = "contact.email"
	FieldContactPhone        = "contact.phone"
)

const maxNotesLength = 1000

var (
	emailRegex        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	registrationRegex = regexp.MustCompile(`^[A-Z0-9]{2,8}$`)
	phoneRegex        = regexp.MustCompile(`^\+?[0-9 ]{7,20}$`)
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func ValidateServiceSelection(ids []string) FieldErrors {
	errs := FieldErrors{}
	if len(ids) == 0 {
		errs[FieldServices] = "select at least one service"
	}
	return errs
}

func ValidateVehicle(v Vehicle, now time.Time) FieldErrors {
	errs := FieldErrors{}
	if blank(v.Make) {
		errs[FieldVehicleMake] = "vehicle make is required"
	}
	if blank(v.Model) {
		errs[FieldVehicleModel] = "vehicle model is required"
	}
	if blank(v.SizeID) {
		errs[FieldVehicleSize] = "choose a vehicle size"
	}
	if v.Year != 0 && (v.Year < 1950 || int(v.Year) > now.Year()+1) {
		errs[FieldVehicleYear] = "enter a valid year"
	}
	if !blank(v.Registration) {
		reg := strings.ToUpper(strings.ReplaceAll(v.Registration, " ", ""))
		if !registrationRegex.MatchString(reg) {
			errs[FieldVehicleRegistration] = "enter a valid registration"
		}
	}
	return errs
}

func ValidateAddress(a Address) FieldErrors {
	errs := FieldErrors{}
	if blank(a.Line1) {
		errs[FieldAddressLine1] = "address line 1 is required"
	}
	if blank(a.City) {
		errs[FieldAddressCity] = "town or city is required"
	}
	switch {
	case blank(a.Postcode):
		errs[FieldAddressPostcode] = "postcode is required"
	case !IsValidPostcode(a.Postcode):
		errs[FieldAddressPostcode] = "enter a valid UK postcode"
	}
	return errs
}

func ValidateSchedule(date, slotID string, now time.Time) FieldErrors {
	errs := FieldErrors{}
	if blank(date) {
		errs[FieldScheduledDate] = "choose a date"
	} else if d, err := time.Parse(DateLayout, date); err != nil {
		errs[FieldScheduledDate] = "enter a valid date"
	} else {
		today, _ := time.Parse(DateLayout, now.UTC().Format(DateLayout))
		if d.Before(today) {
			errs[FieldScheduledDate] = "date must not be in the past"
		}
	}
	if blank(slotID) {
		errs[FieldTimeSlot] = "choose a time slot"
	}
	return errs
}

func ValidateContact(c Contact) FieldErrors {
	errs := FieldErrors{}
	if blank(c.FullName) {
		errs[FieldContactName] = "your name is required"
	}
	if blank(c.Email) {
		errs[FieldContactEmail] = "email is required"
	} else if !emailRegex.MatchString(strings.TrimSpace(c.Email)) {
		errs[FieldContactEmail] = "enter a valid email address"
	}
	if !blank(c.Phone) && !phoneRegex.MatchString(strings.TrimSpace(c.Phone)) {
		errs[FieldContactPhone] = "enter a valid phone number"
	}
	return errs
}

func ValidateNotes(notes string) FieldErrors {
	errs := FieldErrors{}
	if len(notes) > maxNotesLength {
		errs[FieldCustomerNotes] = "notes are too long"
	}
	return errs
}

// ValidateBookingRequest checks every field of a booking request.
// Contact details are only required for guest bookings.
func ValidateBookingRequest(req BookingRequest, now time.Time) FieldErrors {
	errs := Merge(
		ValidateServiceSelection(req.ServiceIDs),
		ValidateVehicle(req.Vehicle, now),
		ValidateAddress(req.Address),
		ValidateSchedule(req.ScheduledDate, req.TimeSlotID, now),
		ValidateNotes(req.CustomerNotes),
	)
	if req.CustomerID == "" {
		errs = Merge(errs, ValidateContact(req.Contact))
	}
	return errs
}

// Merge combines field errors; later sets win on duplicate keys.
func Merge(sets ...FieldErrors) FieldErrors {
	out := FieldErrors{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
