package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestValidateVehicle(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		errs := ValidateVehicle(Vehicle{Make: "Ford", Model: "Focus", SizeID: "size-m", Year: 2019, Registration: "ab12 cde"}, fixedNow)
		assert.Empty(t, errs)
	})

	t.Run("Missing required fields", func(t *testing.T) {
		errs := ValidateVehicle(Vehicle{}, fixedNow)
		assert.Contains(t, errs, FieldVehicleMake)
		assert.Contains(t, errs, FieldVehicleModel)
		assert.Contains(t, errs, FieldVehicleSize)
		assert.NotContains(t, errs, FieldVehicleYear)
	})

	t.Run("Year out of range", func(t *testing.T) {
		errs := ValidateVehicle(Vehicle{Make: "Ford", Model: "Focus", SizeID: "m", Year: 2031}, fixedNow)
		assert.Contains(t, errs, FieldVehicleYear)
	})

	t.Run("Bad registration", func(t *testing.T) {
		errs := ValidateVehicle(Vehicle{Make: "Ford", Model: "Focus", SizeID: "m", Registration: "AB-12-CDE-XYZ"}, fixedNow)
		assert.Contains(t, errs, FieldVehicleRegistration)
	})
}

func TestValidateAddress(t *testing.T) {
	assert.Empty(t, ValidateAddress(Address{Line1: "1 High Street", City: "Leeds", Postcode: "ls1 4ap"}))

	errs := ValidateAddress(Address{Line1: "1 High Street", City: "Leeds", Postcode: "not a postcode"})
	assert.Equal(t, "enter a valid UK postcode", errs[FieldAddressPostcode])

	errs = ValidateAddress(Address{})
	assert.Len(t, errs, 3)
	assert.Equal(t, "postcode is required", errs[FieldAddressPostcode])
}

func TestValidateSchedule(t *testing.T) {
	assert.Empty(t, ValidateSchedule("2026-03-10", "slot-1", fixedNow))
	assert.Empty(t, ValidateSchedule("2026-04-01", "slot-1", fixedNow))

	errs := ValidateSchedule("2026-03-09", "slot-1", fixedNow)
	assert.Equal(t, "date must not be in the past", errs[FieldScheduledDate])

	errs = ValidateSchedule("10/03/2026", "", fixedNow)
	assert.Equal(t, "enter a valid date", errs[FieldScheduledDate])
	assert.Contains(t, errs, FieldTimeSlot)
}

func TestValidateContact(t *testing.T) {
	assert.Empty(t, ValidateContact(Contact{FullName: "Sam Taylor", Email: "sam@example.com", Phone: "+44 7700 900123"}))

	errs := ValidateContact(Contact{FullName: "", Email: "sam.example.com", Phone: "abc"})
	assert.Len(t, errs, 3)
}

func TestValidateBookingRequest(t *testing.T) {
	req := BookingRequest{
		ServiceIDs:    []string{"s1"},
		Vehicle:       Vehicle{Make: "VW", Model: "Golf", SizeID: "m"},
		Address:       Address{Line1: "2 Park Road", City: "York", Postcode: "YO1 7HH"},
		ScheduledDate: "2026-03-12",
		TimeSlotID:    "slot-1",
	}

	t.Run("Guest requires contact", func(t *testing.T) {
		errs := ValidateBookingRequest(req, fixedNow)
		assert.Contains(t, errs, FieldContactEmail)
	})

	t.Run("Authenticated customer skips contact", func(t *testing.T) {
		r := req
		r.CustomerID = "cust-1"
		assert.Empty(t, ValidateBookingRequest(r, fixedNow))
	})
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError(FieldErrors{"b": "second", "a": "first"})
	assert.Equal(t, "validation failed: a: first; b: second", err.Error())

	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
}

func TestAddress_UnmarshalZipCode(t *testing.T) {
	var a Address
	require.NoError(t, json.Unmarshal([]byte(`{"line1":"1 Main St","city":"Hull","zipCode":"HU1 1AA"}`), &a))
	assert.Equal(t, "HU1 1AA", a.Postcode)

	require.NoError(t, json.Unmarshal([]byte(`{"postcode":"HU2 2BB","zip_code":"HU1 1AA"}`), &a))
	assert.Equal(t, "HU2 2BB", a.Postcode)
}

func TestService_PriceFor(t *testing.T) {
	medium := VehicleSize{ID: "m", Code: VehicleSizeMedium, Multiplier: 1.2}
	large := VehicleSize{ID: "l", Code: VehicleSizeLarge, Multiplier: 1.5}

	svc := Service{ID: "s1", BasePricePence: 3000, Prices: SizePrices{MediumPence: 4000}}

	p, ok := svc.PriceFor(medium)
	assert.True(t, ok)
	assert.Equal(t, int32(4000), p)

	p, ok = svc.PriceFor(large)
	assert.True(t, ok)
	assert.Equal(t, int32(4500), p)

	_, ok = Service{ID: "s2"}.PriceFor(large)
	assert.False(t, ok)
}
