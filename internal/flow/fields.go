package flow

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mobile-detailing-backend/internal/domain"
)

var ErrUnknownField = errors.New("unknown field")

// fieldAliases maps the spellings older clients send onto canonical field paths.
var fieldAliases = map[string]string{
	"serviceIds":            domain.FieldServices,
	"selectedServiceIds":    domain.FieldServices,
	"service_ids":           domain.FieldServices,
	"vehicle.size_id":       domain.FieldVehicleSize,
	"vehicle.size":          domain.FieldVehicleSize,
	"vehicleSizeId":         domain.FieldVehicleSize,
	"vehicle.colour":        domain.FieldVehicleColor,
	"vehicle.licensePlate":  domain.FieldVehicleRegistration,
	"vehicle.license_plate": domain.FieldVehicleRegistration,
	"address.address_line1": domain.FieldAddressLine1,
	"address.addressLine1":  domain.FieldAddressLine1,
	"address.street":        domain.FieldAddressLine1,
	"address.address_line2": domain.FieldAddressLine2,
	"address.addressLine2":  domain.FieldAddressLine2,
	"address.town":          domain.FieldAddressCity,
	"address.zipCode":       domain.FieldAddressPostcode,
	"address.zip_code":      domain.FieldAddressPostcode,
	"address.postCode":      domain.FieldAddressPostcode,
	"zipCode":               domain.FieldAddressPostcode,
	"postcode":              domain.FieldAddressPostcode,
	"customPostcode":        domain.FieldAddressPostcode,
	"scheduled_date":        domain.FieldScheduledDate,
	"date":                  domain.FieldScheduledDate,
	"time_slot_id":          domain.FieldTimeSlot,
	"scheduledTimeSlotId":   domain.FieldTimeSlot,
	"customer_notes":        domain.FieldCustomerNotes,
	"notes":                 domain.FieldCustomerNotes,
	"contact.full_name":     domain.FieldContactName,
	"contact.name":          domain.FieldContactName,
	"contact.phone_number":  domain.FieldContactPhone,
}

// CanonicalField resolves a client field path to its canonical form.
func CanonicalField(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if alias, ok := fieldAliases[path]; ok {
		return alias, true
	}
	if _, ok := setters[path]; ok {
		return path, true
	}
	return "", false
}

// pricingFields are the inputs a PriceBreakdown is derived from.
var pricingFields = map[string]bool{
	domain.FieldServices:        true,
	domain.FieldVehicleSize:     true,
	domain.FieldAddressPostcode: true,
}

type setter func(d *domain.BookingDraft, v any) error

var setters = map[string]setter{
	domain.FieldServices: func(d *domain.BookingDraft, v any) error {
		ids, err := asStrings(v)
		if err != nil {
			return err
		}
		d.ServiceIDs = dedupe(ids)
		return nil
	},
	domain.FieldVehicleMake:  stringSetter(func(d *domain.BookingDraft, s string) { d.Vehicle.Make = s }),
	domain.FieldVehicleModel: stringSetter(func(d *domain.BookingDraft, s string) { d.Vehicle.Model = s }),
	domain.FieldVehicleYear: func(d *domain.BookingDraft, v any) error {
		y, err := asInt32(v)
		if err != nil {
			return err
		}
		d.Vehicle.Year = y
		return nil
	},
	domain.FieldVehicleColor: stringSetter(func(d *domain.BookingDraft, s string) { d.Vehicle.Color = s }),
	domain.FieldVehicleSize:  stringSetter(func(d *domain.BookingDraft, s string) { d.Vehicle.SizeID = s }),
	domain.FieldVehicleRegistration: stringSetter(func(d *domain.BookingDraft, s string) {
		d.Vehicle.Registration = strings.ToUpper(s)
	}),
	domain.FieldAddressLine1:    stringSetter(func(d *domain.BookingDraft, s string) { d.Address.Line1 = s }),
	domain.FieldAddressLine2:    stringSetter(func(d *domain.BookingDraft, s string) { d.Address.Line2 = s }),
	domain.FieldAddressCity:     stringSetter(func(d *domain.BookingDraft, s string) { d.Address.City = s }),
	domain.FieldAddressCounty:   stringSetter(func(d *domain.BookingDraft, s string) { d.Address.County = s }),
	domain.FieldAddressPostcode: stringSetter(func(d *domain.BookingDraft, s string) { d.Address.Postcode = s }),
	domain.FieldScheduledDate:   stringSetter(func(d *domain.BookingDraft, s string) { d.ScheduledDate = s }),
	domain.FieldTimeSlot:        stringSetter(func(d *domain.BookingDraft, s string) { d.TimeSlotID = s }),
	domain.FieldCustomerNotes: func(d *domain.BookingDraft, v any) error {
		s, err := asString(v)
		if err != nil {
			return err
		}
		d.CustomerNotes = s
		return nil
	},
	domain.FieldContactName:  stringSetter(func(d *domain.BookingDraft, s string) { d.Contact.FullName = s }),
	domain.FieldContactEmail: stringSetter(func(d *domain.BookingDraft, s string) { d.Contact.Email = s }),
	domain.FieldContactPhone: stringSetter(func(d *domain.BookingDraft, s string) { d.Contact.Phone = s }),
}

func stringSetter(set func(d *domain.BookingDraft, s string)) setter {
	return func(d *domain.BookingDraft, v any) error {
		s, err := asString(v)
		if err != nil {
			return err
		}
		set(d, strings.TrimSpace(s))
		return nil
	}
}

func asString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	}
	return "", fmt.Errorf("expected text, got %T", v)
}

func asInt32(v any) (int32, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return checkedInt32(int64(t))
	case int32:
		return t, nil
	case int64:
		return checkedInt32(t)
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("expected a whole number, got %v", t)
		}
		if t < math.MinInt32 || t > math.MaxInt32 {
			return 0, fmt.Errorf("number out of range: %v", t)
		}
		return int32(t), nil
	case string:
		if strings.TrimSpace(t) == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("expected a whole number, got %q", t)
		}
		return int32(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func checkedInt32(n int64) (int32, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("number out of range: %d", n)
	}
	return int32(n), nil
}

func asStrings(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return t, nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a list of ids, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if t == "" {
			return nil, nil
		}
		return []string{t}, nil
	}
	return nil, fmt.Errorf("expected a list of ids, got %T", v)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
