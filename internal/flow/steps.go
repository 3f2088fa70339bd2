package flow

import (
	"time"

	"mobile-detailing-backend/internal/domain"
)

type StepID string

const (
	StepService  StepID = "service"
	StepVehicle  StepID = "vehicle"
	StepAddress  StepID = "address"
	StepSchedule StepID = "schedule"
	StepReview   StepID = "review"
)

// StepContext is what a step predicate may look at besides the draft.
type StepContext struct {
	Now        time.Time
	CustomerID string
}

// StepDefinition is one page of the booking wizard. Validate returns the
// field errors that block leaving the step; an empty result means valid.
type StepDefinition struct {
	ID       StepID
	Title    string
	Validate func(d domain.BookingDraft, sc StepContext) domain.FieldErrors
}

// DefaultSteps is the fixed Service → Vehicle → Address → Schedule → Review sequence.
func DefaultSteps() []StepDefinition {
	return []StepDefinition{
		{
			ID:    StepService,
			Title: "Choose services",
			Validate: func(d domain.BookingDraft, _ StepContext) domain.FieldErrors {
				return domain.ValidateServiceSelection(d.ServiceIDs)
			},
		},
		{
			ID:    StepVehicle,
			Title: "Your vehicle",
			Validate: func(d domain.BookingDraft, sc StepContext) domain.FieldErrors {
				return domain.ValidateVehicle(d.Vehicle, sc.Now)
			},
		},
		{
			ID:    StepAddress,
			Title: "Service address",
			Validate: func(d domain.BookingDraft, _ StepContext) domain.FieldErrors {
				return domain.ValidateAddress(d.Address)
			},
		},
		{
			ID:    StepSchedule,
			Title: "Date and time",
			Validate: func(d domain.BookingDraft, sc StepContext) domain.FieldErrors {
				return domain.ValidateSchedule(d.ScheduledDate, d.TimeSlotID, sc.Now)
			},
		},
		{
			ID:    StepReview,
			Title: "Review and confirm",
			Validate: func(d domain.BookingDraft, sc StepContext) domain.FieldErrors {
				errs := domain.ValidateNotes(d.CustomerNotes)
				if sc.CustomerID == "" {
					errs = domain.Merge(errs, domain.ValidateContact(d.Contact))
				}
				return errs
			},
		},
	}
}

func indexOf(steps []StepDefinition, id StepID) int {
	for i, s := range steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
