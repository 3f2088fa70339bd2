package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mobile-detailing-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQuoter struct {
	mock.Mock
}

func (m *mockQuoter) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceBreakdown), args.Error(1)
}

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type quoterFunc func(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error)

func (q quoterFunc) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error) {
	return q(ctx, req)
}

type submitterFunc func(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)

func (s submitterFunc) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	return s(ctx, req)
}

var fixedNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func quote(totalPence int32) *domain.PriceBreakdown {
	return &domain.PriceBreakdown{
		Lines:                []domain.PriceLine{{ServiceID: "svc-1", ServiceName: "Full Valet", PricePence: totalPence}},
		ServiceSubtotalPence: totalPence,
		TravelDistanceMiles:  4.2,
		WithinFreeRadius:     true,
		TotalPence:           totalPence,
	}
}

func completeDraft() domain.BookingDraft {
	return domain.BookingDraft{
		ServiceIDs:    []string{"svc-1"},
		Vehicle:       domain.Vehicle{Make: "Ford", Model: "Focus", SizeID: "size-m"},
		Address:       domain.Address{Line1: "1 High St", City: "Leeds", Postcode: "LS1 4AP"},
		ScheduledDate: "2026-03-12",
		TimeSlotID:    "slot-1",
		Contact:       domain.Contact{FullName: "Ann Smith", Email: "ann@example.com"},
		Pricing:       quote(4000),
	}
}

func flowAt(step StepID, draft domain.BookingDraft, q Quoter, s Submitter) *Flow {
	return Restore(&domain.FlowSnapshot{
		ID:        "flow-1",
		StepIndex: indexOf(DefaultSteps(), step),
		Status:    domain.FlowStatusInProgress,
		Draft:     draft,
	}, q, s, clock)
}

func TestFlow_HappyPath(t *testing.T) {
	ctx := context.Background()
	quoter := new(mockQuoter)
	submitter := new(mockSubmitter)
	f := New(quoter, submitter, Options{Now: clock})

	require.NoError(t, f.UpdateField(ctx, "services", []string{"svc-1"}))
	advanced, err := f.GoNext()
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, StepVehicle, f.State().Step)

	require.NoError(t, f.UpdateField(ctx, "vehicle.make", "Ford"))
	require.NoError(t, f.UpdateField(ctx, "vehicle.model", "Focus"))
	require.NoError(t, f.UpdateField(ctx, "vehicle.sizeId", "size-m"))
	assert.Equal(t, PricingIdle, f.State().Pricing.Status)
	advanced, _ = f.GoNext()
	assert.True(t, advanced)

	quoter.On("Quote", mock.Anything, domain.QuoteRequest{
		ServiceIDs:    []string{"svc-1"},
		VehicleSizeID: "size-m",
		Postcode:      "LS1 4AP",
	}).Return(quote(4000), nil).Once()

	require.NoError(t, f.UpdateField(ctx, "address.line1", "1 High St"))
	require.NoError(t, f.UpdateField(ctx, "address.city", "Leeds"))
	require.NoError(t, f.UpdateField(ctx, "zipCode", "ls14ap"))

	state := f.State()
	assert.Equal(t, PricingReady, state.Pricing.Status)
	require.NotNil(t, state.Pricing.Summary)
	assert.Equal(t, 40.0, state.Pricing.Summary.TotalPrice)

	advanced, _ = f.GoNext()
	assert.True(t, advanced)
	require.NoError(t, f.UpdateField(ctx, "scheduledDate", "2026-03-12"))
	require.NoError(t, f.UpdateField(ctx, "time_slot_id", "slot-1"))
	advanced, _ = f.GoNext()
	assert.True(t, advanced)
	assert.Equal(t, StepReview, f.State().Step)
	assert.False(t, f.State().CanSubmit, "guest contact details still missing")

	require.NoError(t, f.UpdateField(ctx, "contact.fullName", "Ann Smith"))
	require.NoError(t, f.UpdateField(ctx, "contact.email", "ann@example.com"))
	assert.True(t, f.State().CanSubmit)

	submitter.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req domain.BookingRequest) bool {
		return req.ClientRequestID != "" &&
			req.Address.Postcode == "LS1 4AP" &&
			req.TimeSlotID == "slot-1" &&
			req.Contact.Email == "ann@example.com"
	})).Return(&domain.Booking{Reference: "DT-7K3QX9"}, nil).Once()

	booking, err := f.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DT-7K3QX9", booking.Reference)

	state = f.State()
	assert.Equal(t, domain.FlowStatusSubmitted, state.Status)
	assert.Equal(t, "DT-7K3QX9", state.Reference)
	assert.Empty(t, state.Draft.ServiceIDs)
	assert.False(t, state.CanSubmit)

	_, err = f.GoNext()
	assert.ErrorIs(t, err, ErrFlowSubmitted)
	assert.ErrorIs(t, f.UpdateField(ctx, "services", []string{"svc-2"}), ErrFlowSubmitted)
	_, err = f.Submit(ctx)
	assert.ErrorIs(t, err, ErrFlowSubmitted)

	quoter.AssertNumberOfCalls(t, "Quote", 1)
	submitter.AssertExpectations(t)
}

func TestFlow_GoNextFromInvalidStep(t *testing.T) {
	f := New(new(mockQuoter), new(mockSubmitter), Options{Now: clock})

	advanced, err := f.GoNext()
	require.NoError(t, err)
	assert.False(t, advanced)

	state := f.State()
	assert.Equal(t, 0, state.StepIndex)
	assert.Contains(t, state.FieldErrors, domain.FieldServices)
	assert.False(t, state.CanGoNext)
}

func TestFlow_GoNextClampsAtLastStep(t *testing.T) {
	f := flowAt(StepReview, completeDraft(), new(mockQuoter), new(mockSubmitter))

	advanced, err := f.GoNext()
	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Equal(t, StepReview, f.State().Step)
}

func TestFlow_GoPrevious(t *testing.T) {
	t.Run("Refused on first step", func(t *testing.T) {
		f := New(new(mockQuoter), new(mockSubmitter), Options{Now: clock})
		assert.ErrorIs(t, f.GoPrevious(), ErrAtFirstStep)
		assert.Equal(t, 0, f.State().StepIndex)
	})

	t.Run("Allowed from later steps even when invalid", func(t *testing.T) {
		f := flowAt(StepAddress, domain.BookingDraft{}, new(mockQuoter), new(mockSubmitter))
		require.NoError(t, f.GoPrevious())
		assert.Equal(t, StepVehicle, f.State().Step)
	})
}

func TestFlow_MalformedPostcodeMakesNoNetworkCall(t *testing.T) {
	ctx := context.Background()
	quoter := new(mockQuoter)
	draft := completeDraft()
	draft.Address = domain.Address{Line1: "1 High St", City: "Leeds"}
	draft.Pricing = nil
	f := flowAt(StepAddress, draft, quoter, new(mockSubmitter))

	require.NoError(t, f.UpdateField(ctx, "address.postcode", "NOT A POSTCODE"))
	advanced, err := f.GoNext()
	require.NoError(t, err)
	assert.False(t, advanced)

	state := f.State()
	assert.Equal(t, StepAddress, state.Step)
	assert.Equal(t, "enter a valid UK postcode", state.FieldErrors[domain.FieldAddressPostcode])
	assert.Equal(t, PricingIdle, state.Pricing.Status)
	quoter.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
}

func TestFlow_PricingFailureBlocksSubmit(t *testing.T) {
	ctx := context.Background()
	quoter := new(mockQuoter)
	submitter := new(mockSubmitter)
	draft := completeDraft()
	draft.Pricing = nil
	draft.Address.Postcode = ""
	f := flowAt(StepReview, draft, quoter, submitter)

	quoter.On("Quote", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()
	require.NoError(t, f.UpdateField(ctx, "address.postcode", "LS1 4AP"))

	state := f.State()
	assert.Equal(t, PricingFailed, state.Pricing.Status)
	assert.Equal(t, pricingFailedMessage, state.Pricing.Error)
	assert.Equal(t, CodePricingFailed, state.ErrorCode)
	assert.False(t, state.CanSubmit)

	_, err := f.Submit(ctx)
	assert.ErrorIs(t, err, ErrPricingNotReady)
	submitter.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)

	quoter.On("Quote", mock.Anything, mock.Anything).Return(quote(4000), nil).Once()
	require.NoError(t, f.Recompute(ctx))

	state = f.State()
	assert.Equal(t, PricingReady, state.Pricing.Status)
	assert.Empty(t, state.ErrorCode)
	assert.True(t, state.CanSubmit)
}

func TestFlow_DistanceFailureMessage(t *testing.T) {
	quoter := quoterFunc(func(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error) {
		return nil, domain.ErrDistanceLookup
	})
	draft := completeDraft()
	draft.Pricing = nil
	f := flowAt(StepAddress, draft, quoter, new(mockSubmitter))

	err := f.Recompute(context.Background())
	assert.ErrorIs(t, err, domain.ErrDistanceLookup)
	assert.Equal(t, distanceFailedMessage, f.State().Pricing.Error)
}

func TestFlow_RecomputeNeedsCompleteInputs(t *testing.T) {
	f := New(new(mockQuoter), new(mockSubmitter), Options{Now: clock})
	assert.ErrorIs(t, f.Recompute(context.Background()), ErrPricingIncomplete)
}

func TestFlow_SupersededQuoteIsDiscarded(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})

	quoter := quoterFunc(func(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error) {
		if req.Postcode == "LS1 4AP" {
			close(started)
			<-release
			return quote(1000), nil
		}
		return quote(2000), nil
	})

	draft := completeDraft()
	draft.Pricing = nil
	draft.Address.Postcode = ""
	f := flowAt(StepAddress, draft, quoter, new(mockSubmitter))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, f.UpdateField(ctx, "address.postcode", "LS1 4AP"))
	}()

	<-started
	assert.Equal(t, PricingCalculating, f.State().Pricing.Status)
	require.NoError(t, f.UpdateField(ctx, "address.postcode", "M1 1AE"))
	close(release)
	wg.Wait()

	state := f.State()
	assert.Equal(t, PricingReady, state.Pricing.Status)
	require.NotNil(t, state.Pricing.Breakdown)
	assert.Equal(t, int32(2000), state.Pricing.Breakdown.TotalPence)
}

func TestFlow_PricingInputChangeDropsStalePrice(t *testing.T) {
	ctx := context.Background()
	quoter := new(mockQuoter)
	f := flowAt(StepVehicle, completeDraft(), quoter, new(mockSubmitter))
	assert.Equal(t, PricingReady, f.State().Pricing.Status)

	require.NoError(t, f.UpdateField(ctx, "vehicle.sizeId", ""))
	state := f.State()
	assert.Equal(t, PricingIdle, state.Pricing.Status)
	assert.Nil(t, state.Draft.Pricing)
	assert.Nil(t, state.Pricing.Summary)

	// Non-pricing fields never trigger a quote.
	require.NoError(t, f.UpdateField(ctx, "vehicle.color", "Blue"))
	quoter.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
}

func TestFlow_SubmitRequiresEveryStepValid(t *testing.T) {
	submitter := new(mockSubmitter)
	draft := completeDraft()
	// Only the address step is invalid.
	draft.Address.City = ""
	f := flowAt(StepReview, draft, new(mockQuoter), submitter)

	assert.False(t, f.State().CanSubmit)
	_, err := f.Submit(context.Background())

	ve, ok := domain.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.FieldErrors{domain.FieldAddressCity: "town or city is required"}, ve.Fields)
	assert.Equal(t, CodeValidation, f.State().ErrorCode)
	submitter.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestFlow_SubmitOnlyFromFinalStep(t *testing.T) {
	f := flowAt(StepSchedule, completeDraft(), new(mockQuoter), new(mockSubmitter))
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotAtFinalStep)
}

func TestFlow_SlotConflictReturnsToSchedule(t *testing.T) {
	submitter := new(mockSubmitter)
	submitter.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, domain.ErrSlotUnavailable).Once()
	f := flowAt(StepReview, completeDraft(), new(mockQuoter), submitter)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)

	state := f.State()
	assert.Equal(t, StepSchedule, state.Step)
	assert.Empty(t, state.Draft.TimeSlotID)
	assert.Equal(t, CodeSlotUnavailable, state.ErrorCode)
	assert.Equal(t, slotTakenMessage, state.FieldErrors[domain.FieldTimeSlot])
	assert.Equal(t, domain.FlowStatusInProgress, state.Status)
	assert.NotNil(t, state.Draft.Pricing, "price does not depend on the slot")
}

func TestFlow_RetryReusesClientRequestID(t *testing.T) {
	ctx := context.Background()
	var ids []string
	calls := 0
	submitter := submitterFunc(func(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
		ids = append(ids, req.ClientRequestID)
		calls++
		if calls == 1 {
			return nil, errors.New("gateway timeout")
		}
		return &domain.Booking{Reference: "DT-7K3QX9"}, nil
	})
	f := flowAt(StepReview, completeDraft(), new(mockQuoter), submitter)

	_, err := f.Submit(ctx)
	require.Error(t, err)
	state := f.State()
	assert.Equal(t, StepReview, state.Step)
	assert.Equal(t, CodeSubmitFailed, state.ErrorCode)
	assert.Equal(t, submitFailedMessage, state.StepError)

	_, err = f.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1])
}

func TestFlow_EditAfterFailedSubmitIssuesNewRequestID(t *testing.T) {
	ctx := context.Background()
	var ids []string
	submitter := submitterFunc(func(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
		ids = append(ids, req.ClientRequestID)
		return nil, errors.New("gateway timeout")
	})
	f := flowAt(StepReview, completeDraft(), new(mockQuoter), submitter)

	_, _ = f.Submit(ctx)
	require.NoError(t, f.UpdateField(ctx, "customerNotes", "Gate code 1234"))
	_, _ = f.Submit(ctx)

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
}

func TestFlow_ConcurrentSubmitIsRejected(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	submitter := submitterFunc(func(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
		close(started)
		<-release
		return &domain.Booking{Reference: "DT-7K3QX9"}, nil
	})
	f := flowAt(StepReview, completeDraft(), new(mockQuoter), submitter)

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(ctx)
		done <- err
	}()

	<-started
	assert.True(t, f.State().Submitting)
	_, err := f.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	// The draft being booked is frozen until the submission settles.
	assert.ErrorIs(t, f.UpdateField(ctx, "address.postcode", "SW1A 1AA"), ErrSubmitInProgress)
	assert.ErrorIs(t, f.UpdateField(ctx, "customer_notes", "gate code 1234"), ErrSubmitInProgress)
	assert.ErrorIs(t, f.Recompute(ctx), ErrSubmitInProgress)
	assert.ErrorIs(t, f.GoPrevious(), ErrSubmitInProgress)
	assert.ErrorIs(t, f.Reset(), ErrSubmitInProgress)
	assert.Equal(t, "LS1 4AP", f.State().Draft.Address.Postcode)
	assert.Equal(t, StepReview, f.State().Step)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, domain.FlowStatusSubmitted, f.State().Status)
}

func TestFlow_UpdateFieldsQuotesOnce(t *testing.T) {
	ctx := context.Background()
	quoter := new(mockQuoter)
	quoter.On("Quote", ctx, domain.QuoteRequest{ServiceIDs: []string{"svc-2"}, VehicleSizeID: "size-l", Postcode: "SW1A 1AA"}).
		Return(quote(5200), nil).Once()
	f := flowAt(StepAddress, completeDraft(), quoter, new(mockSubmitter))
	require.Equal(t, PricingReady, f.State().Pricing.Status)

	err := f.UpdateFields(ctx, map[string]any{
		"serviceIds":     []any{"svc-2"},
		"vehicle.sizeId": "size-l",
		"zipCode":        "sw1a1aa",
		"vehicle.make":   "Volvo",
		"vehicle.year":   "twenty",
	})
	ve, ok := domain.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{domain.FieldVehicleYear}, keys(ve.Fields))

	state := f.State()
	assert.Equal(t, "Volvo", state.Draft.Vehicle.Make)
	assert.Equal(t, PricingReady, state.Pricing.Status)
	assert.Equal(t, int32(5200), state.Pricing.Breakdown.TotalPence)
	quoter.AssertNumberOfCalls(t, "Quote", 1)

	// Non-pricing edits keep the current price.
	require.NoError(t, f.UpdateFields(ctx, map[string]any{"vehicle.model": "XC60", "notes": "side gate"}))
	assert.Equal(t, PricingReady, f.State().Pricing.Status)
	quoter.AssertNumberOfCalls(t, "Quote", 1)

	t.Run("Unknown path applies nothing", func(t *testing.T) {
		err := f.UpdateFields(ctx, map[string]any{"vehicle.color": "Red", "vehicle.wheels": 4})
		assert.ErrorIs(t, err, ErrUnknownField)
		assert.Empty(t, f.State().Draft.Vehicle.Color)
	})
}

func keys(fields domain.FieldErrors) []string {
	out := make([]string, 0, len(fields))
	for k := range fields {
		out = append(out, k)
	}
	return out
}

func TestFlow_ServerValidationErrorsStayOnReview(t *testing.T) {
	submitter := new(mockSubmitter)
	submitter.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError(domain.FieldErrors{domain.FieldServices: "service is no longer offered"})).Once()
	f := flowAt(StepReview, completeDraft(), new(mockQuoter), submitter)

	_, err := f.Submit(context.Background())
	_, ok := domain.IsValidation(err)
	assert.True(t, ok)

	state := f.State()
	assert.Equal(t, StepReview, state.Step)
	assert.Equal(t, "service is no longer offered", state.FieldErrors[domain.FieldServices])
}

func TestFlow_Reset(t *testing.T) {
	prefill := domain.Contact{FullName: "Ann Smith", Email: "ann@example.com"}
	f := New(new(mockQuoter), new(mockSubmitter), Options{Now: clock, CustomerID: "cust-1", Prefill: prefill})
	require.NoError(t, f.UpdateField(context.Background(), "services", []string{"svc-1", "svc-1", "svc-2"}))
	assert.Equal(t, []string{"svc-1", "svc-2"}, f.State().Draft.ServiceIDs)
	_, _ = f.GoNext()

	require.NoError(t, f.Reset())

	state := f.State()
	assert.Equal(t, 0, state.StepIndex)
	assert.Empty(t, state.Draft.ServiceIDs)
	assert.Equal(t, prefill, state.Draft.Contact)
	assert.Equal(t, PricingIdle, state.Pricing.Status)
}

func TestFlow_SignedInCustomerSkipsContact(t *testing.T) {
	draft := completeDraft()
	draft.Contact = domain.Contact{}
	f := Restore(&domain.FlowSnapshot{
		ID:         "flow-1",
		StepIndex:  indexOf(DefaultSteps(), StepReview),
		Draft:      draft,
		CustomerID: "cust-1",
	}, new(mockQuoter), new(mockSubmitter), clock)

	assert.True(t, f.State().CanSubmit)
}

func TestFlow_UpdateField(t *testing.T) {
	ctx := context.Background()
	f := New(new(mockQuoter), new(mockSubmitter), Options{Now: clock})

	t.Run("Unknown field", func(t *testing.T) {
		assert.ErrorIs(t, f.UpdateField(ctx, "vehicle.wheels", 4), ErrUnknownField)
	})

	t.Run("Wrong type", func(t *testing.T) {
		err := f.UpdateField(ctx, "vehicle.year", "twenty")
		ve, ok := domain.IsValidation(err)
		require.True(t, ok)
		assert.Contains(t, ve.Fields, domain.FieldVehicleYear)
	})

	t.Run("JSON number year", func(t *testing.T) {
		require.NoError(t, f.UpdateField(ctx, "vehicle.year", float64(2019)))
		assert.Equal(t, int32(2019), f.State().Draft.Vehicle.Year)
	})

	t.Run("Year outside int32 range", func(t *testing.T) {
		require.NoError(t, f.UpdateField(ctx, "vehicle.year", float64(2019)))
		for _, v := range []any{float64(4294969320), float64(-4294967296), int64(1 << 40)} {
			err := f.UpdateField(ctx, "vehicle.year", v)
			ve, ok := domain.IsValidation(err)
			require.True(t, ok, "%v", v)
			assert.Contains(t, ve.Fields, domain.FieldVehicleYear)
		}
		assert.Equal(t, int32(2019), f.State().Draft.Vehicle.Year)
	})

	t.Run("JSON array of services", func(t *testing.T) {
		require.NoError(t, f.UpdateField(ctx, "serviceIds", []any{"svc-1", "svc-2"}))
		assert.Equal(t, []string{"svc-1", "svc-2"}, f.State().Draft.ServiceIDs)
	})

	t.Run("Editing a field clears its error", func(t *testing.T) {
		f := flowAt(StepVehicle, domain.BookingDraft{}, new(mockQuoter), new(mockSubmitter))
		_, _ = f.GoNext()
		require.Contains(t, f.State().FieldErrors, domain.FieldVehicleMake)
		require.NoError(t, f.UpdateField(ctx, "vehicle.make", "Ford"))
		assert.NotContains(t, f.State().FieldErrors, domain.FieldVehicleMake)
		assert.Contains(t, f.State().FieldErrors, domain.FieldVehicleModel)
	})
}

func TestCanonicalField(t *testing.T) {
	tests := map[string]string{
		"zipCode":             domain.FieldAddressPostcode,
		"address.zip_code":    domain.FieldAddressPostcode,
		"customPostcode":      domain.FieldAddressPostcode,
		"address.postcode":    domain.FieldAddressPostcode,
		"address.county":      domain.FieldAddressCounty,
		"selectedServiceIds":  domain.FieldServices,
		"scheduledTimeSlotId": domain.FieldTimeSlot,
		"vehicle.size_id":     domain.FieldVehicleSize,
	}
	for in, want := range tests {
		got, ok := CanonicalField(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := CanonicalField("vehicle.engine")
	assert.False(t, ok)
}
