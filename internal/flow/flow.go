package flow

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/logger"
	"mobile-detailing-backend/internal/pricing"

	"github.com/google/uuid"
)

var (
	ErrAtFirstStep       = errors.New("already at the first step")
	ErrFlowSubmitted     = errors.New("booking has already been submitted")
	ErrNotAtFinalStep    = errors.New("booking can only be confirmed from the review step")
	ErrPricingNotReady   = errors.New("price is not ready")
	ErrPricingIncomplete = errors.New("choose a vehicle size and enter a valid postcode to see a price")
	ErrSubmitInProgress  = errors.New("booking submission already in progress")
	ErrFlowNotFound      = errors.New("booking flow not found")

	errPricingSuperseded = errors.New("price request superseded")
)

const (
	slotTakenMessage        = "That time slot has just been taken. Please choose another."
	submitFailedMessage     = "We couldn't confirm your booking. Please try again."
	pricingFailedMessage    = "We couldn't calculate your price. Please try again."
	distanceFailedMessage   = "We couldn't work out the travel distance for that postcode."
	invalidSelectionMessage = "Some of your choices can't be priced. Please review them."
)

// Quoter prices the current inputs of a draft.
type Quoter interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (*domain.PriceBreakdown, error)
}

// Submitter creates the booking for a completed draft.
type Submitter interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
}

type PricingStatus string

const (
	PricingIdle        PricingStatus = "idle"
	PricingStale       PricingStatus = "stale"
	PricingCalculating PricingStatus = "calculating"
	PricingReady       PricingStatus = "ready"
	PricingFailed      PricingStatus = "failed"
)

// Error codes attached to the step banner.
const (
	CodeSlotUnavailable = "slot_unavailable"
	CodeSubmitFailed    = "submit_failed"
	CodePricingFailed   = "pricing_failed"
	CodeValidation      = "validation_failed"
)

// Flow is one customer's booking wizard. All methods are safe for concurrent use.
type Flow struct {
	mu sync.Mutex

	id         string
	steps      []StepDefinition
	quoter     Quoter
	submitter  Submitter
	now        func() time.Time
	customerID string
	prefill    domain.Contact

	stepIndex int
	status    domain.FlowStatus
	draft     domain.BookingDraft

	pricingStatus PricingStatus
	pricingError  string
	// pricingSeq is bumped whenever pricing inputs change or a quote is issued;
	// a quote response is only applied if the sequence still matches.
	pricingSeq uint64

	fieldErrors domain.FieldErrors
	stepError   string
	errorCode   string

	submitting      bool
	clientRequestID string
	reference       string
	updatedAt       time.Time
}

// Options configure a new Flow.
type Options struct {
	ID         string
	Steps      []StepDefinition
	CustomerID string
	Prefill    domain.Contact
	Now        func() time.Time
}

func New(quoter Quoter, submitter Submitter, opts Options) *Flow {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if len(opts.Steps) == 0 {
		opts.Steps = DefaultSteps()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	f := &Flow{
		id:         opts.ID,
		steps:      opts.Steps,
		quoter:     quoter,
		submitter:  submitter,
		now:        opts.Now,
		customerID: opts.CustomerID,
		prefill:    opts.Prefill,
	}
	f.resetLocked()
	return f
}

func (f *Flow) ID() string {
	return f.id
}

func (f *Flow) CustomerID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customerID
}

// LastActivity returns when the flow last changed.
func (f *Flow) LastActivity() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updatedAt
}

func (f *Flow) stepContext() StepContext {
	return StepContext{Now: f.now(), CustomerID: f.customerID}
}

func (f *Flow) touch() {
	f.updatedAt = f.now()
}

// editableLocked reports why the draft cannot change right now, if it cannot.
func (f *Flow) editableLocked() error {
	switch {
	case f.status == domain.FlowStatusSubmitted:
		return ErrFlowSubmitted
	case f.submitting:
		return ErrSubmitInProgress
	}
	return nil
}

func (f *Flow) clearErrors() {
	f.fieldErrors = domain.FieldErrors{}
	f.stepError = ""
	f.errorCode = ""
}

// GoNext advances one step when the current step is valid. An invalid step
// records its field errors and leaves the index unchanged. The last step is
// a ceiling, not an error.
func (f *Flow) GoNext() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status == domain.FlowStatusSubmitted {
		return false, ErrFlowSubmitted
	}
	f.touch()

	errs := f.steps[f.stepIndex].Validate(f.draft, f.stepContext())
	if len(errs) > 0 {
		f.fieldErrors = errs
		return false, nil
	}

	f.clearErrors()
	if f.stepIndex == len(f.steps)-1 {
		return false, nil
	}
	f.stepIndex++
	return true, nil
}

// GoPrevious moves back one step. It is refused on the first step.
func (f *Flow) GoPrevious() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(); err != nil {
		return err
	}
	if f.stepIndex == 0 {
		return ErrAtFirstStep
	}
	f.stepIndex--
	f.clearErrors()
	f.touch()
	return nil
}

// UpdateField sets one draft field. See UpdateFields.
func (f *Flow) UpdateField(ctx context.Context, path string, value any) error {
	return f.UpdateFields(ctx, map[string]any{path: value})
}

// UpdateFields sets several draft fields at once. The draft is replaced rather
// than edited in place. Values a setter rejects are skipped and reported in the
// returned ValidationError; the rest are applied. When a pricing input changed,
// the current price is discarded and, if the inputs are complete, a single new
// quote is requested before returning. A failed quote is reported through the
// pricing state, not the returned error. No field is applied if any path is
// unknown, or while a submission is in flight.
func (f *Flow) UpdateFields(ctx context.Context, values map[string]any) error {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	fields := make([]string, len(paths))
	for i, p := range paths {
		field, ok := CanonicalField(p)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, p)
		}
		fields[i] = field
	}

	f.mu.Lock()
	if err := f.editableLocked(); err != nil {
		f.mu.Unlock()
		return err
	}

	next := f.draft.Clone()
	invalid := domain.FieldErrors{}
	for i, field := range fields {
		if err := setters[field](&next, values[paths[i]]); err != nil {
			invalid[field] = err.Error()
			continue
		}
		delete(f.fieldErrors, field)
	}
	f.touch()

	var invalidErr error
	if len(invalid) > 0 {
		invalidErr = domain.NewValidationError(invalid)
	}

	if reflect.DeepEqual(next, f.draft) {
		f.mu.Unlock()
		return invalidErr
	}
	repricing := !samePricingInputs(f.draft, next)
	f.draft = next
	// A changed draft is a different booking request.
	f.clientRequestID = ""

	if !repricing {
		f.mu.Unlock()
		return invalidErr
	}

	f.pricingSeq++
	f.draft.Pricing = nil
	f.pricingError = ""
	if !quotable(f.draft) {
		f.pricingStatus = PricingIdle
		f.mu.Unlock()
		return invalidErr
	}
	f.pricingStatus = PricingStale
	f.mu.Unlock()

	if err := f.Recompute(ctx); err != nil && !errors.Is(err, errPricingSuperseded) {
		logger.WarnContext(ctx, "Price recompute failed", "flowID", f.id, "fields", fields, "error", err)
	}
	return invalidErr
}

func samePricingInputs(a, b domain.BookingDraft) bool {
	return reflect.DeepEqual(a.ServiceIDs, b.ServiceIDs) &&
		a.Vehicle.SizeID == b.Vehicle.SizeID &&
		a.Address.Postcode == b.Address.Postcode
}

// quotable reports whether the draft has enough to ask for a price. Without a
// size and a well-formed postcode no request is made.
func quotable(d domain.BookingDraft) bool {
	return d.Vehicle.SizeID != "" && domain.IsValidPostcode(d.Address.Postcode)
}

// Recompute requests a fresh quote for the current draft. Only the most recently
// issued request may update the flow; older responses are dropped.
func (f *Flow) Recompute(ctx context.Context) error {
	f.mu.Lock()
	if err := f.editableLocked(); err != nil {
		f.mu.Unlock()
		return err
	}
	if !quotable(f.draft) {
		f.mu.Unlock()
		return ErrPricingIncomplete
	}
	f.pricingSeq++
	seq := f.pricingSeq
	req := f.draft.QuoteRequest()
	f.pricingStatus = PricingCalculating
	f.pricingError = ""
	f.mu.Unlock()

	breakdown, err := f.quoter.Quote(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.pricingSeq {
		logger.DebugContext(ctx, "Discarding superseded quote", "flowID", f.id, "seq", seq, "latest", f.pricingSeq)
		return errPricingSuperseded
	}
	f.touch()

	if err != nil {
		f.pricingStatus = PricingFailed
		f.draft.Pricing = nil
		f.pricingError = pricingErrorMessage(err)
		f.stepError = f.pricingError
		f.errorCode = CodePricingFailed
		return err
	}

	f.pricingStatus = PricingReady
	f.draft.Pricing = breakdown
	if f.errorCode == CodePricingFailed {
		f.stepError = ""
		f.errorCode = ""
	}
	return nil
}

func pricingErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDistanceLookup):
		return distanceFailedMessage
	case errors.Is(err, domain.ErrNoPriceForSize), errors.Is(err, domain.ErrNotFound):
		return invalidSelectionMessage
	}
	if ve, ok := domain.IsValidation(err); ok {
		return ve.Error()
	}
	return pricingFailedMessage
}

// Submit sends the completed draft for booking. It is only allowed on the last
// step with every step valid and a ready price. Retries of the same draft reuse
// the same client request ID so the server can drop duplicates.
func (f *Flow) Submit(ctx context.Context) (*domain.Booking, error) {
	f.mu.Lock()
	switch {
	case f.status == domain.FlowStatusSubmitted:
		f.mu.Unlock()
		return nil, ErrFlowSubmitted
	case f.submitting:
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	case f.stepIndex != len(f.steps)-1:
		f.mu.Unlock()
		return nil, ErrNotAtFinalStep
	}
	f.touch()

	sc := f.stepContext()
	errs := domain.FieldErrors{}
	for _, step := range f.steps {
		errs = domain.Merge(errs, step.Validate(f.draft, sc))
	}
	if len(errs) > 0 {
		f.fieldErrors = errs
		f.stepError = ""
		f.errorCode = CodeValidation
		f.mu.Unlock()
		return nil, domain.NewValidationError(errs)
	}
	if f.pricingStatus != PricingReady || f.draft.Pricing == nil {
		f.mu.Unlock()
		return nil, ErrPricingNotReady
	}

	if f.clientRequestID == "" {
		f.clientRequestID = uuid.NewString()
	}
	req := f.draft.BookingRequest(f.clientRequestID, f.customerID)
	f.submitting = true
	f.mu.Unlock()

	booking, err := f.submitter.CreateBooking(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	f.touch()

	if err != nil {
		f.applySubmitError(err)
		return nil, err
	}

	f.status = domain.FlowStatusSubmitted
	f.reference = booking.Reference
	f.draft = domain.BookingDraft{}
	f.pricingSeq++
	f.pricingStatus = PricingIdle
	f.clearErrors()
	return booking, nil
}

func (f *Flow) applySubmitError(err error) {
	if errors.Is(err, domain.ErrSlotUnavailable) {
		if i := indexOf(f.steps, StepSchedule); i >= 0 {
			f.stepIndex = i
		}
		f.draft.TimeSlotID = ""
		f.clientRequestID = ""
		f.fieldErrors = domain.FieldErrors{domain.FieldTimeSlot: slotTakenMessage}
		f.stepError = slotTakenMessage
		f.errorCode = CodeSlotUnavailable
		return
	}
	if ve, ok := domain.IsValidation(err); ok {
		f.fieldErrors = domain.Merge(ve.Fields)
		f.stepError = ""
		f.errorCode = CodeValidation
		return
	}
	f.stepError = submitFailedMessage
	f.errorCode = CodeSubmitFailed
}

// Reset starts over on the first step with an empty draft. Contact details of a
// signed-in customer are kept as the pre-fill. A flow cannot be reset while its
// submission is in flight.
func (f *Flow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return ErrSubmitInProgress
	}
	f.resetLocked()
	return nil
}

func (f *Flow) resetLocked() {
	f.stepIndex = 0
	f.status = domain.FlowStatusInProgress
	f.draft = domain.BookingDraft{Contact: f.prefill}
	f.pricingSeq++
	f.pricingStatus = PricingIdle
	f.pricingError = ""
	f.clearErrors()
	f.submitting = false
	f.clientRequestID = ""
	f.reference = ""
	f.touch()
}

// StepInfo describes one step for display.
type StepInfo struct {
	ID    StepID `json:"id"`
	Title string `json:"title"`
	Valid bool   `json:"valid"`
}

// PricingView is the price as the wizard may display it.
type PricingView struct {
	Status    PricingStatus          `json:"status"`
	Summary   *pricing.Summary       `json:"summary,omitempty"`
	Breakdown *domain.PriceBreakdown `json:"breakdown,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// State is a read-only view of a flow.
type State struct {
	ID            string              `json:"id"`
	Status        domain.FlowStatus   `json:"status"`
	Step          StepID              `json:"step"`
	StepIndex     int                 `json:"step_index"`
	Steps         []StepInfo          `json:"steps"`
	Draft         domain.BookingDraft `json:"draft"`
	Pricing       PricingView         `json:"pricing"`
	FieldErrors   domain.FieldErrors  `json:"field_errors"`
	StepError     string              `json:"step_error,omitempty"`
	ErrorCode     string              `json:"error_code,omitempty"`
	CanGoNext     bool                `json:"can_go_next"`
	CanGoPrevious bool                `json:"can_go_previous"`
	CanSubmit     bool                `json:"can_submit"`
	Submitting    bool                `json:"submitting"`
	Reference     string              `json:"booking_reference,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	sc := f.stepContext()
	steps := make([]StepInfo, len(f.steps))
	allValid := true
	for i, s := range f.steps {
		valid := len(s.Validate(f.draft, sc)) == 0
		steps[i] = StepInfo{ID: s.ID, Title: s.Title, Valid: valid}
		allValid = allValid && valid
	}

	view := PricingView{Status: f.pricingStatus, Error: f.pricingError}
	if f.pricingStatus == PricingReady && f.draft.Pricing != nil {
		summary := pricing.Summarize(f.draft.Pricing)
		view.Summary = &summary
		view.Breakdown = f.draft.Pricing
	}

	last := f.stepIndex == len(f.steps)-1
	inProgress := f.status == domain.FlowStatusInProgress

	return State{
		ID:            f.id,
		Status:        f.status,
		Step:          f.steps[f.stepIndex].ID,
		StepIndex:     f.stepIndex,
		Steps:         steps,
		Draft:         f.draft.Clone(),
		Pricing:       view,
		FieldErrors:   domain.Merge(f.fieldErrors),
		StepError:     f.stepError,
		ErrorCode:     f.errorCode,
		CanGoNext:     inProgress && !last && steps[f.stepIndex].Valid,
		CanGoPrevious: inProgress && f.stepIndex > 0,
		CanSubmit:     inProgress && last && allValid && f.pricingStatus == PricingReady && !f.submitting,
		Submitting:    f.submitting,
		Reference:     f.reference,
		UpdatedAt:     f.updatedAt,
	}
}

// Snapshot captures the persistent part of the flow.
func (f *Flow) Snapshot() *domain.FlowSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.FlowSnapshot{
		ID:              f.id,
		StepIndex:       f.stepIndex,
		Status:          f.status,
		Draft:           f.draft.Clone(),
		CustomerID:      f.customerID,
		Prefill:         f.prefill,
		ClientRequestID: f.clientRequestID,
		Reference:       f.reference,
		UpdatedAt:       f.updatedAt,
	}
}

// Restore rebuilds a flow from a snapshot. A stored price is trusted as ready;
// complete inputs without a price are left stale for the next recompute.
func Restore(snap *domain.FlowSnapshot, quoter Quoter, submitter Submitter, now func() time.Time) *Flow {
	f := New(quoter, submitter, Options{
		ID:         snap.ID,
		CustomerID: snap.CustomerID,
		Prefill:    snap.Prefill,
		Now:        now,
	})
	f.stepIndex = snap.StepIndex
	if f.stepIndex < 0 || f.stepIndex >= len(f.steps) {
		f.stepIndex = 0
	}
	f.status = snap.Status
	if f.status == "" {
		f.status = domain.FlowStatusInProgress
	}
	f.draft = snap.Draft.Clone()
	f.clientRequestID = snap.ClientRequestID
	f.reference = snap.Reference
	if !snap.UpdatedAt.IsZero() {
		f.updatedAt = snap.UpdatedAt
	}
	switch {
	case f.draft.Pricing != nil:
		f.pricingStatus = PricingReady
	case quotable(f.draft):
		f.pricingStatus = PricingStale
	default:
		f.pricingStatus = PricingIdle
	}
	return f
}
