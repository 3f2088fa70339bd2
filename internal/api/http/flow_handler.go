package http

import (
	"errors"
	"net/http"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/flow"
	"mobile-detailing-backend/internal/logger"

	"github.com/gorilla/mux"
)

// fieldUpdate is the PATCH body. Either a single path/value pair or a map of them.
type fieldUpdate struct {
	Path   string         `json:"path"`
	Value  any            `json:"value"`
	Fields map[string]any `json:"fields"`
}

func (u fieldUpdate) values() map[string]any {
	values := make(map[string]any, len(u.Fields)+1)
	for k, v := range u.Fields {
		values[k] = v
	}
	if u.Path != "" {
		values[u.Path] = u.Value
	}
	return values
}

func (h *handler) createFlow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	customerID := customerIDFromContext(ctx)

	var prefill domain.Contact
	if customerID != "" {
		c, err := h.customers.GetCustomer(ctx, customerID)
		if err != nil {
			logger.WarnContext(ctx, "Could not pre-fill booking flow", "customerID", customerID, "error", err)
		} else {
			prefill = c.Contact()
		}
	}

	f, err := h.flows.Create(ctx, customerID, prefill)
	if err != nil {
		// The flow lives in memory even when the snapshot write failed.
		logger.WarnContext(ctx, "Booking flow snapshot not saved", "flowID", f.ID(), "error", err)
	}
	writeJSON(w, http.StatusCreated, f.State())
}

// loadFlow finds the flow named in the path and checks the caller may use it.
// A flow started by a signed-in customer belongs to that customer.
func (h *handler) loadFlow(w http.ResponseWriter, r *http.Request) (*flow.Flow, bool) {
	f, err := h.flows.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, nil)
		return nil, false
	}
	if owner := f.CustomerID(); owner != "" {
		claims := claimsFromContext(r.Context())
		if claims == nil {
			writeError(w, r, domain.ErrUnauthorized, nil)
			return nil, false
		}
		if claims.CustomerID != owner && !claims.IsAdmin() {
			writeError(w, r, domain.ErrForbidden, nil)
			return nil, false
		}
	}
	return f, true
}

func (h *handler) saveFlow(r *http.Request, f *flow.Flow) {
	if err := h.flows.Save(r.Context(), f); err != nil {
		logger.WarnContext(r.Context(), "Booking flow snapshot not saved", "flowID", f.ID(), "error", err)
	}
}

func (h *handler) getFlow(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadFlow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, f.State())
}

func (h *handler) updateFlowFields(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadFlow(w, r)
	if !ok {
		return
	}
	var body fieldUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, nil)
		return
	}
	values := body.values()
	if len(values) == 0 {
		writeError(w, r, badRequest("no fields to update"), nil)
		return
	}

	err := f.UpdateFields(r.Context(), values)
	if _, isValidation := domain.IsValidation(err); err == nil || isValidation {
		h.saveFlow(r, f)
	}
	if err != nil {
		writeError(w, r, err, f.State())
		return
	}
	writeJSON(w, http.StatusOK, f.State())
}

func (h *handler) flowNext(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadFlow(w, r)
	if !ok {
		return
	}
	advanced, err := f.GoNext()
	if err != nil {
		writeError(w, r, err, f.State())
		return
	}
	h.saveFlow(r, f)
	writeJSON(w, http.StatusOK, map[string]any{"advanced": advanced, "flow": f.State()})
}

func (h *handler) flowPrevious(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadFlow(w, r)
	if !ok {
		return
	}
	if err := f.GoPrevious(); err != nil {
		writeError(w, r, err, f.State())
		return
	}
	h.saveFlow(r, f)
	writeJSON(w, http.StatusOK, f.State())
}

// flowRecompute asks for a fresh price. A failed quote is part of the
// returned state rather than an HTTP error.
func (h *handler) flowRecompute(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadFlow(w, r)
	if !ok {
		return
	}
	err := f.Recompute(r.Context())
	if errors.Is(err, flow.ErrPricingIncomplete) || errors.Is(err, flow.ErrFlowSubmitted) {
		writeError(w, r, err, f.State())
		return
	}
	h.saveFlow(r, f)
	writeJSON(w, http.StatusOK, f.State())
}

func (h *handler) flowSubmit(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadFlow(w, r)
	if !ok {
		return
	}
	booking, err := f.Submit(r.Context())
	h.saveFlow(r, f)
	if err != nil {
		writeError(w, r, err, f.State())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"booking_reference": booking.Reference,
		"booking":           booking,
		"flow":              f.State(),
	})
}

func (h *handler) flowReset(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadFlow(w, r)
	if !ok {
		return
	}
	if err := f.Reset(); err != nil {
		writeError(w, r, err, f.State())
		return
	}
	h.saveFlow(r, f)
	writeJSON(w, http.StatusOK, f.State())
}
