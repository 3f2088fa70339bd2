package http

import (
	"net/http"
	"strings"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/pricing"
)

func (h *handler) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (h *handler) listVehicleSizes(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.catalog.ListVehicleSizes(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle_sizes": sizes})
}

func (h *handler) listAvailableSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slots, err := h.catalog.ListAvailableSlots(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"time_slots": slots})
}

// priceRequest accepts the field spellings existing clients send.
type priceRequest struct {
	ServiceIDs     []string `json:"serviceIds"`
	Services       []string `json:"services"`
	VehicleSizeID  string   `json:"vehicleSizeId"`
	VehicleSizeID2 string   `json:"vehicle_size_id"`
	CustomPostcode string   `json:"customPostcode"`
	Postcode       string   `json:"postcode"`
	ZipCode        string   `json:"zipCode"`
}

func (p priceRequest) quoteRequest() domain.QuoteRequest {
	return domain.QuoteRequest{
		ServiceIDs:    firstNonEmptyList(p.ServiceIDs, p.Services),
		VehicleSizeID: firstNonEmpty(p.VehicleSizeID, p.VehicleSizeID2),
		Postcode:      domain.NormalizePostcode(firstNonEmpty(p.CustomPostcode, p.Postcode, p.ZipCode)),
	}
}

type priceResponse struct {
	Summary   pricing.Summary        `json:"summary"`
	Breakdown *domain.PriceBreakdown `json:"breakdown"`
}

func (h *handler) calculatePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}
	quote := req.quoteRequest()
	if errs := domain.ValidateServiceSelection(quote.ServiceIDs); len(errs) > 0 {
		writeError(w, r, domain.NewValidationError(errs), nil)
		return
	}

	breakdown, err := h.pricing.Quote(r.Context(), quote)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{Summary: pricing.Summarize(breakdown), Breakdown: breakdown})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
