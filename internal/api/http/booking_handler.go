package http

import (
	"net/http"

	"mobile-detailing-backend/internal/domain"

	"github.com/gorilla/mux"
)

func (h *handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}
	req.CustomerID = customerIDFromContext(r.Context())
	if req.ClientRequestID == "" {
		req.ClientRequestID = r.Header.Get("Idempotency-Key")
	}

	booking, err := h.bookings.CreateBooking(r.Context(), req)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"booking_reference": booking.Reference,
		"booking":           booking,
	})
}

func (h *handler) getBooking(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	booking, err := h.bookings.GetBooking(r.Context(), claims.CustomerID, claims.IsAdmin(), mux.Vars(r)["reference"])
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking": booking})
}

func (h *handler) listMyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListMyBookings(r.Context(), customerIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}
