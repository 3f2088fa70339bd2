package http

import (
	"net/http"
	"strconv"

	"mobile-detailing-backend/internal/domain"

	"github.com/gorilla/mux"
)

func pageParams(r *http.Request) (int32, int32) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	size, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)
	return int32(page), int32(size)
}

func (h *handler) adminListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListAllServices(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (h *handler) adminCreateService(w http.ResponseWriter, r *http.Request) {
	svc := domain.Service{Active: true}
	if err := decodeJSON(r, &svc); err != nil {
		writeError(w, r, err, nil)
		return
	}
	if err := h.catalog.CreateService(r.Context(), &svc); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"service": svc})
}

func (h *handler) adminUpdateService(w http.ResponseWriter, r *http.Request) {
	var svc domain.Service
	if err := decodeJSON(r, &svc); err != nil {
		writeError(w, r, err, nil)
		return
	}
	svc.ID = mux.Vars(r)["id"]
	if err := h.catalog.UpdateService(r.Context(), &svc); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"service": svc})
}

// adminDeleteService withdraws a service. Past bookings keep their lines.
func (h *handler) adminDeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeactivateService(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deactivated": true})
}

func (h *handler) adminCreateVehicleSize(w http.ResponseWriter, r *http.Request) {
	var size domain.VehicleSize
	if err := decodeJSON(r, &size); err != nil {
		writeError(w, r, err, nil)
		return
	}
	if err := h.catalog.CreateVehicleSize(r.Context(), &size); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"vehicle_size": size})
}

func (h *handler) adminUpdateVehicleSize(w http.ResponseWriter, r *http.Request) {
	var size domain.VehicleSize
	if err := decodeJSON(r, &size); err != nil {
		writeError(w, r, err, nil)
		return
	}
	size.ID = mux.Vars(r)["id"]
	if err := h.catalog.UpdateVehicleSize(r.Context(), &size); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle_size": size})
}

func (h *handler) adminDeleteVehicleSize(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteVehicleSize(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

type pagedResponse struct {
	Items    any   `json:"items"`
	Total    int32 `json:"total"`
	Page     int32 `json:"page"`
	PageSize int32 `json:"page_size"`
}

func (h *handler) adminListCustomers(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	customers, total, err := h.customers.ListCustomers(r.Context(), r.URL.Query().Get("q"), page, size)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: customers, Total: total, Page: page, PageSize: size})
}

func (h *handler) adminGetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer": customer})
}

func (h *handler) adminUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var contact domain.Contact
	if err := decodeJSON(r, &contact); err != nil {
		writeError(w, r, err, nil)
		return
	}
	customer, err := h.customers.UpdateCustomer(r.Context(), mux.Vars(r)["id"], contact)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer": customer})
}

func (h *handler) adminListBookings(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	status := domain.BookingStatus(r.URL.Query().Get("status"))
	bookings, total, err := h.bookings.ListBookings(r.Context(), status, page, size)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: bookings, Total: total, Page: page, PageSize: size})
}

type statusUpdate struct {
	Status domain.BookingStatus `json:"status"`
}

func (h *handler) adminUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var body statusUpdate
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, nil)
		return
	}
	reference := mux.Vars(r)["reference"]
	if err := h.bookings.UpdateBookingStatus(r.Context(), reference, body.Status); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"booking_reference": reference, "status": body.Status})
}

func (h *handler) adminListTimeSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slots, err := h.catalog.ListTimeSlots(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"time_slots": slots})
}

func (h *handler) adminCreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var slot domain.TimeSlot
	if err := decodeJSON(r, &slot); err != nil {
		writeError(w, r, err, nil)
		return
	}
	if err := h.catalog.CreateTimeSlot(r.Context(), &slot); err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"time_slot": slot})
}
