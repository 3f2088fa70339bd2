package http

import (
	"net/http"
	"net/netip"

	"mobile-detailing-backend/internal/flow"
	"mobile-detailing-backend/internal/security"
	"mobile-detailing-backend/internal/service"

	"github.com/gorilla/mux"
)

// Dependencies are the services the HTTP API is built on.
type Dependencies struct {
	Catalog   service.CatalogService
	Pricing   service.PricingService
	Bookings  service.BookingService
	Customers service.CustomerService
	Auth      service.AuthService
	Flows     *flow.Manager
	Tokens    security.TokenManager

	BookingsPerMinute int
	BookingBurst      int
	// TrustedProxies are the proxies whose forwarding headers identify the client.
	TrustedProxies []netip.Prefix
}

type handler struct {
	catalog   service.CatalogService
	pricing   service.PricingService
	bookings  service.BookingService
	customers service.CustomerService
	auth      service.AuthService
	flows     *flow.Manager
}

// NewRouter wires every route. Route security levels come from
// config.EndpointSecurityConfig, keyed by method and path template.
func NewRouter(deps Dependencies) *mux.Router {
	h := &handler{
		catalog:   deps.Catalog,
		pricing:   deps.Pricing,
		bookings:  deps.Bookings,
		customers: deps.Customers,
		auth:      deps.Auth,
		flows:     deps.Flows,
	}
	perMinute, burst := deps.BookingsPerMinute, deps.BookingBurst
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 3
	}
	limiter := newIPRateLimiter(perMinute, burst, deps.TrustedProxies)

	r := mux.NewRouter()
	r.Use(recoverMiddleware, requestIDMiddleware, loggingMiddleware)
	r.Use((&authMiddleware{tokens: deps.Tokens}).Middleware)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	// Catalog
	r.HandleFunc("/services", h.listServices).Methods(http.MethodGet)
	r.HandleFunc("/vehicle-sizes", h.listVehicleSizes).Methods(http.MethodGet)
	r.HandleFunc("/time-slots", h.listAvailableSlots).Methods(http.MethodGet)
	r.HandleFunc("/pricing/calculate", h.calculatePrice).Methods(http.MethodPost)

	// Bookings
	r.HandleFunc("/bookings", limiter.Wrap(h.createBooking)).Methods(http.MethodPost)
	r.HandleFunc("/bookings/create", limiter.Wrap(h.createBooking)).Methods(http.MethodPost)
	r.HandleFunc("/bookings/{reference}", h.getBooking).Methods(http.MethodGet)
	r.HandleFunc("/me/bookings", h.listMyBookings).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/user", h.currentUser).Methods(http.MethodGet)

	// Booking flow
	r.HandleFunc("/flows", h.createFlow).Methods(http.MethodPost)
	r.HandleFunc("/flows/{id}", h.getFlow).Methods(http.MethodGet)
	r.HandleFunc("/flows/{id}/fields", h.updateFlowFields).Methods(http.MethodPatch)
	r.HandleFunc("/flows/{id}/next", h.flowNext).Methods(http.MethodPost)
	r.HandleFunc("/flows/{id}/previous", h.flowPrevious).Methods(http.MethodPost)
	r.HandleFunc("/flows/{id}/pricing", h.flowRecompute).Methods(http.MethodPost)
	r.HandleFunc("/flows/{id}/submit", limiter.Wrap(h.flowSubmit)).Methods(http.MethodPost)
	r.HandleFunc("/flows/{id}/reset", h.flowReset).Methods(http.MethodPost)

	// Back-office
	r.HandleFunc("/admin/services", h.adminListServices).Methods(http.MethodGet)
	r.HandleFunc("/admin/services", h.adminCreateService).Methods(http.MethodPost)
	r.HandleFunc("/admin/services/{id}", h.adminUpdateService).Methods(http.MethodPut)
	r.HandleFunc("/admin/services/{id}", h.adminDeleteService).Methods(http.MethodDelete)
	r.HandleFunc("/admin/vehicle-sizes", h.listVehicleSizes).Methods(http.MethodGet)
	r.HandleFunc("/admin/vehicle-sizes", h.adminCreateVehicleSize).Methods(http.MethodPost)
	r.HandleFunc("/admin/vehicle-sizes/{id}", h.adminUpdateVehicleSize).Methods(http.MethodPut)
	r.HandleFunc("/admin/vehicle-sizes/{id}", h.adminDeleteVehicleSize).Methods(http.MethodDelete)
	r.HandleFunc("/admin/customers", h.adminListCustomers).Methods(http.MethodGet)
	r.HandleFunc("/admin/customers/{id}", h.adminGetCustomer).Methods(http.MethodGet)
	r.HandleFunc("/admin/customers/{id}", h.adminUpdateCustomer).Methods(http.MethodPut)
	r.HandleFunc("/admin/bookings", h.adminListBookings).Methods(http.MethodGet)
	r.HandleFunc("/admin/bookings/{reference}/status", h.adminUpdateBookingStatus).Methods(http.MethodPut)
	r.HandleFunc("/admin/time-slots", h.adminListTimeSlots).Methods(http.MethodGet)
	r.HandleFunc("/admin/time-slots", h.adminCreateTimeSlot).Methods(http.MethodPost)

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
