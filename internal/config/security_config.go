// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // token optional, parsed when present
	SecurityCustomer                      // any signed-in customer
	SecurityAdmin                         // admin role required
)

// EndpointSecurityConfig maps "METHOD /path-template" routes to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	"GET /health":             SecurityPublic,
	"GET /services":           SecurityPublic,
	"GET /vehicle-sizes":      SecurityPublic,
	"GET /time-slots":         SecurityPublic,
	"POST /pricing/calculate": SecurityPublic,
	"POST /bookings":          SecurityPublic,
	"POST /bookings/create":   SecurityPublic,
	"POST /auth/login":        SecurityPublic,
	"GET /auth/user":          SecurityPublic,

	// Booking flow - guests may book, so flows are public
	"POST /flows":               SecurityPublic,
	"GET /flows/{id}":           SecurityPublic,
	"PATCH /flows/{id}/fields":  SecurityPublic,
	"POST /flows/{id}/next":     SecurityPublic,
	"POST /flows/{id}/previous": SecurityPublic,
	"POST /flows/{id}/pricing":  SecurityPublic,
	"POST /flows/{id}/submit":   SecurityPublic,
	"POST /flows/{id}/reset":    SecurityPublic,

	// Customer
	"GET /bookings/{reference}": SecurityCustomer,
	"GET /me/bookings":          SecurityCustomer,

	// Admin back-office
	"GET /admin/services":                    SecurityAdmin,
	"POST /admin/services":                   SecurityAdmin,
	"PUT /admin/services/{id}":               SecurityAdmin,
	"DELETE /admin/services/{id}":            SecurityAdmin,
	"GET /admin/vehicle-sizes":               SecurityAdmin,
	"POST /admin/vehicle-sizes":              SecurityAdmin,
	"PUT /admin/vehicle-sizes/{id}":          SecurityAdmin,
	"DELETE /admin/vehicle-sizes/{id}":       SecurityAdmin,
	"GET /admin/customers":                   SecurityAdmin,
	"GET /admin/customers/{id}":              SecurityAdmin,
	"PUT /admin/customers/{id}":              SecurityAdmin,
	"GET /admin/bookings":                    SecurityAdmin,
	"PUT /admin/bookings/{reference}/status": SecurityAdmin,
	"GET /admin/time-slots":                  SecurityAdmin,
	"POST /admin/time-slots":                 SecurityAdmin,
}

// GetSecurityLevel returns the security level for a route key
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
