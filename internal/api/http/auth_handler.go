package http

import (
	"errors"
	"net/http"
	"time"

	"mobile-detailing-backend/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	User        *domain.Customer `json:"user"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, badRequest("email and password are required"), nil)
		return
	}

	customer, token, expires, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, ExpiresAt: expires, User: customer})
}

// currentUser never fails for a missing session; the booking flow works for guests too.
func (h *handler) currentUser(w http.ResponseWriter, r *http.Request) {
	customerID := customerIDFromContext(r.Context())
	if customerID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	customer, err := h.auth.CurrentUser(r.Context(), customerID)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": customer})
}
