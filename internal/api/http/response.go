package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mobile-detailing-backend/internal/domain"
	"mobile-detailing-backend/internal/flow"
	"mobile-detailing-backend/internal/logger"
)

const maxBodyBytes = 1 << 20

// envelope is the shape of every JSON response.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  domain.FieldErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: status < 400, Data: data}); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError maps err to a status and error code. data, when given, is sent
// alongside the error so clients can re-render from it.
func writeError(w http.ResponseWriter, r *http.Request, err error, data any) {
	status, body := classify(err)
	if status >= 500 {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Data: data, Error: body}); err != nil {
		logger.Warn("Failed to encode error response", "error", err)
	}
}

func classify(err error) (int, *errorBody) {
	if ve, ok := domain.IsValidation(err); ok {
		return http.StatusUnprocessableEntity, &errorBody{Code: "validation_failed", Message: "Please check the highlighted fields.", Fields: ve.Fields}
	}

	var he *httpError
	if errors.As(err, &he) {
		return he.status, &errorBody{Code: he.code, Message: he.message}
	}

	switch {
	case errors.Is(err, flow.ErrUnknownField):
		return http.StatusUnprocessableEntity, &errorBody{Code: "unknown_field", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, flow.ErrFlowNotFound):
		return http.StatusNotFound, &errorBody{Code: "not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrSlotUnavailable):
		return http.StatusConflict, &errorBody{Code: "slot_unavailable", Message: "That time slot has just been taken. Please choose another."}
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict, &errorBody{Code: "email_in_use", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict, &errorBody{Code: "duplicate_request", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredential):
		return http.StatusUnauthorized, &errorBody{Code: "invalid_credentials", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, &errorBody{Code: "unauthorized", Message: "Please sign in."}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, &errorBody{Code: "forbidden", Message: "You do not have access to this resource."}
	case errors.Is(err, domain.ErrDistanceLookup):
		return http.StatusBadGateway, &errorBody{Code: "distance_unavailable", Message: "We couldn't work out the travel distance right now. Please try again."}
	case errors.Is(err, flow.ErrAtFirstStep):
		return http.StatusConflict, &errorBody{Code: "at_first_step", Message: err.Error()}
	case errors.Is(err, flow.ErrFlowSubmitted):
		return http.StatusConflict, &errorBody{Code: "already_submitted", Message: err.Error()}
	case errors.Is(err, flow.ErrNotAtFinalStep):
		return http.StatusConflict, &errorBody{Code: "not_at_final_step", Message: err.Error()}
	case errors.Is(err, flow.ErrSubmitInProgress):
		return http.StatusConflict, &errorBody{Code: "submit_in_progress", Message: err.Error()}
	case errors.Is(err, flow.ErrPricingNotReady):
		return http.StatusConflict, &errorBody{Code: "pricing_not_ready", Message: err.Error()}
	case errors.Is(err, flow.ErrPricingIncomplete):
		return http.StatusUnprocessableEntity, &errorBody{Code: "pricing_incomplete", Message: err.Error()}
	}
	return http.StatusInternalServerError, &errorBody{Code: "internal_error", Message: "Something went wrong. Please try again."}
}

// httpError is a request error raised by the handlers themselves.
type httpError struct {
	status  int
	code    string
	message string
}

func (e *httpError) Error() string {
	return e.message
}

func badRequest(message string) error {
	return &httpError{status: http.StatusBadRequest, code: "bad_request", message: message}
}

var errTooManyRequests = &httpError{status: http.StatusTooManyRequests, code: "rate_limited", message: "Too many requests. Please try again shortly."}

// decodeJSON reads a JSON body into dst. An empty body leaves dst unchanged.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return badRequest("invalid JSON body: " + err.Error())
}
