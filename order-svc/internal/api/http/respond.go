package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"campus-canteen/logging"
	"campus-canteen/order-svc/internal/domain"
)

type errorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ok writes {"ok": true, key: value}.
func ok(w http.ResponseWriter, status int, key string, value any) {
	body := map[string]any{"ok": true}
	if key != "" {
		body[key] = value
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch domain.ReasonOf(err) {
	case domain.ReasonBookingClosed:
		return http.StatusForbidden
	case domain.ReasonVendorUnavailable, domain.ReasonItemUnavailable, domain.ReasonValidation:
		return http.StatusBadRequest
	case domain.ReasonNotFound:
		return http.StatusNotFound
	case domain.ReasonInvalidTransition, domain.ReasonVendorBusy:
		return http.StatusConflict
	case domain.ReasonUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorStatus(w, r, statusFor(err), err)
}

// writeErrorStatus hides the message of unclassified errors from clients and
// logs it instead.
func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, err error) {
	reason := domain.ReasonOf(err)
	msg := err.Error()
	if reason == domain.ReasonInternal {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Reason: reason})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.Validation("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
			return domain.Validation("invalid JSON body: %v", err)
		}
		return domain.Validation("invalid request body: %v", err)
	}
	return nil
}
