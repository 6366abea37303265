package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/snapshare/backend/internal/common"
	"github.com/snapshare/backend/internal/geocode"
)

// Error messages reused across handlers. Wording for auth and credential
// failures is deliberately unspecific.
const (
	msgAuthFailed     = "Authentication failed."
	msgInvalidInputs  = "Invalid inputs. Please enter correct information."
	msgBadCredentials = "Invalid credentials. Please try again."
	msgInternal       = "Something went wrong, please try again."
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes the uniform error shape: {"message": "..."}.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// errorStatus maps service-level sentinels to HTTP status codes. Geocoding
// failures keep the geocoder's own nature: an unresolvable address is the
// caller's problem (422), an upstream outage is not (502).
func errorStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorEmailTaken):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geocode.ErrNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geocode.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrorNotOwner):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
