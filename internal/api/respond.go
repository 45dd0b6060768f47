package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"travelbook/internal/auth"
	"travelbook/internal/database"
	"travelbook/internal/service"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, message string, extra map[string]any) {
	body := map[string]any{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, statusCode, body)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"status": "error", "message": message})
}

// writeServiceError maps a service or store error onto the HTTP status that
// carries the primary error signal.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, errorStatus(err), errorMessage(err))
}

func errorStatus(err error) int {
	var vErr *service.ValidationError
	var seatErr *database.InsufficientSeatsError

	switch {
	case errors.As(err, &vErr),
		errors.As(err, &seatErr),
		errors.Is(err, database.ErrEmailTaken),
		errors.Is(err, database.ErrVehicleUnavailable),
		errors.Is(err, database.ErrAlreadyCancelled),
		errors.Is(err, database.ErrAlreadyReviewed),
		errors.Is(err, database.ErrDestinationHasTours),
		errors.Is(err, database.ErrTourHasBookings),
		errors.Is(err, database.ErrInvalidOTP):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, database.ErrReviewNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		// Internal details stay in the logs.
		return "internal server error"
	}
	return err.Error()
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
