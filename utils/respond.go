package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"vibecheck_server/services"
)

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("❌ Failed to encode response: %v", err)
		}
	}
}

// RespondError maps a service error to an HTTP status and writes the error
// body. Internal details are not leaked to clients.
func RespondError(w http.ResponseWriter, err error) {
	code := services.CodeOf(err)
	status := http.StatusInternalServerError
	message := "internal server error"

	switch code {
	case services.CodeUnauthenticated:
		status = http.StatusUnauthorized
		message = err.Error()
	case services.CodeNotAParticipant:
		status = http.StatusForbidden
		message = err.Error()
	case services.CodeNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case services.CodeInvalidOperation, services.CodeValidation:
		status = http.StatusBadRequest
		message = err.Error()
	case services.CodeConflict:
		status = http.StatusConflict
		message = err.Error()
	default:
		log.Printf("❌ Internal error: %v", err)
	}

	RespondJSON(w, status, map[string]string{"error": message, "code": string(code)})
}
