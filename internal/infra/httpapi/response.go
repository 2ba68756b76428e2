package httpapi

import (
	"encoding/json"
	"net/http"
)

// Error codes returned in the envelope.
const (
	codeInvalidDate       = "INVALID_DATE"
	codeInvalidSubscriber = "INVALID_SUBSCRIBER"
	codeNotConfigured     = "PROVIDER_NOT_CONFIGURED"
	codeProviderError     = "PROVIDER_ERROR"
	codeDatabaseDown      = "DATABASE_UNAVAILABLE"
	codeInternal          = "INTERNAL_ERROR"
)

// envelope wraps every /api/v1 and /health response.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// cronError is the flat body of a failed trigger call; schedulers only look
// for the "error" key.
type cronError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Error: &errorBody{Code: code, Message: message}})
}

func writeCronError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, cronError{Error: message, Details: details})
}
