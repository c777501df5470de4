package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cliplearn/cliplearn/internal/backend"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorBody{Error: message})
}

// WriteBackendError maps an error from the analysis backend to a console
// response. Structured backend errors keep their status and detail message;
// anything else (transport failure, unreachable backend) becomes a 502 so the
// user sees that the backend, not the console, is the problem.
func WriteBackendError(w http.ResponseWriter, err error) {
	if apiErr, ok := backend.AsAPIError(err); ok {
		WriteError(w, apiErr.Status, apiErr.Detail)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		WriteError(w, http.StatusGatewayTimeout, "analysis backend timed out")
		return
	}
	WriteError(w, http.StatusBadGateway, "analysis backend unreachable")
}
