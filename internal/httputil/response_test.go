package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cliplearn/cliplearn/internal/backend"
)

func TestWriteJSONSetsContentTypeHeader(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteJSON(recorder, http.StatusOK, map[string]string{"key": "value"})

	contentType := recorder.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}
}

func TestWriteJSONSetsStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"OK", http.StatusOK},
		{"Created", http.StatusCreated},
		{"BadRequest", http.StatusBadRequest},
		{"InternalServerError", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			WriteJSON(recorder, tt.statusCode, map[string]string{"key": "value"})

			if recorder.Code != tt.statusCode {
				t.Errorf("expected status %d, got %d", tt.statusCode, recorder.Code)
			}
		})
	}
}

func TestWriteErrorProducesCorrectJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteError(recorder, http.StatusBadRequest, "something went wrong")

	var body ErrorBody
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Error != "something went wrong" {
		t.Errorf("expected error message %q, got %q", "something went wrong", body.Error)
	}
}

func TestWriteBackendErrorKeepsAPIErrorDetail(t *testing.T) {
	recorder := httptest.NewRecorder()
	err := fmt.Errorf("delete course: %w", &backend.APIError{Status: http.StatusNotFound, Detail: "Course not found"})

	WriteBackendError(recorder, err)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", recorder.Code)
	}
	var body ErrorBody
	_ = json.NewDecoder(recorder.Body).Decode(&body)
	if body.Error != "Course not found" {
		t.Errorf("expected backend detail, got %q", body.Error)
	}
}

func TestWriteBackendErrorTransportFailureIs502(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteBackendError(recorder, errors.New("send request: connection refused"))

	if recorder.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", recorder.Code)
	}
}

func TestWriteBackendErrorDeadlineIs504(t *testing.T) {
	recorder := httptest.NewRecorder()

	WriteBackendError(recorder, fmt.Errorf("send request: %w", context.DeadlineExceeded))

	if recorder.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", recorder.Code)
	}
}
