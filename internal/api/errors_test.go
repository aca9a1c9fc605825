package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusBadRequest, ErrorCodeBadRequest},
		{http.StatusUnauthorized, ErrorCodeUnauthorized},
		{http.StatusForbidden, ErrorCodeForbidden},
		{http.StatusNotFound, ErrorCodeNotFound},
		{http.StatusMethodNotAllowed, ErrorCodeMethodNotAllowed},
		{http.StatusConflict, ErrorCodeConflict},
		{http.StatusUnprocessableEntity, ErrorCodeValidationError},
		{http.StatusTooManyRequests, ErrorCodeTooManyRequests},
		{http.StatusInternalServerError, ErrorCodeInternalError},
		{http.StatusServiceUnavailable, ErrorCodeServiceUnavailable},
		{http.StatusTeapot, ErrorCodeError},
	}

	for _, tt := range tests {
		if got := ResolveErrorCode(tt.status); got != tt.want {
			t.Errorf("ResolveErrorCode(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusUnprocessableEntity, "Request validation failed",
		[]ValidationIssue{{Field: "email", Message: "failed validation on 'email'"}})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var resp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Code != "validation_error" {
		t.Errorf("code = %q, want validation_error", resp.Code)
	}
	if len(resp.Details) != 1 || resp.Details[0].Field != "email" {
		t.Errorf("details = %+v, want one email issue", resp.Details)
	}
}
