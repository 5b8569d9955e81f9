package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akarpov87/homehistory/internal/common"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		contains string
	}{
		{"bad request", common.ErrBadRequest, http.StatusBadRequest, "bad request"},
		{"unauthorized", common.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", common.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", common.ErrNotFound, http.StatusNotFound, "not found"},
		{"conflict", common.ErrAlreadyExists, http.StatusConflict, "already exists"},
		{
			"transfer failure is a bad gateway",
			fmt.Errorf("%w: connection reset", common.ErrTransferFailed),
			http.StatusBadGateway,
			"upstream transfer failed",
		},
		{
			"persist failure keeps its category",
			fmt.Errorf("%w: tx aborted", common.ErrPersistFailed),
			http.StatusInternalServerError,
			"persistence failed",
		},
		{
			"unknown errors stay generic",
			errors.New("pq: duplicate key on users_pkey"),
			http.StatusInternalServerError,
			"internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)
			if rec.Code != tt.status {
				t.Fatalf("want %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Fatalf("body %q does not contain %q", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestWriteError_NeverLeaksInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("dial tcp 10.0.0.5:5432: connect refused"))
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}
