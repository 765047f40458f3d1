package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/timerange"
)

func TestWriteErrorStatus(t *testing.T) {
	day := 3
	tests := []struct {
		name   string
		err    error
		status int
		field  string
	}{
		{name: "validation", err: &availability.ValidationError{Field: "weekly_hours", Day: &day, Reason: "bad"}, status: http.StatusBadRequest, field: "weekly_hours"},
		{name: "time range", err: &timerange.Error{Kind: timerange.KindRangeOrder, Field: "close_time"}, status: http.StatusBadRequest, field: "close_time"},
		{name: "product validation", err: &menu.ValidationError{Field: "name", Reason: "bad"}, status: http.StatusBadRequest, field: "name"},
		{name: "not found wrapped", err: fmt.Errorf("delete: %w", availability.ErrNotFound), status: http.StatusNotFound},
		{name: "product not found", err: menu.ErrNotFound, status: http.StatusNotFound},
		{name: "conflict", err: availability.ErrConflict, status: http.StatusConflict},
		{name: "no updates", err: menu.ErrNoUpdates, status: http.StatusBadRequest},
		{name: "images disabled", err: menu.ErrImagesDisabled, status: http.StatusServiceUnavailable},
		{name: "handler error", err: HandlerError{Status: http.StatusTeapot, Message: "teapot"}, status: http.StatusTeapot},
		{name: "unexpected", err: errors.New("disk on fire"), status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, "Failed")

			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d", rec.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Field != tt.field {
				t.Fatalf("field: got %q want %q", body.Field, tt.field)
			}
			if tt.status == http.StatusInternalServerError && body.Error != "Failed" {
				t.Fatalf("expected fallback message, got %q", body.Error)
			}
		})
	}
}

func TestWriteErrorIncludesDay(t *testing.T) {
	day := 1
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		&availability.ValidationError{Field: "weekly_hours", Day: &day, Reason: "opening time must be before closing time"}, "Failed")

	if !strings.Contains(rec.Body.String(), `"day":1`) {
		t.Fatalf("expected day in body, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "day 1: opening time must be before closing time") {
		t.Fatalf("expected message, got %s", rec.Body.String())
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatalf("expected error for unknown field")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}{"name":"y"}`))
	if err := DecodeJSON(req, &dst); err == nil {
		t.Fatalf("expected error for trailing data")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	if err := DecodeJSON(req, &dst); err != nil || dst.Name != "x" {
		t.Fatalf("expected decode, got %v %q", err, dst.Name)
	}
}
