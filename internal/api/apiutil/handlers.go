package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/authz"
	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/timerange"
)

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Day   *int   `json:"day,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError maps domain errors to a status code and JSON body. Unexpected
// errors are logged and answered with a generic 500 carrying fallback.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	logger := log.Ctx(r.Context())
	status, body := classify(err, fallback)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg(fallback)
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	if writeErr := WriteJSON(w, status, body); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func classify(err error, fallback string) (int, ErrorResponse) {
	var (
		handlerErr   HandlerError
		fieldErr     FieldError
		scheduleErr  *availability.ValidationError
		productErr   *menu.ValidationError
		timeRangeErr *timerange.Error
	)
	switch {
	case errors.As(err, &handlerErr):
		return handlerErr.Status, ErrorResponse{Error: handlerErr.Message}
	case errors.As(err, &scheduleErr):
		return http.StatusBadRequest, ErrorResponse{Error: scheduleErr.Error(), Field: scheduleErr.Field, Day: scheduleErr.Day}
	case errors.As(err, &productErr):
		return http.StatusBadRequest, ErrorResponse{Error: productErr.Error(), Field: productErr.Field}
	case errors.As(err, &timeRangeErr):
		return http.StatusBadRequest, ErrorResponse{Error: timeRangeErr.Error(), Field: timeRangeErr.Field}
	case errors.As(err, &fieldErr):
		return http.StatusBadRequest, ErrorResponse{Error: fieldErr.Error(), Field: fieldErr.Field}
	case errors.Is(err, menu.ErrNoUpdates):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error()}
	case errors.Is(err, availability.ErrNotFound), errors.Is(err, menu.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Not found"}
	case errors.Is(err, availability.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: err.Error()}
	case errors.Is(err, menu.ErrImagesDisabled):
		return http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()}
	case errors.Is(err, authz.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"}
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "Forbidden"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: fallback}
	}
}

// BadRequest wraps a decode failure so WriteError answers 400.
func BadRequest(err error) error {
	return HandlerError{Status: http.StatusBadRequest, Message: fmt.Sprintf("Invalid request body: %v", err), Err: err}
}
